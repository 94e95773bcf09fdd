// Package analysis provides path queries over a knowledge graph.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"kgraph/internal/graph"
)

// ErrUnreachable is returned when no path joins the requested nodes.
var ErrUnreachable = errors.New("destination unreachable")

// Reachable walks outgoing links depth-first from origin and returns the path
// origin..dest, or nil when dest cannot be reached. visited may be nil; nodes
// already in it are never entered.
func Reachable(g *graph.Graph, origin, dest *graph.Node, visited map[string]bool) []*graph.Node {
	if g == nil || origin == nil || dest == nil {
		return nil
	}
	if visited == nil {
		visited = make(map[string]bool)
	}
	return reach(g, origin, dest, visited)
}

func reach(g *graph.Graph, cur, dest *graph.Node, visited map[string]bool) []*graph.Node {
	visited[cur.ID()] = true
	if cur.Equal(dest) {
		return []*graph.Node{cur}
	}
	for _, l := range g.IncidentLinks(cur) {
		if l.From() != cur.ID() {
			continue
		}
		next := g.FindNode(l.To())
		if next == nil || visited[next.ID()] {
			continue
		}
		if path := reach(g, next, dest, visited); path != nil {
			return append([]*graph.Node{cur}, path...)
		}
	}
	return nil
}

// ShortestPath returns a path with the fewest links between origin and dest,
// following links in either direction. Ties go to the node added first.
func ShortestPath(g *graph.Graph, origin, dest *graph.Node) ([]*graph.Node, error) {
	if g == nil || origin == nil || dest == nil {
		return nil, fmt.Errorf("shortest path: %w", graph.ErrNodeNotFound)
	}
	if g.FindNode(origin.ID()) == nil {
		return nil, fmt.Errorf("origin %s: %w", origin.ID(), graph.ErrNodeNotFound)
	}
	if g.FindNode(dest.ID()) == nil {
		return nil, fmt.Errorf("destination %s: %w", dest.ID(), graph.ErrNodeNotFound)
	}

	nodes := g.Nodes()
	dist := make(map[string]int, len(nodes))
	prev := make(map[string]*graph.Node, len(nodes))
	settled := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		dist[n.ID()] = math.MaxInt
	}
	dist[origin.ID()] = 0

	for !settled[dest.ID()] {
		cur := closest(nodes, dist, settled)
		if cur == nil {
			return nil, fmt.Errorf("%s to %s: %w", origin.Label(), dest.Label(), ErrUnreachable)
		}
		settled[cur.ID()] = true

		for _, l := range g.IncidentLinks(cur) {
			next, err := g.LinkedNode(l, cur)
			if err != nil || settled[next.ID()] {
				continue
			}
			if d := dist[cur.ID()] + 1; d < dist[next.ID()] {
				dist[next.ID()] = d
				prev[next.ID()] = cur
			}
		}
	}

	var path []*graph.Node
	for n := g.FindNode(dest.ID()); n != nil; n = prev[n.ID()] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// closest picks the unsettled node with the smallest finite distance.
func closest(nodes []*graph.Node, dist map[string]int, settled map[string]bool) *graph.Node {
	var best *graph.Node
	bestDist := math.MaxInt
	for _, n := range nodes {
		if settled[n.ID()] {
			continue
		}
		if d := dist[n.ID()]; d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
