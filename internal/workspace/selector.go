package workspace

import (
	"fmt"
	"slices"
	"strings"

	"kgraph/internal/graph"
)

// Selector picks nodes either by id or by properties.
//
//	"12"                     the node with id 12
//	"name:Medoc"             nodes whose name is Medoc
//	"name:Medoc,forme:sirop" both properties must match
//	"*"                      every node
type Selector struct {
	ID    string
	Props graph.Properties
}

func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty node selector")
	}
	if s == "*" {
		return Selector{Props: graph.Properties{}}, nil
	}
	if !strings.Contains(s, ":") {
		return Selector{ID: s}, nil
	}
	props, err := graph.ParseProperties(strings.Split(s, ","))
	if err != nil {
		return Selector{}, err
	}
	return Selector{Props: props}, nil
}

// Match returns the nodes of g the selector picks, in insertion order.
func (s Selector) Match(g *graph.Graph, kinds ...graph.NodeKind) []*graph.Node {
	if s.ID == "" {
		return g.FindNodes(s.Props, kinds...)
	}
	n := g.FindNode(s.ID)
	if n == nil {
		return nil
	}
	if len(kinds) > 0 && !slices.Contains(kinds, n.Kind()) {
		return nil
	}
	return []*graph.Node{n}
}
