// Package retrieval answers pattern queries against a knowledge graph.
package retrieval

import (
	"time"

	"kgraph/internal/graph"
	"kgraph/internal/metrics"
)

// Search matches the one-hop patterns rooted at the query's anchors against
// target and returns the matching nodes and links as a new graph.
//
// For every anchor Q and every link R incident to Q, with P the node across R,
// each target node M resembling P is checked against every link template of
// Q: each target link of M that looks like such a template as seen from Q is
// kept together with both of its endpoints. A candidate without a matching
// link is not kept. Search never fails: broken templates and candidates are
// logged and skipped.
func Search(target, query *graph.Graph) *graph.Graph {
	start := time.Now()
	logger := target.Logger()

	found := graph.New(target.Options()...)
	for _, anchor := range query.Anchors() {
		templates := query.IncidentLinks(anchor)
		for _, tmpl := range templates {
			pattern, err := query.LinkedNode(tmpl, anchor)
			if err != nil {
				logger.Debug("skipping query link", "link", tmpl.ID(), "anchor", anchor.ID(), "error", err)
				continue
			}
			collect(found, target, anchor, pattern, templates)
		}
	}

	result := normalize(found, target.Options()...)

	outcome := "match"
	if result.Len() == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	metrics.MatchedTotal.WithLabelValues("node").Add(float64(result.Len()))
	metrics.MatchedTotal.WithLabelValues("link").Add(float64(result.LinkCount()))
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	logger.Debug("search finished", "anchors", len(query.Anchors()), "nodes", result.Len(), "links", result.LinkCount())
	return result
}

func collect(found, target *graph.Graph, anchor, pattern *graph.Node, templates []*graph.Link) {
	for _, candidate := range target.Nodes() {
		if !pattern.IsSubsetOf(candidate) {
			continue
		}
		for _, tmpl := range templates {
			for _, k := range target.MatchingLinks(candidate, anchor, tmpl) {
				other, err := target.LinkedNode(k, candidate)
				if err != nil {
					target.Logger().Debug("skipping candidate link", "candidate", candidate.ID(), "link", k.ID(), "error", err)
					continue
				}
				found.CopyNode(candidate)
				found.CopyNode(other)
				found.CopyLink(k)
			}
		}
	}
}

// normalize rebuilds g through its document form so that the result owns
// fresh entities and a consistent id baseline.
func normalize(g *graph.Graph, opts ...graph.Option) *graph.Graph {
	out, err := graph.FromDocument(g.ToDocument(), opts...)
	if err != nil {
		g.Logger().Warn("search result normalization failed", "error", err)
		return g
	}
	return out
}
