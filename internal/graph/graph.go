// Package graph holds the typed knowledge graph: concept and instance nodes,
// four link kinds with their compatibility rules, and the container that keeps
// adjacency lists and the global link collection consistent.
package graph

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/tidwall/btree"
)

// Option configures a Graph at construction.
type Option func(*Graph)

// WithInherit enables property inheritance along Ako and Instance links.
func WithInherit(on bool) Option {
	return func(g *Graph) { g.inherit = on }
}

// WithLogger sets the logger used for rejected mutations and skipped records.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Graph owns nodes and links. Link endpoints and node adjacency are id
// handles resolved through the graph, so a link is only traversable in the
// graph that registered it.
type Graph struct {
	nodes     []*Node
	nodeIndex btree.Map[string, *Node]

	links     []*Link
	linkIndex btree.Map[string, *Link]

	nextID  int
	inherit bool
	logger  *slog.Logger
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Inherit reports whether inherit mode is on.
func (g *Graph) Inherit() bool {
	return g.inherit
}

// Logger returns the graph's logger.
func (g *Graph) Logger() *slog.Logger {
	return g.logger
}

// Options returns options reproducing this graph's configuration.
func (g *Graph) Options() []Option {
	return []Option{WithInherit(g.inherit), WithLogger(g.logger)}
}

// NewNode creates a node with the next free id of this graph. The node is
// not added; use AddNodes or AddLink.
func (g *Graph) NewNode(kind NodeKind, props Properties) *Node {
	id := strconv.Itoa(g.nextID)
	for g.has(id) {
		g.nextID++
		id = strconv.Itoa(g.nextID)
	}
	g.nextID++
	return NewNodeWithID(id, kind, props)
}

// Rebase sets the id generator baseline.
func (g *Graph) Rebase(next int) {
	g.nextID = next
}

// AddNodes appends the nodes that are not already present.
func (g *Graph) AddNodes(nodes ...*Node) {
	for _, n := range nodes {
		if n == nil || g.has(n.id) {
			continue
		}
		g.nodes = append(g.nodes, n)
		g.nodeIndex.Set(n.id, n)
	}
}

// RemoveNodes removes nodes from the node collection only. Incident links stay
// registered; use DeleteNodes to drop them in the same step.
func (g *Graph) RemoveNodes(nodes ...*Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, ok := g.nodeIndex.Delete(n.id); !ok {
			continue
		}
		g.nodes = slices.DeleteFunc(g.nodes, func(o *Node) bool { return o.id == n.id })
	}
}

// DeleteNodes removes the nodes together with every incident link.
func (g *Graph) DeleteNodes(nodes ...*Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		owned, ok := g.nodeIndex.Get(n.id)
		if !ok {
			continue
		}
		for _, id := range owned.LinkIDs() {
			if l, ok := g.linkIndex.Get(id); ok {
				g.detachLink(l)
			}
		}
		g.RemoveNodes(owned)
	}
}

// AddLink joins from and to with link. Both endpoints are validated before
// anything changes; on an illegal association it returns false and neither
// the graph nor the link is modified. Adding an already registered link
// between the same endpoints is a no-op; between other endpoints it is
// refused. A link whose endpoints are set but which is not registered here
// belongs to another graph and is refused too; use CopyLink for that.
func (g *Graph) AddLink(from, to *Node, link *Link) bool {
	if from == nil || to == nil || link == nil {
		return false
	}
	if registered, ok := g.linkIndex.Get(link.id); ok {
		return registered.From() == from.id && registered.To() == to.id
	}
	if link.from != nil || link.to != nil {
		g.logger.Debug("link already bound", "link", link.id, "from", link.From(), "to", link.To())
		return false
	}

	from, to = g.own(from), g.own(to)
	if err := link.attach(from, to); err != nil {
		g.logger.Debug("link rejected", "link", link.id, "from", from.describe(), "to", to.describe(), "error", err)
		return false
	}

	from.attach(link.id)
	to.attach(link.id)
	g.AddNodes(from, to)
	g.links = append(g.links, link)
	g.linkIndex.Set(link.id, link)

	if g.inherit {
		g.inheritAlong(link, from, to)
	}
	return true
}

// RemoveLink detaches the registered link with link's id from both endpoints
// and the link collection, leaving it unbound so it can be added again. With cascade, every other registered link of the
// same kind is removed too. It reports whether the primary removal happened.
func (g *Graph) RemoveLink(link *Link, cascade bool) bool {
	if link == nil {
		return false
	}
	registered, ok := g.linkIndex.Get(link.id)
	if !ok {
		return false
	}
	g.detachLink(registered)

	if cascade {
		for _, l := range slices.Clone(g.links) {
			if l.kind == registered.kind {
				g.detachLink(l)
			}
		}
	}
	return true
}

func (g *Graph) detachLink(l *Link) {
	for _, id := range []string{l.From(), l.To()} {
		if n, ok := g.nodeIndex.Get(id); ok {
			n.detach(l.id)
		}
	}
	g.links = slices.DeleteFunc(g.links, func(o *Link) bool { return o.id == l.id })
	g.linkIndex.Delete(l.id)
	l.detach()
}

// FindNodes returns the nodes carrying every filter property with an equal
// value, optionally restricted to the given kinds.
func (g *Graph) FindNodes(filter Properties, kinds ...NodeKind) []*Node {
	var found []*Node
	for _, n := range g.nodes {
		if len(kinds) > 0 && !slices.Contains(kinds, n.kind) {
			continue
		}
		if filter.IsSubsetOf(n.props) {
			found = append(found, n)
		}
	}
	return found
}

// FindNode returns the node with the given id, or nil.
func (g *Graph) FindNode(id string) *Node {
	n, _ := g.nodeIndex.Get(id)
	return n
}

// FindLink returns the registered link with the given id, or nil.
func (g *Graph) FindLink(id string) *Link {
	l, _ := g.linkIndex.Get(id)
	return l
}

// FindLinks uses an initialized link as a query: it returns the links
// incident to template.To whose opposite endpoint is template.From.
func (g *Graph) FindLinks(template *Link) []*Link {
	if template == nil || !template.Initialized() {
		return nil
	}
	to := g.FindNode(template.To())
	if to == nil {
		return nil
	}

	var found []*Link
	for _, l := range g.IncidentLinks(to) {
		opposite, err := l.Opposite(to.id)
		if err == nil && opposite == template.From() {
			found = append(found, l)
		}
	}
	return found
}

// IncidentLinks resolves the adjacency list of n.
func (g *Graph) IncidentLinks(n *Node) []*Link {
	if n == nil {
		return nil
	}
	owned := g.own(n)
	links := make([]*Link, 0, len(owned.links))
	for _, id := range owned.links {
		if l, ok := g.linkIndex.Get(id); ok {
			links = append(links, l)
		}
	}
	return links
}

// LinkedNode returns the node at the other end of l from n.
func (g *Graph) LinkedNode(l *Link, n *Node) (*Node, error) {
	if l == nil || n == nil {
		return nil, ErrUninitializedLink
	}
	id, err := l.Opposite(n.id)
	if err != nil {
		return nil, err
	}
	other := g.FindNode(id)
	if other == nil {
		return nil, fmt.Errorf("linked node %s: %w", id, ErrNodeNotFound)
	}
	return other, nil
}

// MatchingLinks returns the links incident to n that look like template as
// seen from anchor: the same link (kind and, for named kinds, name), a far
// endpoint resembling anchor, and for oriented templates the far endpoint in
// the role anchor has in template.
func (g *Graph) MatchingLinks(n, anchor *Node, template *Link) []*Link {
	if n == nil || anchor == nil || template == nil {
		return nil
	}
	anchorIsFrom := template.From() == anchor.id

	var found []*Link
	for _, k := range g.IncidentLinks(n) {
		if !template.IsSameLink(k) {
			continue
		}
		far, err := g.LinkedNode(k, n)
		if err != nil || !anchor.IsSubsetOf(far) {
			continue
		}
		if template.Oriented() && (k.From() == far.id) != anchorIsFrom {
			continue
		}
		found = append(found, k)
	}
	return found
}

// CopyNode adds a detached copy of n unless a node with the same id is
// already present, and returns the node held by g.
func (g *Graph) CopyNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	if owned, ok := g.nodeIndex.Get(n.id); ok {
		return owned
	}
	c := n.clone()
	g.AddNodes(c)
	return c
}

// CopyLink registers a copy of l, same id, between the nodes of g that carry
// l's endpoint ids. Both endpoints must already be present.
func (g *Graph) CopyLink(l *Link) bool {
	if l == nil || !l.Initialized() {
		return false
	}
	from, to := g.FindNode(l.From()), g.FindNode(l.To())
	if from == nil || to == nil {
		return false
	}
	return g.AddLink(from, to, l.clone())
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Links returns the links in insertion order.
func (g *Graph) Links() []*Link {
	return slices.Clone(g.links)
}

// Anchors returns the nodes flagged as search roots.
func (g *Graph) Anchors() []*Node {
	var anchors []*Node
	for _, n := range g.nodes {
		if n.Anchor {
			anchors = append(anchors, n)
		}
	}
	return anchors
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// LinkCount returns the number of registered links.
func (g *Graph) LinkCount() int {
	return len(g.links)
}

func (g *Graph) has(id string) bool {
	_, ok := g.nodeIndex.Get(id)
	return ok
}

// own swaps n for the registered node with the same id, if any.
func (g *Graph) own(n *Node) *Node {
	if owned, ok := g.nodeIndex.Get(n.id); ok {
		return owned
	}
	return n
}
