package graph

import (
	"fmt"
	"slices"
)

// Node is a vertex of the knowledge graph. Nodes are equal iff their ids are equal.
type Node struct {
	id    string
	kind  NodeKind
	props Properties

	// incident link ids, in attach order
	links []string

	// Anchor marks the node as a search root inside a query graph.
	Anchor bool
}

// NewNodeWithID creates a node carrying an existing id, e.g. one read from a document.
// Use Graph.NewNode to allocate a fresh id.
func NewNodeWithID(id string, kind NodeKind, props Properties) *Node {
	return &Node{
		id:    id,
		kind:  kind,
		props: props.Clone(),
	}
}

func (n *Node) ID() string { return n.id }
func (n *Node) Kind() NodeKind { return n.kind }

// Equal reports id equality.
func (n *Node) Equal(other *Node) bool {
	return n != nil && other != nil && n.id == other.id
}

// Property returns the property stored under key.
func (n *Node) Property(key string) (Property, bool) {
	p, ok := n.props[key]
	return p, ok
}

// SetProperty adds or replaces a property.
func (n *Node) SetProperty(key string, value any) {
	n.props[key] = NewProperty(value)
}

// RemoveProperty deletes a property; missing keys are ignored.
func (n *Node) RemoveProperty(key string) {
	delete(n.props, key)
}

// Properties returns a copy of the node's dictionary.
func (n *Node) Properties() Properties {
	return n.props.Clone()
}

// LinkIDs returns the ids of the incident links.
func (n *Node) LinkIDs() []string {
	return slices.Clone(n.links)
}

// IsSubsetOf reports whether other has the same kind and carries every
// property of n with an equal value. Extra properties on other are ignored.
func (n *Node) IsSubsetOf(other *Node) bool {
	if other == nil || n.kind != other.kind {
		return false
	}
	return n.props.IsSubsetOf(other.props)
}

// Label is the display name: the "name" property, or "#id".
func (n *Node) Label() string {
	if p, ok := n.props["name"]; ok {
		return p.String()
	}
	return "#" + n.id
}

func (n *Node) String() string {
	return n.Label()
}

// clone copies identity and attributes without adjacency.
func (n *Node) clone() *Node {
	return &Node{
		id:     n.id,
		kind:   n.kind,
		props:  n.props.Clone(),
		Anchor: n.Anchor,
	}
}

func (n *Node) attach(linkID string) {
	if !slices.Contains(n.links, linkID) {
		n.links = append(n.links, linkID)
	}
}

func (n *Node) detach(linkID string) {
	n.links = slices.DeleteFunc(n.links, func(id string) bool { return id == linkID })
}

// describe is used in error messages.
func (n *Node) describe() string {
	return fmt.Sprintf("%s %s", n.kind, n.Label())
}
