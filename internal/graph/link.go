package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// endpoint is a node handle resolved through the owning Graph.
type endpoint struct {
	id   string
	kind NodeKind
}

// Link is a typed relation between two nodes.
type Link struct {
	id       string
	kind     LinkKind
	name     string
	oriented bool

	from, to *endpoint
}

// NewLink creates a link with the kind's canonical name and default orientation.
func NewLink(kind LinkKind) *Link {
	c := linkCapabilities[kind]
	return NewNamedLink(kind, c.name, c.oriented)
}

// NewNamedLink creates a link with an explicit name and orientation.
// An empty name falls back to the canonical one.
func NewNamedLink(kind LinkKind, name string, oriented bool) *Link {
	if name == "" {
		name = kind.String()
	}
	return &Link{
		id:       uuid.NewString(),
		kind:     kind,
		name:     name,
		oriented: oriented,
	}
}

func (l *Link) ID() string { return l.id }
func (l *Link) Kind() LinkKind { return l.kind }
func (l *Link) Name() string { return l.name }
func (l *Link) Oriented() bool { return l.oriented }
func (l *Link) String() string { return l.name }
func (l *Link) Initialized() bool { return l.from != nil && l.to != nil }

// From returns the origin node id, or "" when unset.
func (l *Link) From() string {
	if l.from == nil {
		return ""
	}
	return l.from.id
}

// To returns the destination node id, or "" when unset.
func (l *Link) To() string {
	if l.to == nil {
		return ""
	}
	return l.to.id
}

// IsCompatible applies the kind's rule to a prospective pair of endpoints.
func (l *Link) IsCompatible(from, to *Node) bool {
	if from == nil || to == nil {
		return false
	}
	return l.kind.Compatible(from.kind, to.kind)
}

// IsSameLink reports whether other has the same kind and, for named kinds, the same name.
func (l *Link) IsSameLink(other *Link) bool {
	if other == nil || l.kind != other.kind {
		return false
	}
	if l.kind.Named() {
		return l.name == other.name
	}
	return true
}

// SetFrom assigns the origin. When the destination is already set the pair
// must be compatible; otherwise the link is left untouched.
func (l *Link) SetFrom(n *Node) error {
	if n == nil {
		return fmt.Errorf("%s link: nil origin: %w", l.kind, ErrIllegalLinkAssociation)
	}
	if l.to != nil && !l.kind.Compatible(n.kind, l.to.kind) {
		return l.illegal(n.kind, l.to.kind)
	}
	l.from = &endpoint{id: n.id, kind: n.kind}
	return nil
}

// SetTo assigns the destination, validated like SetFrom.
func (l *Link) SetTo(n *Node) error {
	if n == nil {
		return fmt.Errorf("%s link: nil destination: %w", l.kind, ErrIllegalLinkAssociation)
	}
	if l.from != nil && !l.kind.Compatible(l.from.kind, n.kind) {
		return l.illegal(l.from.kind, n.kind)
	}
	l.to = &endpoint{id: n.id, kind: n.kind}
	return nil
}

// attach assigns both endpoints at once or neither.
func (l *Link) attach(from, to *Node) error {
	if !l.kind.Compatible(from.kind, to.kind) {
		return l.illegal(from.kind, to.kind)
	}
	l.from = &endpoint{id: from.id, kind: from.kind}
	l.to = &endpoint{id: to.id, kind: to.kind}
	return nil
}

// Opposite returns the id of the endpoint facing nodeID.
func (l *Link) Opposite(nodeID string) (string, error) {
	if !l.Initialized() {
		return "", fmt.Errorf("link %s (%s): %w", l.id, l.name, ErrUninitializedLink)
	}
	switch nodeID {
	case l.from.id:
		return l.to.id, nil
	case l.to.id:
		return l.from.id, nil
	}
	return "", fmt.Errorf("node %s on link %s (%s): %w", nodeID, l.id, l.name, ErrNoLinkedNode)
}

// detach clears both endpoints once the link leaves its graph.
func (l *Link) detach() {
	l.from, l.to = nil, nil
}

// clone copies the link, id included, without endpoints.
func (l *Link) clone() *Link {
	return &Link{
		id:       l.id,
		kind:     l.kind,
		name:     l.name,
		oriented: l.oriented,
	}
}

func (l *Link) illegal(from, to NodeKind) error {
	return fmt.Errorf("%s link cannot join %s to %s: %w", l.kind, from, to, ErrIllegalLinkAssociation)
}
