package graph

import "strings"

// NodeKind tags the node variants.
type NodeKind int

const (
	Concept NodeKind = iota
	Instance
)

// NodeKinds lists every node variant in declaration order.
var NodeKinds = []NodeKind{Concept, Instance}

func (k NodeKind) String() string {
	switch k {
	case Concept:
		return "concept"
	case Instance:
		return "instance"
	}
	return "unknown"
}

// Tag returns the document type tag ("CONCEPT", "INSTANCE").
func (k NodeKind) Tag() string {
	return strings.ToUpper(k.String())
}

// ParseNodeKind accepts a kind name or document tag, case-insensitively.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch strings.ToLower(s) {
	case "concept":
		return Concept, true
	case "instance":
		return Instance, true
	}
	return 0, false
}

// LinkKind tags the link variants.
type LinkKind int

const (
	Ako LinkKind = iota
	Association
	Composition
	InstanceOf
)

// linkCapability is the per-variant behaviour table.
type linkCapability struct {
	name     string
	tag      string
	oriented bool
	// named variants also compare names in IsSameLink
	named      bool
	compatible func(from, to NodeKind) bool
}

var linkCapabilities = map[LinkKind]linkCapability{
	Ako: {
		name:     "ako",
		tag:      "AKO",
		oriented: true,
		compatible: func(from, to NodeKind) bool {
			return from == Concept && to == Concept
		},
	},
	Association: {
		name:     "association",
		tag:      "ASSOCIATION",
		oriented: true,
		named:    true,
		compatible: func(from, to NodeKind) bool {
			return from == Instance && to == Instance
		},
	},
	Composition: {
		name:     "composition",
		tag:      "COMPOSITION",
		oriented: true,
		named:    true,
		compatible: func(from, to NodeKind) bool {
			return from == Concept && to == Concept
		},
	},
	InstanceOf: {
		name:     "instance",
		tag:      "INSTANCE",
		oriented: true,
		compatible: func(from, to NodeKind) bool {
			return (from == Concept && to == Instance) || (from == Instance && to == Concept)
		},
	},
}

// LinkKinds lists every link variant in declaration order.
var LinkKinds = []LinkKind{Ako, Association, Composition, InstanceOf}

// String returns the canonical link name, also the default Link name.
func (k LinkKind) String() string {
	if c, ok := linkCapabilities[k]; ok {
		return c.name
	}
	return "unknown"
}

// Tag returns the document type tag.
func (k LinkKind) Tag() string {
	return linkCapabilities[k].tag
}

// Named reports whether links of this kind are distinguished by name.
func (k LinkKind) Named() bool {
	return linkCapabilities[k].named
}

// Compatible reports whether a link of this kind may join from and to.
func (k LinkKind) Compatible(from, to NodeKind) bool {
	c, ok := linkCapabilities[k]
	return ok && c.compatible(from, to)
}

// ParseLinkKind accepts a canonical name or document tag, case-insensitively.
func ParseLinkKind(s string) (LinkKind, bool) {
	for _, k := range LinkKinds {
		if strings.EqualFold(s, k.String()) || strings.EqualFold(s, k.Tag()) {
			return k, true
		}
	}
	return 0, false
}
