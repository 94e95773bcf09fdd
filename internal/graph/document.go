package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Document is the persisted form of a graph. Node and link order is the
// graph's insertion order.
type Document struct {
	Nodes []NodeRecord `json:"nodes"`
	Links []LinkRecord `json:"links"`
}

type NodeRecord struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Content map[string]any `json:"content"`
	// Search flags an anchor node of a query graph.
	Search bool `json:"search,omitempty"`
}

type LinkRecord struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Name     string `json:"name"`
	Oriented bool   `json:"oriented"`
	Type     string `json:"type"`
}

// ToDocument snapshots the graph. Links whose endpoints are no longer in the
// node collection are skipped.
func (g *Graph) ToDocument() *Document {
	doc := &Document{
		Nodes: make([]NodeRecord, 0, len(g.nodes)),
		Links: make([]LinkRecord, 0, len(g.links)),
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:      n.id,
			Type:    n.kind.Tag(),
			Content: n.props.Values(),
			Search:  n.Anchor,
		})
	}
	for _, l := range g.links {
		if !l.Initialized() || !g.has(l.From()) || !g.has(l.To()) {
			g.logger.Warn("skipping dangling link", "link", l.id, "from", l.From(), "to", l.To())
			continue
		}
		doc.Links = append(doc.Links, LinkRecord{
			From:     l.From(),
			To:       l.To(),
			Name:     l.name,
			Oriented: l.oriented,
			Type:     l.kind.Tag(),
		})
	}
	return doc
}

// FromDocument rebuilds a graph: nodes first, then every link replayed through
// AddLink so adjacency is consistent. The id baseline becomes max(numeric
// ids)+1. Any malformed record fails the whole load with ErrFormat and no
// graph is returned.
func FromDocument(doc *Document, opts ...Option) (*Graph, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrFormat)
	}
	g := New(opts...)

	maxID := -1
	for i, rec := range doc.Nodes {
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: node %d: missing id", ErrFormat, i)
		}
		kind, ok := ParseNodeKind(rec.Type)
		if !ok {
			return nil, fmt.Errorf("%w: node %s: unknown type %q", ErrFormat, rec.ID, rec.Type)
		}
		if g.has(rec.ID) {
			return nil, fmt.Errorf("%w: duplicate node id %s", ErrFormat, rec.ID)
		}
		n := NewNodeWithID(rec.ID, kind, PropertiesOf(rec.Content))
		n.Anchor = rec.Search
		g.AddNodes(n)

		if v, err := strconv.Atoi(rec.ID); err == nil && v > maxID {
			maxID = v
		}
	}
	g.Rebase(maxID + 1)

	for i, rec := range doc.Links {
		kind, ok := ParseLinkKind(rec.Type)
		if !ok {
			return nil, fmt.Errorf("%w: link %d: unknown type %q", ErrFormat, i, rec.Type)
		}
		from, to := g.FindNode(rec.From), g.FindNode(rec.To)
		if from == nil || to == nil {
			return nil, fmt.Errorf("%w: link %d: unresolved endpoint %q -> %q", ErrFormat, i, rec.From, rec.To)
		}
		if !g.AddLink(from, to, NewNamedLink(kind, rec.Name, rec.Oriented)) {
			return nil, fmt.Errorf("%w: link %d: %s cannot join %s to %s", ErrFormat, i, kind, from.kind, to.kind)
		}
	}
	return g, nil
}

// Write encodes the document as indented JSON.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

type nodeWire struct {
	ID      *string        `json:"id"`
	Type    *string        `json:"type"`
	Content map[string]any `json:"content"`
	Search  bool           `json:"search"`
}

type linkWire struct {
	From     *string `json:"from"`
	To       *string `json:"to"`
	Name     *string `json:"name"`
	Oriented *bool   `json:"oriented"`
	Type     *string `json:"type"`
}

type documentWire struct {
	Nodes *[]nodeWire `json:"nodes"`
	Links *[]linkWire `json:"links"`
}

// DecodeContent decodes a node content object. Integers stay exact int64
// values instead of float64.
func DecodeContent(data []byte) (map[string]any, error) {
	var content map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&content); err != nil {
		return nil, err
	}
	if content == nil {
		return map[string]any{}, nil
	}
	return plainValue(content).(map[string]any), nil
}

// ReadDocument decodes a JSON document, rejecting records with missing fields.
// Integers in node content decode to int64.
func ReadDocument(r io.Reader) (*Document, error) {
	var wire documentWire
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if wire.Nodes == nil || wire.Links == nil {
		return nil, fmt.Errorf("%w: missing nodes or links", ErrFormat)
	}

	doc := &Document{
		Nodes: make([]NodeRecord, 0, len(*wire.Nodes)),
		Links: make([]LinkRecord, 0, len(*wire.Links)),
	}
	for i, n := range *wire.Nodes {
		if n.ID == nil || n.Type == nil || n.Content == nil {
			return nil, fmt.Errorf("%w: node %d: missing field", ErrFormat, i)
		}
		doc.Nodes = append(doc.Nodes, NodeRecord{ID: *n.ID, Type: *n.Type, Content: plainValue(n.Content).(map[string]any), Search: n.Search})
	}
	for i, l := range *wire.Links {
		if l.From == nil || l.To == nil || l.Name == nil || l.Oriented == nil || l.Type == nil {
			return nil, fmt.Errorf("%w: link %d: missing field", ErrFormat, i)
		}
		doc.Links = append(doc.Links, LinkRecord{From: *l.From, To: *l.To, Name: *l.Name, Oriented: *l.Oriented, Type: *l.Type})
	}
	return doc, nil
}
