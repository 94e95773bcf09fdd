package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	medoc := g.NewNode(Concept, props("name", "Medoc"))
	antalgic := g.NewNode(Concept, props("name", "Antalgic"))
	doliprane := g.NewNode(Instance, props("name", "Doliprane", "quantite", 90))
	patient := g.NewNode(Instance, props("name", "Paul"))

	require.True(t, g.AddLink(antalgic, medoc, NewLink(Ako)))
	require.True(t, g.AddLink(doliprane, antalgic, NewLink(InstanceOf)))
	require.True(t, g.AddLink(patient, doliprane, NewNamedLink(Association, "takes", false)))
	return g
}

func TestDocument_RoundTripIsFixedPoint(t *testing.T) {
	g := sampleGraph(t)

	var first bytes.Buffer
	require.NoError(t, g.ToDocument().Write(&first))

	doc, err := ReadDocument(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	loaded, err := FromDocument(doc)
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, loaded.ToDocument().Write(&second))
	assert.JSONEq(t, first.String(), second.String())

	assert.Equal(t, g.Len(), loaded.Len())
	assert.Equal(t, g.LinkCount(), loaded.LinkCount())
	d := loaded.FindNode("2")
	require.NotNil(t, d)
	assert.Len(t, d.LinkIDs(), 2, "adjacency is rebuilt from the link list")
}

func TestDocument_Shape(t *testing.T) {
	doc := sampleGraph(t).ToDocument()

	require.Len(t, doc.Nodes, 4)
	assert.Equal(t, NodeRecord{ID: "0", Type: "CONCEPT", Content: map[string]any{"name": "Medoc"}}, doc.Nodes[1])
	require.Len(t, doc.Links, 3)
	assert.Equal(t, LinkRecord{From: "1", To: "0", Name: "ako", Oriented: true, Type: "AKO"}, doc.Links[0])
	assert.Equal(t, LinkRecord{From: "3", To: "2", Name: "takes", Oriented: false, Type: "ASSOCIATION"}, doc.Links[2])
}

func TestDocument_EmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().ToDocument().Write(&buf))
	assert.JSONEq(t, `{"nodes":[],"links":[]}`, buf.String())
}

func TestDocument_LoadRebasesIDs(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(`{
		"nodes": [
			{"id": "7", "type": "CONCEPT", "content": {}},
			{"id": "x", "type": "INSTANCE", "content": {"name": "Doliprane"}, "search": true}
		],
		"links": [
			{"from": "x", "to": "7", "name": "instance", "oriented": true, "type": "INSTANCE"}
		]
	}`))
	require.NoError(t, err)

	g, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "8", g.NewNode(Concept, nil).ID())
	require.Len(t, g.Anchors(), 1)
	assert.Equal(t, "x", g.Anchors()[0].ID())
}

func TestDocument_LoadKeepsInheritOption(t *testing.T) {
	doc := &Document{
		Nodes: []NodeRecord{
			{ID: "0", Type: "CONCEPT", Content: map[string]any{"forme": "comprime"}},
			{ID: "1", Type: "INSTANCE", Content: map[string]any{}},
		},
		Links: []LinkRecord{{From: "1", To: "0", Name: "instance", Oriented: true, Type: "INSTANCE"}},
	}

	g, err := FromDocument(doc, WithInherit(true))
	require.NoError(t, err)
	assert.True(t, g.Inherit())
	_, ok := g.FindNode("1").Property("forme")
	assert.True(t, ok)
}

func TestDocument_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"nodes": [`},
		{"missing links", `{"nodes": []}`},
		{"missing node id", `{"nodes": [{"type": "CONCEPT", "content": {}}], "links": []}`},
		{"missing content", `{"nodes": [{"id": "0", "type": "CONCEPT"}], "links": []}`},
		{"missing link name", `{"nodes": [], "links": [{"from": "0", "to": "1", "oriented": true, "type": "AKO"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(tt.json))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestFromDocument_Rejects(t *testing.T) {
	concept := NodeRecord{ID: "0", Type: "CONCEPT", Content: map[string]any{}}
	instance := NodeRecord{ID: "1", Type: "INSTANCE", Content: map[string]any{}}

	tests := []struct {
		name string
		doc  *Document
	}{
		{"nil", nil},
		{"unknown node type", &Document{Nodes: []NodeRecord{{ID: "0", Type: "THING"}}}},
		{"duplicate id", &Document{Nodes: []NodeRecord{concept, concept}}},
		{"unknown link type", &Document{
			Nodes: []NodeRecord{concept, instance},
			Links: []LinkRecord{{From: "1", To: "0", Type: "FRIEND"}},
		}},
		{"unresolved endpoint", &Document{
			Nodes: []NodeRecord{concept},
			Links: []LinkRecord{{From: "9", To: "0", Type: "AKO"}},
		}},
		{"incompatible link", &Document{
			Nodes: []NodeRecord{concept, instance},
			Links: []LinkRecord{{From: "0", To: "1", Name: "treats", Oriented: true, Type: "ASSOCIATION"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromDocument(tt.doc)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDocument_NumbersMatchAfterLoad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleGraph(t).ToDocument().Write(&buf))
	doc, err := ReadDocument(&buf)
	require.NoError(t, err)
	g, err := FromDocument(doc)
	require.NoError(t, err)

	assert.Len(t, g.FindNodes(props("quantite", 90)), 1)
}

func TestDocument_SkipsDanglingLinks(t *testing.T) {
	g := sampleGraph(t)
	g.RemoveNodes(g.FindNode("3"))

	doc := g.ToDocument()
	assert.Len(t, doc.Links, 2)
}

func TestDocument_LargeIntegersSurviveRoundTrip(t *testing.T) {
	const big = int64(1)<<53 + 1
	g := New()
	g.AddNodes(g.NewNode(Instance, props("serial", big, "ratio", 0.5, "tags", []any{1, "x"})))

	var buf bytes.Buffer
	require.NoError(t, g.ToDocument().Write(&buf))
	doc, err := ReadDocument(&buf)
	require.NoError(t, err)
	assert.Equal(t, big, doc.Nodes[0].Content["serial"])
	assert.Equal(t, 0.5, doc.Nodes[0].Content["ratio"])
	assert.Equal(t, []any{int64(1), "x"}, doc.Nodes[0].Content["tags"])

	loaded, err := FromDocument(doc)
	require.NoError(t, err)
	p, ok := loaded.FindNode("0").Property("serial")
	require.True(t, ok)
	assert.Equal(t, big, p.Get())
	assert.Empty(t, loaded.FindNodes(props("serial", big-1)))
}

func TestDecodeContent(t *testing.T) {
	content, err := DecodeContent([]byte(`{"n": 9007199254740993, "f": 1.25}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), content["n"])
	assert.Equal(t, 1.25, content["f"])

	content, err = DecodeContent([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, content)

	_, err = DecodeContent([]byte(`[`))
	assert.Error(t, err)
}
