package workspace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"kgraph/internal/analysis"
	"kgraph/internal/graph"
	"kgraph/internal/metrics"
	"kgraph/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(kv ...string) graph.Properties {
	m := make(map[string]any)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return graph.PropertiesOf(m)
}

func TestParseSelector(t *testing.T) {
	s, err := ParseSelector("12")
	require.NoError(t, err)
	assert.Equal(t, "12", s.ID)

	s, err = ParseSelector("name:Medoc,quantite:90")
	require.NoError(t, err)
	assert.Empty(t, s.ID)
	assert.Equal(t, int64(90), s.Props["quantite"].Get())

	s, err = ParseSelector("*")
	require.NoError(t, err)
	assert.NotNil(t, s.Props)

	_, err = ParseSelector("  ")
	assert.Error(t, err)
	_, err = ParseSelector("name:Medoc,broken")
	assert.Error(t, err)
}

func TestWorkspace_NodeCommands(t *testing.T) {
	w := New()
	medoc := w.AddNode(graph.Concept, named("name", "Medoc"))
	w.AddNode(graph.Instance, named("name", "Doliprane"))
	w.AddNode(graph.Instance, named("name", "Efferalgan"))

	found, err := w.FindNodes("name:Medoc")
	require.NoError(t, err)
	assert.Equal(t, []*graph.Node{medoc}, found)

	found, err = w.FindNodes(medoc.ID(), graph.Instance)
	require.NoError(t, err)
	assert.Empty(t, found, "id selector honours the kind filter")

	found, err = w.FindNodes("*", graph.Instance)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	n, err := w.SetAnchor("name:Medoc", true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []*graph.Node{medoc}, w.Current().Anchors())

	n, err = w.DeleteNodes("*", graph.Instance)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, w.Current().Len())
}

func TestWorkspace_AddLinkRejected(t *testing.T) {
	w := New()
	w.AddNode(graph.Concept, named("name", "Medoc"))
	w.AddNode(graph.Instance, named("name", "Doliprane"))

	before := metrics.Value("kgraph_link_rejections_total", `kind="association"`)
	_, err := w.AddLink(graph.Association, "treats", true, "name:Medoc", "name:Doliprane")

	assert.ErrorIs(t, err, graph.ErrIllegalLinkAssociation)
	assert.Equal(t, 0, w.Current().LinkCount())
	assert.Equal(t, before+1, metrics.Value("kgraph_link_rejections_total", `kind="association"`))
}

func TestWorkspace_AddLinkSelectorErrors(t *testing.T) {
	w := New()
	w.AddNode(graph.Instance, named("kind", "pill"))
	w.AddNode(graph.Instance, named("kind", "pill"))

	_, err := w.AddLink(graph.Association, "", true, "kind:pill", "0")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = w.AddLink(graph.Association, "", true, "0", "42")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestWorkspace_LinkCommands(t *testing.T) {
	w := New()
	w.AddNode(graph.Concept, named("name", "A"))
	w.AddNode(graph.Concept, named("name", "B"))
	w.AddNode(graph.Concept, named("name", "C"))

	ab, err := w.AddLink(graph.Ako, "", true, "name:A", "name:B")
	require.NoError(t, err)
	_, err = w.AddLink(graph.Ako, "", true, "name:B", "name:C")
	require.NoError(t, err)
	_, err = w.AddLink(graph.Composition, "part", true, "name:A", "name:C")
	require.NoError(t, err)

	links, err := w.FindLinks("name:B", "name:A")
	require.NoError(t, err)
	assert.Equal(t, []*graph.Link{ab}, links, "lookup ignores orientation")

	n, err := w.DeleteLink(graph.Composition, "name:A", "name:B", false)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "kind must match")

	n, err = w.DeleteLink(graph.Ako, "name:A", "name:B", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, w.Current().LinkCount())
}

func TestWorkspace_SwitchAndSearch(t *testing.T) {
	w := New()

	// build the query first, then swap it into the query role
	anchor := w.AddNode(graph.Concept, named("name", "Antalgic"))
	w.AddNode(graph.Instance, nil)
	_, err := w.AddLink(graph.InstanceOf, "", true, anchor.ID(), "1")
	require.NoError(t, err)
	_, err = w.SetAnchor(anchor.ID(), true)
	require.NoError(t, err)

	built := w.Current()
	current, query := w.Switch()
	assert.Same(t, built, query)
	assert.Equal(t, 0, current.Len())

	w.AddNode(graph.Concept, named("name", "Antalgic"))
	w.AddNode(graph.Instance, named("name", "Doliprane"))
	w.AddNode(graph.Instance, named("name", "Medoc"))
	_, err = w.AddLink(graph.InstanceOf, "", true, "name:Antalgic", "name:Doliprane")
	require.NoError(t, err)
	_, err = w.AddLink(graph.InstanceOf, "", true, "name:Antalgic", "name:Medoc")
	require.NoError(t, err)

	result := w.Search()
	assert.Equal(t, 3, result.Len())
	assert.Equal(t, 2, result.LinkCount())
	assert.Len(t, result.FindNodes(named("name", "Medoc")), 1)
}

func TestWorkspace_Paths(t *testing.T) {
	w := New()
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		w.AddNode(graph.Concept, named("name", name))
	}
	for _, pair := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}} {
		_, err := w.AddLink(graph.Ako, "", true, "name:"+pair[0], "name:"+pair[1])
		require.NoError(t, err)
	}

	p, err := w.ShortestPath("name:A", "name:D")
	require.NoError(t, err)
	assert.Len(t, p, 4)

	_, err = w.ShortestPath("name:A", "name:E")
	assert.ErrorIs(t, err, analysis.ErrUnreachable)

	p, err = w.Reach("name:A", "name:C")
	require.NoError(t, err)
	assert.Len(t, p, 3)

	_, err = w.Reach("name:D", "name:A")
	assert.ErrorIs(t, err, analysis.ErrUnreachable)
}

func TestWorkspace_ImportExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")

	w := New()
	w.AddNode(graph.Concept, named("name", "Medoc"))
	w.AddNode(graph.Instance, named("name", "Doliprane"))
	_, err := w.AddLink(graph.InstanceOf, "", true, "name:Doliprane", "name:Medoc")
	require.NoError(t, err)
	require.NoError(t, w.Export(path))

	other := New()
	require.NoError(t, other.Import(path))
	assert.Equal(t, 2, other.Current().Len())
	assert.Equal(t, 1, other.Current().LinkCount())
	assert.Equal(t, "2", other.AddNode(graph.Concept, nil).ID(), "ids continue after the loaded ones")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"nodes": [{"id": "0", "type": "THING", "content": {}}], "links": []}`), 0o644))
	before := other.Current()
	assert.ErrorIs(t, other.Import(bad), graph.ErrFormat)
	assert.Same(t, before, other.Current(), "failed import keeps the current graph")
}

func TestWorkspace_Render(t *testing.T) {
	w := New()
	w.AddNode(graph.Concept, named("name", "Medoc"))

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf, "mermaid"))
	assert.Contains(t, buf.String(), `n0["Medoc"]:::concept`)
}

func TestWorkspace_StoreRoundTrip(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "kgraph.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	w := New(WithStore(store, "", ""))
	require.NoError(t, w.Load(ctx))
	anchor := w.AddNode(graph.Concept, named("name", "Antalgic"))
	anchor.Anchor = true
	w.Switch()
	w.AddNode(graph.Instance, named("name", "Doliprane"))
	require.NoError(t, w.Save(ctx))

	again := New(WithStore(store, "", ""))
	require.NoError(t, again.Load(ctx))
	assert.Equal(t, 1, again.Current().Len())
	require.Len(t, again.Query().Anchors(), 1)
	assert.Equal(t, "Antalgic", again.Query().Anchors()[0].Label())
}

func TestWorkspace_SaveRecordsKindGauges(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	w := New(WithStore(store, "", ""))
	w.AddNode(graph.Concept, named("name", "Medoc"))
	w.AddNode(graph.Instance, named("name", "Doliprane"))
	w.AddNode(graph.Instance, named("name", "Efferalgan"))
	_, err = w.AddLink(graph.InstanceOf, "", true, "name:Doliprane", "name:Medoc")
	require.NoError(t, err)
	require.NoError(t, w.Save(ctx))

	assert.Equal(t, 2.0, metrics.Value("kgraph_graph_elements", `element="node"`, `kind="instance"`, `role="current"`))
	assert.Equal(t, 1.0, metrics.Value("kgraph_graph_elements", `element="link"`, `kind="instance"`, `role="current"`))
	assert.Equal(t, 0.0, metrics.Value("kgraph_graph_elements", `element="link"`, `kind="ako"`, `role="current"`))

	names, err := w.Graphs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"current", "query"}, names)

	none, err := New().Graphs(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorkspace_InheritOption(t *testing.T) {
	w := New(WithInherit(true))
	w.AddNode(graph.Concept, named("name", "Medoc", "forme", "comprime"))
	d := w.AddNode(graph.Instance, named("name", "Doliprane"))
	_, err := w.AddLink(graph.InstanceOf, "", true, "name:Doliprane", "name:Medoc")
	require.NoError(t, err)

	p, ok := d.Property("forme")
	require.True(t, ok)
	assert.Equal(t, "comprime", p.Get())
}
