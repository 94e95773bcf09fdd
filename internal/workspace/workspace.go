// Package workspace holds the pair of graphs a session works on: the current
// graph that commands edit, and the query graph that searches run against it.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"kgraph/internal/analysis"
	"kgraph/internal/graph"
	"kgraph/internal/metrics"
	"kgraph/internal/render"
	"kgraph/internal/retrieval"
	"kgraph/internal/storage"
)

// ErrAmbiguous is returned when a selector that must name one node matches several.
var ErrAmbiguous = errors.New("selector matches more than one node")

type Option func(*Workspace)

// WithStore persists the current and query graphs under the given names.
func WithStore(store storage.GraphStore, current, query string) Option {
	return func(w *Workspace) {
		w.store = store
		if current != "" {
			w.currentName = current
		}
		if query != "" {
			w.queryName = query
		}
	}
}

func WithInherit(on bool) Option {
	return func(w *Workspace) { w.inherit = on }
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

type Workspace struct {
	current *graph.Graph
	query   *graph.Graph

	store       storage.GraphStore
	currentName string
	queryName   string

	inherit bool
	logger  *slog.Logger
}

// New creates a workspace with two empty graphs.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		currentName: "current",
		queryName:   "query",
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.current = w.newGraph()
	w.query = w.newGraph()
	return w
}

func (w *Workspace) graphOptions() []graph.Option {
	return []graph.Option{graph.WithInherit(w.inherit), graph.WithLogger(w.logger)}
}

func (w *Workspace) newGraph() *graph.Graph {
	return graph.New(w.graphOptions()...)
}

func (w *Workspace) Current() *graph.Graph { return w.current }
func (w *Workspace) Query() *graph.Graph { return w.query }

// Switch swaps the roles of the two graphs and returns them in their new roles.
func (w *Workspace) Switch() (current, query *graph.Graph) {
	w.current, w.query = w.query, w.current
	w.observe()
	return w.current, w.query
}

// AddNode creates a node in the current graph.
func (w *Workspace) AddNode(kind graph.NodeKind, props graph.Properties) *graph.Node {
	n := w.current.NewNode(kind, props)
	w.current.AddNodes(n)
	w.logger.Debug("node added", "id", n.ID(), "kind", kind)
	return n
}

// FindNodes resolves a selector against the current graph, optionally
// restricted to kinds.
func (w *Workspace) FindNodes(selector string, kinds ...graph.NodeKind) ([]*graph.Node, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.Match(w.current, kinds...), nil
}

// DeleteNodes removes the selected nodes and their links, returning how many went.
func (w *Workspace) DeleteNodes(selector string, kinds ...graph.NodeKind) (int, error) {
	nodes, err := w.FindNodes(selector, kinds...)
	if err != nil {
		return 0, err
	}
	w.current.DeleteNodes(nodes...)
	return len(nodes), nil
}

// SetAnchor flags or unflags the selected nodes as search roots.
func (w *Workspace) SetAnchor(selector string, on bool) (int, error) {
	nodes, err := w.FindNodes(selector)
	if err != nil {
		return 0, err
	}
	for _, n := range nodes {
		n.Anchor = on
	}
	return len(nodes), nil
}

// AddLink joins the nodes selected by from and to. An empty name uses the
// kind's canonical name.
func (w *Workspace) AddLink(kind graph.LinkKind, name string, oriented bool, from, to string) (*graph.Link, error) {
	a, err := w.one(from)
	if err != nil {
		return nil, err
	}
	b, err := w.one(to)
	if err != nil {
		return nil, err
	}

	l := graph.NewNamedLink(kind, name, oriented)
	if !w.current.AddLink(a, b, l) {
		metrics.LinkRejectionsTotal.WithLabelValues(kind.String()).Inc()
		return nil, fmt.Errorf("%s link from %s %s to %s %s: %w",
			kind, a.Kind(), a.Label(), b.Kind(), b.Label(), graph.ErrIllegalLinkAssociation)
	}
	return l, nil
}

// FindLinks returns the links going from the node selected by from to the one
// selected by to, in either orientation.
func (w *Workspace) FindLinks(from, to string) ([]*graph.Link, error) {
	a, err := w.one(from)
	if err != nil {
		return nil, err
	}
	b, err := w.one(to)
	if err != nil {
		return nil, err
	}

	tmpl := graph.NewLink(graph.Ako)
	// Template endpoints are never attached to a graph, so any kind will do.
	if err := tmpl.SetFrom(graph.NewNodeWithID(a.ID(), graph.Concept, nil)); err != nil {
		return nil, err
	}
	if err := tmpl.SetTo(graph.NewNodeWithID(b.ID(), graph.Concept, nil)); err != nil {
		return nil, err
	}
	return w.current.FindLinks(tmpl), nil
}

// DeleteLink removes the links of kind between the selected nodes. With
// cascade every link of that kind in the current graph goes too.
func (w *Workspace) DeleteLink(kind graph.LinkKind, from, to string, cascade bool) (int, error) {
	links, err := w.FindLinks(from, to)
	if err != nil {
		return 0, err
	}

	before := w.current.LinkCount()
	for _, l := range links {
		if l.Kind() == kind {
			w.current.RemoveLink(l, cascade)
		}
	}
	return before - w.current.LinkCount(), nil
}

// Search matches the query graph against the current graph.
func (w *Workspace) Search() *graph.Graph {
	return retrieval.Search(w.current, w.query)
}

// ShortestPath finds a path with the fewest links between two selected nodes.
func (w *Workspace) ShortestPath(from, to string) ([]*graph.Node, error) {
	a, err := w.one(from)
	if err != nil {
		return nil, err
	}
	b, err := w.one(to)
	if err != nil {
		return nil, err
	}
	return analysis.ShortestPath(w.current, a, b)
}

// Reach follows outgoing links from one selected node to another.
func (w *Workspace) Reach(from, to string) ([]*graph.Node, error) {
	a, err := w.one(from)
	if err != nil {
		return nil, err
	}
	b, err := w.one(to)
	if err != nil {
		return nil, err
	}
	path := analysis.Reachable(w.current, a, b, nil)
	if path == nil {
		return nil, fmt.Errorf("%s to %s: %w", a.Label(), b.Label(), analysis.ErrUnreachable)
	}
	return path, nil
}

// Render writes the current graph in the given format.
func (w *Workspace) Render(out io.Writer, format string) error {
	return render.Write(out, w.current, format)
}

// Import replaces the current graph with the document at path. On error the
// current graph is left as it was.
func (w *Workspace) Import(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := graph.ReadDocument(f)
	if err != nil {
		metrics.DocumentLoadsTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("%s: %w", path, err)
	}
	g, err := w.fromDocument("file", doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	w.current = g
	w.observe()
	return nil
}

// Export writes the current graph document to path.
func (w *Workspace) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := w.current.ToDocument().Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads both graphs from the store. Without a store it does nothing.
func (w *Workspace) Load(ctx context.Context) error {
	if w.store == nil {
		return nil
	}
	current, err := w.load(ctx, w.currentName)
	if err != nil {
		return err
	}
	query, err := w.load(ctx, w.queryName)
	if err != nil {
		return err
	}
	w.current, w.query = current, query
	w.observe()
	return nil
}

func (w *Workspace) load(ctx context.Context, name string) (*graph.Graph, error) {
	doc, err := w.store.Load(ctx, name)
	if err != nil {
		metrics.DocumentLoadsTotal.WithLabelValues("store", "error").Inc()
		return nil, fmt.Errorf("failed to load graph %s: %w", name, err)
	}
	g, err := w.fromDocument("store", doc)
	if err != nil {
		return nil, fmt.Errorf("graph %s: %w", name, err)
	}
	return g, nil
}

func (w *Workspace) fromDocument(source string, doc *graph.Document) (*graph.Graph, error) {
	g, err := graph.FromDocument(doc, w.graphOptions()...)
	if err != nil {
		metrics.DocumentLoadsTotal.WithLabelValues(source, "error").Inc()
		return nil, err
	}
	metrics.DocumentLoadsTotal.WithLabelValues(source, "ok").Inc()
	return g, nil
}

// Save writes both graphs to the store. Without a store it does nothing.
func (w *Workspace) Save(ctx context.Context) error {
	if w.store == nil {
		return nil
	}
	if err := w.store.Save(ctx, w.currentName, w.current.ToDocument()); err != nil {
		return fmt.Errorf("failed to save graph %s: %w", w.currentName, err)
	}
	if err := w.store.Save(ctx, w.queryName, w.query.ToDocument()); err != nil {
		return fmt.Errorf("failed to save graph %s: %w", w.queryName, err)
	}
	w.observe()
	return nil
}

func (w *Workspace) observe() {
	for role, g := range map[string]*graph.Graph{"current": w.current, "query": w.query} {
		metrics.GraphNodes.WithLabelValues(role).Set(float64(g.Len()))

		nodes, links := g.NodeKindCounts(), g.LinkKindCounts()
		for _, k := range graph.NodeKinds {
			metrics.GraphElements.WithLabelValues(role, "node", k.String()).Set(float64(nodes[k]))
		}
		for _, k := range graph.LinkKinds {
			metrics.GraphElements.WithLabelValues(role, "link", k.String()).Set(float64(links[k]))
		}
	}
}

// Graphs lists the graph names held by the store.
func (w *Workspace) Graphs(ctx context.Context) ([]string, error) {
	if w.store == nil {
		return nil, nil
	}
	return w.store.Names(ctx)
}

// one resolves a selector that must match exactly one node.
func (w *Workspace) one(selector string) (*graph.Node, error) {
	nodes, err := w.FindNodes(selector)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%q: %w", selector, graph.ErrNodeNotFound)
	case 1:
		return nodes[0], nil
	}
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	return nil, fmt.Errorf("%q matches %s: %w", selector, strings.Join(ids, ", "), ErrAmbiguous)
}
