package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"kgraph/internal/config"
	"kgraph/internal/graph"
	"kgraph/internal/logging"
	"kgraph/internal/metrics"
	"kgraph/internal/storage"
	"kgraph/internal/workspace"

	"github.com/spf13/cobra"
)

// options holds the persistent flags of one command tree.
type options struct {
	configPath string
	dbPath     string
	stats      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "kgraph",
		Short:         "Typed knowledge graph with pattern search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "kgraph.yaml", "Path to the config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "Override the storage path from the config")
	rootCmd.PersistentFlags().BoolVar(&opts.stats, "stats", false, "Print metric counters after the command")

	rootCmd.AddCommand(newNodeCmd(opts))
	rootCmd.AddCommand(newLinkCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newGraphsCmd(opts))
	rootCmd.AddCommand(newSwitchCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newPathCmd(opts))
	rootCmd.AddCommand(newReachCmd(opts))
	return rootCmd
}

// session is the state shared by one command run.
type session struct {
	ctx context.Context
	cfg *config.Config
	ws  *workspace.Workspace
	out io.Writer
}

// run loads the workspace from the configured store, calls fn and, when save
// is set, writes both graphs back.
func run(cmd *cobra.Command, opts *options, save bool, fn func(s *session) error) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.Storage.Path = opts.dbPath
	}

	logger := logging.New(cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr())

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	ws := workspace.New(
		workspace.WithStore(store, cfg.Graph.Current, cfg.Graph.Query),
		workspace.WithInherit(cfg.Graph.Inherit),
		workspace.WithLogger(logger),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ws.Load(ctx); err != nil {
		return err
	}

	s := &session{ctx: ctx, cfg: cfg, ws: ws, out: cmd.OutOrStdout()}
	if err := fn(s); err != nil {
		return err
	}
	if save {
		if err := ws.Save(ctx); err != nil {
			return err
		}
	}
	if opts.stats {
		return printStats(s.out)
	}
	return nil
}

func printStats(w io.Writer) error {
	samples, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	for _, sample := range samples {
		fmt.Fprintln(w, sample)
	}
	return nil
}

func printNodes(w io.Writer, nodes []*graph.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No matching nodes.")
		return
	}
	for _, n := range nodes {
		fmt.Fprintf(w, "#%s %s %s\n", n.ID(), n.Kind(), n.Label())
	}
}

// printSummary writes the per-kind node and link counts of g on one line.
func printSummary(w io.Writer, g *graph.Graph) {
	nodes, links := g.NodeKindCounts(), g.LinkKindCounts()
	parts := make([]string, 0, len(graph.NodeKinds)+len(graph.LinkKinds))
	for _, k := range graph.NodeKinds {
		parts = append(parts, fmt.Sprintf("%d %s", nodes[k], k))
	}
	for _, k := range graph.LinkKinds {
		if links[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", links[k], k))
		}
	}
	fmt.Fprintf(w, "📊 %s\n", strings.Join(parts, ", "))
}

func printPath(w io.Writer, nodes []*graph.Node) {
	labels := make([]string, 0, len(nodes))
	for _, n := range nodes {
		labels = append(labels, n.Label())
	}
	fmt.Fprintln(w, strings.Join(labels, " -> "))
}

func parseNodeKind(s string) (graph.NodeKind, error) {
	kind, ok := graph.ParseNodeKind(s)
	if !ok {
		return 0, fmt.Errorf("unknown node kind %q (want concept or instance)", s)
	}
	return kind, nil
}

// kindFilter turns an optional --kind flag into a FindNodes filter.
func kindFilter(s string) ([]graph.NodeKind, error) {
	if s == "" {
		return nil, nil
	}
	kind, err := parseNodeKind(s)
	if err != nil {
		return nil, err
	}
	return []graph.NodeKind{kind}, nil
}

func parseLinkKind(s string) (graph.LinkKind, error) {
	kind, ok := graph.ParseLinkKind(s)
	if !ok {
		names := make([]string, 0, len(graph.LinkKinds))
		for _, k := range graph.LinkKinds {
			names = append(names, k.String())
		}
		return 0, fmt.Errorf("unknown link kind %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return kind, nil
}
