package main

import (
	"fmt"
	"os"

	"kgraph/internal/render"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the current graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				printSummary(s.out, s.ws.Current())
				return render.Text(s.out, s.ws.Current())
			})
		},
	}
}

func newGraphsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "graphs",
		Short: "List the graphs saved in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				names, err := s.ws.Graphs(s.ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(s.out, "No saved graphs.")
					return nil
				}
				for _, name := range names {
					fmt.Fprintln(s.out, name)
				}
				return nil
			})
		},
	}
}

func newSwitchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "switch",
		Short: "Swap the current and query graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, true, func(s *session) error {
				current, query := s.ws.Switch()
				fmt.Fprintf(s.out, "🔄 Current graph: %d node(s), query graph: %d node(s)\n", current.Len(), query.Len())
				return nil
			})
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Match the query graph's anchored patterns against the current graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				result := s.ws.Search()
				if format == "" {
					format = s.cfg.Render.Format
				}
				return render.Write(s.out, result, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, mermaid or json")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the current graph with a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, true, func(s *session) error {
				if err := s.ws.Import(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "📥 Imported %d node(s), %d link(s)\n", s.ws.Current().Len(), s.ws.Current().LinkCount())
				return nil
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the current graph as a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				if err := s.ws.Export(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "💾 Exported to %s\n", args[0])
				return nil
			})
		},
	}
}

func newRenderCmd(opts *options) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the current graph as text, Mermaid or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				if format == "" {
					format = s.cfg.Render.Format
				}
				if output == "" {
					return s.ws.Render(s.out, format)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := s.ws.Render(f, format); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, mermaid or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Print a shortest path between two nodes, following links both ways",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				p, err := s.ws.ShortestPath(args[0], args[1])
				if err != nil {
					return err
				}
				printPath(s.out, p)
				return nil
			})
		},
	}
}

func newReachCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reach <from> <to>",
		Short: "Print a path from one node to another along outgoing links",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				p, err := s.ws.Reach(args[0], args[1])
				if err != nil {
					return err
				}
				printPath(s.out, p)
				return nil
			})
		},
	}
}
