package main

import (
	"fmt"

	"kgraph/internal/graph"

	"github.com/spf13/cobra"
)

func newNodeCmd(opts *options) *cobra.Command {
	nodeCmd := &cobra.Command{
		Use:   "node",
		Short: "Create, delete, find and flag nodes of the current graph",
	}
	nodeCmd.AddCommand(newNodeAddCmd(opts))
	nodeCmd.AddCommand(newNodeDelCmd(opts))
	nodeCmd.AddCommand(newNodeFindCmd(opts))
	nodeCmd.AddCommand(newNodeAnchorCmd(opts))
	return nodeCmd
}

func newNodeAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <concept|instance> [key:value...]",
		Short: "Add a node with the given properties",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseNodeKind(args[0])
			if err != nil {
				return err
			}
			props, err := graph.ParseProperties(args[1:])
			if err != nil {
				return err
			}
			return run(cmd, opts, true, func(s *session) error {
				n := s.ws.AddNode(kind, props)
				fmt.Fprintf(s.out, "✅ Added %s #%s %s\n", n.Kind(), n.ID(), n.Label())
				return nil
			})
		},
	}
}

func newNodeDelCmd(opts *options) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "del <selector>",
		Short: "Delete the selected nodes and their links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := kindFilter(kind)
			if err != nil {
				return err
			}
			return run(cmd, opts, true, func(s *session) error {
				n, err := s.ws.DeleteNodes(args[0], kinds...)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "🗑️ Deleted %d node(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only nodes of this kind (concept or instance)")
	return cmd
}

func newNodeFindCmd(opts *options) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "find <selector>",
		Short: "List the nodes picked by an id, key:value pairs or *",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := kindFilter(kind)
			if err != nil {
				return err
			}
			return run(cmd, opts, false, func(s *session) error {
				nodes, err := s.ws.FindNodes(args[0], kinds...)
				if err != nil {
					return err
				}
				printNodes(s.out, nodes)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only nodes of this kind (concept or instance)")
	return cmd
}

func newNodeAnchorCmd(opts *options) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "anchor <selector>",
		Short: "Flag the selected nodes as search roots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, true, func(s *session) error {
				n, err := s.ws.SetAnchor(args[0], !off)
				if err != nil {
					return err
				}
				state := "anchored"
				if off {
					state = "unanchored"
				}
				fmt.Fprintf(s.out, "📌 %d node(s) %s\n", n, state)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Clear the flag instead")
	return cmd
}
