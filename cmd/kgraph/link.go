package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCmd(opts *options) *cobra.Command {
	linkCmd := &cobra.Command{
		Use:   "link",
		Short: "Create, delete and find links of the current graph",
	}
	linkCmd.AddCommand(newLinkAddCmd(opts))
	linkCmd.AddCommand(newLinkDelCmd(opts))
	linkCmd.AddCommand(newLinkFindCmd(opts))
	return linkCmd
}

func newLinkAddCmd(opts *options) *cobra.Command {
	var (
		name       string
		unoriented bool
	)
	cmd := &cobra.Command{
		Use:   "add <ako|association|composition|instance> <from> <to>",
		Short: "Link two nodes, each picked by a selector matching exactly one node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseLinkKind(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, true, func(s *session) error {
				l, err := s.ws.AddLink(kind, name, !unoriented, args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "✅ Linked #%s ---[ %s ]--> #%s\n", l.From(), l.Name(), l.To())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Link name (defaults to the kind)")
	cmd.Flags().BoolVar(&unoriented, "unoriented", false, "Create a non-oriented link")
	return cmd
}

func newLinkDelCmd(opts *options) *cobra.Command {
	var cascade bool
	cmd := &cobra.Command{
		Use:   "del <kind> <from> <to>",
		Short: "Delete the links of a kind between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseLinkKind(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, true, func(s *session) error {
				n, err := s.ws.DeleteLink(kind, args[1], args[2], cascade)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "🗑️ Deleted %d link(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also delete every other link of the same kind")
	return cmd
}

func newLinkFindCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find <from> <to>",
		Short: "List the links between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(s *session) error {
				links, err := s.ws.FindLinks(args[0], args[1])
				if err != nil {
					return err
				}
				if len(links) == 0 {
					fmt.Fprintln(s.out, "No matching links.")
				}
				for _, l := range links {
					fmt.Fprintf(s.out, "#%s ---[ %s ]--> #%s (%s)\n", l.From(), l.Name(), l.To(), l.Kind())
				}
				return nil
			})
		},
	}
}
