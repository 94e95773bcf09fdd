// Package render prints graphs for people: a styled text listing for the
// terminal and Mermaid flowcharts for documents.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"kgraph/internal/graph"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	header   lipgloss.Style
	concept  lipgloss.Style
	instance lipgloss.Style
	link     lipgloss.Style
	faint    lipgloss.Style
}

// newPalette binds styles to w so color is only emitted on terminals.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		header:   r.NewStyle().Bold(true),
		concept:  r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		instance: r.NewStyle().Foreground(lipgloss.Color("10")),
		link:     r.NewStyle().Foreground(lipgloss.Color("11")),
		faint:    r.NewStyle().Faint(true),
	}
}

func (p palette) node(kind graph.NodeKind) lipgloss.Style {
	if kind == graph.Concept {
		return p.concept
	}
	return p.instance
}

// Text lists nodes, then links as "from ---[ name ]--> to". Non-oriented links
// end in "---".
func Text(w io.Writer, g *graph.Graph) error {
	p := newPalette(w)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.header.Render(fmt.Sprintf("Nodes (%d)", g.Len())))
	for _, n := range g.Nodes() {
		line := fmt.Sprintf("  %-10s #%s %s", "["+n.Kind().String()+"]", n.ID(), p.node(n.Kind()).Render(n.Label()))
		if props := formatProperties(n.Properties()); props != "" {
			line += "  " + p.faint.Render(props)
		}
		if n.Anchor {
			line += " *"
		}
		b.WriteString(line + "\n")
	}

	views := g.LinkViews()
	fmt.Fprintf(&b, "%s\n", p.header.Render(fmt.Sprintf("Links (%d)", len(views))))
	for _, l := range views {
		tail := "-->"
		if !l.Oriented {
			tail = "---"
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			labelOf(g, l.From, p),
			p.link.Render(fmt.Sprintf("---[ %s ]%s", l.Name, tail)),
			labelOf(g, l.To, p))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func labelOf(g *graph.Graph, id string, p palette) string {
	n := g.FindNode(id)
	if n == nil {
		return "#" + id
	}
	return p.node(n.Kind()).Render(n.Label())
}

// formatProperties prints every property but "name" as {k: v, ...}, keys sorted.
func formatProperties(props graph.Properties) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if k != "name" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, props[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
