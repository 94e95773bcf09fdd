package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"kgraph/internal/graph"
)

var mermaidIDPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Mermaid writes a left-to-right flowchart. Concepts are boxes, instances
// rounded; links touching an instance are dashed.
func Mermaid(w io.Writer, g *graph.Graph) error {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	kinds := make(map[string]graph.NodeKind)
	for _, n := range g.NodeViews() {
		kinds[n.ID] = n.Kind
		id, label := mermaidID(n.ID), mermaidLabel(n.Label)
		if n.Kind == graph.Concept {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]:::concept\n", id, label))
		} else {
			sb.WriteString(fmt.Sprintf("    %s(\"%s\"):::instance\n", id, label))
		}
	}

	for _, l := range g.LinkViews() {
		dashed := kinds[l.From] == graph.Instance || kinds[l.To] == graph.Instance
		sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n",
			mermaidID(l.From), arrow(dashed, l.Oriented), mermaidLabel(l.Name), mermaidID(l.To)))
	}

	sb.WriteString("    classDef concept fill:#e3f2fd,stroke:#1565c0\n")
	sb.WriteString("    classDef instance fill:#fff3e0,stroke:#ef6c00\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func arrow(dashed, oriented bool) string {
	switch {
	case dashed && oriented:
		return "-.->"
	case dashed:
		return "-.-"
	case oriented:
		return "-->"
	}
	return "---"
}

func mermaidID(id string) string {
	return "n" + mermaidIDPattern.ReplaceAllString(id, "_")
}

func mermaidLabel(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "|", "#124;", "\n", " ")
	return r.Replace(s)
}
