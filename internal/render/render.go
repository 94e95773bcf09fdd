package render

import (
	"fmt"
	"io"
	"strings"

	"kgraph/internal/graph"
)

// Formats lists the names accepted by Write.
var Formats = []string{"text", "mermaid", "json"}

// Write renders g in the named format; "json" writes the graph document.
func Write(w io.Writer, g *graph.Graph, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return Text(w, g)
	case "mermaid":
		return Mermaid(w, g)
	case "json":
		return g.ToDocument().Write(w)
	}
	return fmt.Errorf("unknown render format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
