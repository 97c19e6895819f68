package compiler

import (
	"fmt"
	"io"
	"strings"
)

// WriteDot renders the artifact's node graph in Graphviz DOT. Each node
// shows its image; edges point from a dependency to its dependent.
func WriteDot(w io.Writer, a *Artifact) error {
	if a == nil {
		return fmt.Errorf("cannot render a nil artifact")
	}
	_, err := fmt.Fprintf(w, `digraph %s {
	node [shape=record fontsize=10]
	edge [fontsize=10]

`, quote(a.Metadata.Name))
	if err != nil {
		return err
	}
	for _, n := range a.Nodes {
		label := fmt.Sprintf("{%s|%s}", escapeRecord(n.Name), escapeRecord(n.Image))
		if _, err := fmt.Fprintf(w, "\t%s [label=%s];\n", quote(n.Name), quote(label)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for _, e := range a.Edges {
		if _, err := fmt.Fprintf(w, "\t%s -> %s;\n", quote(e.From), quote(e.To)); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "}\n")
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// escapeRecord escapes the characters that structure a record label.
func escapeRecord(s string) string {
	return strings.NewReplacer(`{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`).Replace(s)
}
