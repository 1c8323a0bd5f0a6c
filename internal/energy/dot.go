package energy

import (
	"fmt"
	"io"
)

// WriteDot renders the game as a Graphviz digraph: Max vertices are boxes,
// Min vertices circles, edges labelled by weight. When pot is non-nil the
// current potential is shown in the vertex label.
func (g *Game) WriteDot(w io.Writer, pot []Handle) error {
	if _, err := fmt.Fprintln(w, "digraph G {"); err != nil {
		return err
	}
	for v := int32(0); v < g.nverts; v++ {
		shape := "circle"
		if g.IsMax(v) {
			shape = "box"
		}
		label := fmt.Sprintf("%d", v)
		if pot != nil && !pot[v].IsNil() {
			label = fmt.Sprintf("%d,pot=%s", v, pot[v])
		}
		if _, err := fmt.Fprintf(w, "  %d [ shape=\"%s\", label=\"%s\" ];\n", v, shape, label); err != nil {
			return err
		}
		for _, e := range g.outs[v] {
			if _, err := fmt.Fprintf(w, "  %d -> %d [label=\"%s\"];\n", v, e.To, e.W); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
