package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/mrlokans/wordlookup/internal/render"
)

// TerminalView draws lookup results as plain text. The history tree is only
// kept; it is printed when asked for.
type TerminalView struct {
	mu      sync.Mutex
	out     io.Writer
	status  io.Writer
	history *render.Node
}

func NewTerminalView(out, status io.Writer) *TerminalView {
	return &TerminalView{out: out, status: status}
}

func (v *TerminalView) SetLoading(loading bool) {
	if !loading {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.status, "Looking up...")
}

func (v *TerminalView) ShowResult(tree *render.Node) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := render.WriteText(v.out, tree); err != nil {
		fmt.Fprintf(v.status, "Error: failed to print result: %v\n", err)
	}
}

func (v *TerminalView) ShowHistory(tree *render.Node) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = tree
}

// History returns the last history tree handed to the view.
func (v *TerminalView) History() *render.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.history
}
