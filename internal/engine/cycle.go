package engine

// ResolutionTrace tracks the names of nodes whose factories are currently
// running, innermost last. It only serves diagnostics: whether a node is in
// progress is decided by the node itself.
//
// Cycles through names (nominal references) never show up here because
// they do not resolve the target.
type ResolutionTrace struct {
	stack []string
}

// Enter pushes name.
func (t *ResolutionTrace) Enter(name string) {
	t.stack = append(t.stack, name)
}

// Leave pops the innermost name.
func (t *ResolutionTrace) Leave() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Depth returns the number of nodes in progress.
func (t *ResolutionTrace) Depth() int {
	return len(t.stack)
}

// Path returns a copy of the in-progress names, outermost first.
func (t *ResolutionTrace) Path() []string {
	out := make([]string, len(t.stack))
	copy(out, t.stack)
	return out
}

// CyclePath returns the loop closed by re-entering name: the in-progress
// names from the outermost occurrence of name, followed by name again.
func (t *ResolutionTrace) CyclePath(name string) []string {
	for i, n := range t.stack {
		if n == name {
			path := make([]string, 0, len(t.stack)-i+1)
			path = append(path, t.stack[i:]...)
			return append(path, name)
		}
	}
	return []string{name, name}
}
