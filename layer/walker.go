package layer

// A HookFunc observes the traversal of a layer tree.
type HookFunc func(l *Layer)

// A VisitFunc is the primary callback of a walk. Returning true terminates
// the walk early.
type VisitFunc func(l *Layer) bool

// A Walker performs depth-first, pre-order traversals over a layer tree.
// The Before hook fires on entering a layer, before its children. The After
// hook fires on leaving a layer, after all its children. A walker keeps no
// state across walks beyond the hook registrations; every Walk restarts
// from the root.
type Walker struct {
	Before HookFunc
	After  HookFunc

	root *Layer
}

// NewWalker creates a walker over the tree rooted at root.
func NewWalker(root *Layer) *Walker {
	rootMustNotBeNil(root)

	return &Walker{root: root}
}

func rootMustNotBeNil(root *Layer) {
	if root == nil {
		panic("walker root must not be nil")
	}
}

// Walk visits every layer in pre-order. It returns the layer on which visit
// returned true, or nil if the walk ran to completion. A nil visit walks
// the whole tree, firing only the hooks. Early termination abandons the
// traversal immediately, including pending After hooks.
func (w *Walker) Walk(visit VisitFunc) *Layer {
	return w.walk(w.root, visit)
}

func (w *Walker) walk(l *Layer, visit VisitFunc) *Layer {
	if w.Before != nil {
		w.Before(l)
	}

	if visit != nil && visit(l) {
		return l
	}

	for _, c := range l.Children() {
		if found := w.walk(c, visit); found != nil {
			return found
		}
	}

	if w.After != nil {
		w.After(l)
	}

	return nil
}

// FindFirst returns the first layer in pre-order satisfying pred, or nil.
func FindFirst(root *Layer, pred func(l *Layer) bool) *Layer {
	return NewWalker(root).Walk(VisitFunc(pred))
}
