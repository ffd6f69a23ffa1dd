package layer

// FindScope returns the layer that names the whole request: the first
// Controller-typed layer in pre-order, or, failing that, the first
// Job-typed one, or nil. The first encountered wins even when nested
// instrumentation produces several candidate layers.
func FindScope(root *Layer) *Layer {
	if controller := FindFirst(root, func(l *Layer) bool {
		return l.Type == TypeController
	}); controller != nil {
		return controller
	}

	return FindFirst(root, func(l *Layer) bool {
		return l.Type == TypeJob
	})
}
