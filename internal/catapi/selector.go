package catapi

// Selector picks one descriptor out of a search result.
// It reports false when nothing can be picked.
type Selector interface {
	Select(candidates []Descriptor) (Descriptor, bool)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(candidates []Descriptor) (Descriptor, bool)

// Select calls f.
func (f SelectorFunc) Select(candidates []Descriptor) (Descriptor, bool) {
	return f(candidates)
}

// LastSelector picks the last candidate in response order.
// The search carries no ranking; any element would do.
type LastSelector struct{}

// Select returns the last element of candidates.
func (LastSelector) Select(candidates []Descriptor) (Descriptor, bool) {
	if len(candidates) == 0 {
		return Descriptor{}, false
	}
	return candidates[len(candidates)-1], true
}
