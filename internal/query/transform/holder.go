// Package transform maps between flat UI form parameters and clause
// fragments, one transformer per field type. Each transformer can parse raw
// request parameters into a typed search input, regenerate those inputs from
// a stored query, emit the corresponding clause fragment, and decide whether
// a query's relevant clauses still fit the simple form editor.
package transform

// Holder is the per-request scratch space transformers read and write while
// processing one form round-trip. It is never persisted and never shared
// across requests. Access goes through typed keys so every read is checked
// against its write at compile time.
type Holder struct {
	values map[string]any
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{values: make(map[string]any)}
}

// Key is a typed handle into a holder. Two keys with the same name and type
// address the same slot.
type Key[T any] struct {
	name string
}

// NewKey returns a typed key with the given name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's slot name.
func (k Key[T]) Name() string { return k.name }

// Put stores v under k, replacing any previous value.
func Put[T any](h *Holder, k Key[T], v T) {
	h.values[k.name] = v
}

// Get reads the value stored under k. The second result is false when the
// slot is empty or holds a value of a different type.
func Get[T any](h *Holder, k Key[T]) (T, bool) {
	var zero T
	raw, ok := h.values[k.name]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Delete clears the slot addressed by k.
func Delete[T any](h *Holder, k Key[T]) {
	delete(h.values, k.name)
}
