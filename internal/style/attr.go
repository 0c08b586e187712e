package style

// Pinnable is a sparse persisted attribute. The zero value is unset, which
// means the attribute follows the ambient default; Pin records a value the
// user chose explicitly.
type Pinnable[T comparable] struct {
	value  T
	pinned bool
}

// Pin returns an attribute pinned to v.
func Pin[T comparable](v T) Pinnable[T] {
	return Pinnable[T]{value: v, pinned: true}
}

// Unset returns an attribute that follows the ambient default.
func Unset[T comparable]() Pinnable[T] {
	return Pinnable[T]{}
}

// Get returns the pinned value and whether there is one.
func (p Pinnable[T]) Get() (T, bool) {
	return p.value, p.pinned
}

// IsPinned reports whether a value was recorded.
func (p Pinnable[T]) IsPinned() bool {
	return p.pinned
}

// Or returns the pinned value, or def when unset.
func (p Pinnable[T]) Or(def T) T {
	if p.pinned {
		return p.value
	}
	return def
}

// Tracked is a resolved attribute: the value to display and whether that
// value is recomputed from the ambient default on every resolve.
type Tracked[T comparable] struct {
	Value         T
	TracksDefault bool
}

// Track returns an attribute following the ambient default def.
func Track[T comparable](def T) Tracked[T] {
	return Tracked[T]{Value: def, TracksDefault: true}
}

// Fixed returns an attribute pinned to v.
func Fixed[T comparable](v T) Tracked[T] {
	return Tracked[T]{Value: v}
}

// Resolve turns a persisted attribute into a resolved one, falling back to
// def when nothing was pinned.
func Resolve[T comparable](p Pinnable[T], def T) Tracked[T] {
	if v, ok := p.Get(); ok {
		return Fixed(v)
	}
	return Track(def)
}

// Pinnable is the inverse of Resolve: attributes tracking the default
// project to unset.
func (t Tracked[T]) Pinnable() Pinnable[T] {
	if t.TracksDefault {
		return Unset[T]()
	}
	return Pin(t.Value)
}

// Retrack recomputes a tracking attribute against a new default. Pinned
// attributes are returned unchanged.
func (t Tracked[T]) Retrack(def T) Tracked[T] {
	if t.TracksDefault {
		return Track(def)
	}
	return t
}
