package util

// Ptr returns a pointer to a copy of v. Handy for optional model fields.
func Ptr[V any](v V) *V {
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[V any](p *V, def V) V {
	if p == nil {
		return def
	}
	return *p
}
