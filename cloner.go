package genarena

// Cloner is an interface that enables deep cloning of values of type T.
// If a value implements Cloner[T], GetClone, Freeze and copy-on-write
// divergence use its Clone method to perform deep copies.
type Cloner[T any] interface {
	Clone() T
}

func cloneValue[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}
