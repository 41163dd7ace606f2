// Package helper provides tiny unwrap helpers shared by tests and examples.
package helper

// Must unwraps a (value, error) pair, panicking on error.
// Use when failure should be fatal: fixed-literal construction in tests,
// examples, and package-level declarations.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// MustOK unwraps a (value, ok) pair, panicking when ok is false.
func MustOK[T any](v T, ok bool) T {
	if !ok {
		panic("helper: value not present")
	}
	return v
}
