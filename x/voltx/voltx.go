// Package voltx has small helpers for working with voltage bands, typically
// in integer millivolts. Kept generic so fixed-point µV and mV code can
// share them.
package voltx

import "golang.org/x/exp/constraints"

// Window is an inclusive band [Lo, Hi]. If Lo > Hi the bounds are swapped
// by the accessors.
type Window[T constraints.Ordered] struct {
	Lo, Hi T
}

func (w Window[T]) bounds() (lo, hi T) {
	if w.Hi < w.Lo {
		return w.Hi, w.Lo
	}
	return w.Lo, w.Hi
}

// In reports whether v lies inside the window.
func (w Window[T]) In(v T) bool {
	lo, hi := w.bounds()
	return v >= lo && v <= hi
}

// Clamp limits v to the window.
func (w Window[T]) Clamp(v T) T {
	lo, hi := w.bounds()
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mid returns the centre of the window, rounding toward Lo for integers.
func Mid[T constraints.Integer](w Window[T]) T {
	lo, hi := w.bounds()
	return lo + (hi-lo)/2
}
