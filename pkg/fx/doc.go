// Package fx provides timer-driven opacity fades.
//
// A fade walks an element's inline opacity through tenths, one step per
// scheduler tick:
//
//	FadeIn:  display=block, opacity 0, then 0.0 0.1 ... 0.9 1
//	FadeOut: 0.9 0.8 ... 0.0, then display=none
//
// The two directions are deliberately not symmetric: FadeIn finishes by
// forcing exactly 1 while FadeOut starts at 0.9 without reading the current
// opacity.
//
// When the terminal step is reached the interval is cleared first and the
// completion callback runs afterwards, at most once:
//
//	a := fx.New(l)
//	a.FadeOut(el, fx.Speed(40*time.Millisecond), fx.OnCompleteWith(remove, el))
//
// There is no way to cancel a running fade, and starting a second fade on an
// element that is still fading is not prevented. Callers that need either
// must coordinate themselves.
package fx
