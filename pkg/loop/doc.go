// Package loop provides the host event loop that drives timers and callbacks.
//
// Everything that touches a dom.Document runs on a single goroutine. A Loop
// owns that goroutine: callers hand it work with Dispatch, and repeating
// timers created with SetInterval deliver their ticks through the same queue,
// so ticks never run concurrently with each other or with dispatched tasks.
//
// # Scheduler
//
// Scheduler is the abstraction the animator and the AJAX client depend on:
//
//	h := s.SetInterval(25*time.Millisecond, tick)
//	...
//	s.ClearInterval(h)
//
// Once ClearInterval returns, the callback of that interval never runs again,
// even if a tick was already queued on the loop.
//
// # Testing
//
// Manual implements Scheduler over a virtual clock. Nothing happens until
// the test calls Advance, which fires due intervals in order on the calling
// goroutine:
//
//	m := loop.NewManual()
//	fx.New(m).FadeIn(el)
//	m.Advance(250 * time.Millisecond)
package loop
