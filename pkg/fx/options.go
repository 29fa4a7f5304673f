package fx

import "time"

// DefaultSpeed is the tick interval used when no Speed option is given.
const DefaultSpeed = 25 * time.Millisecond

// Option configures a single fade.
type Option func(*options)

type options struct {
	speed time.Duration
	done  func()
}

func buildOptions(opts []Option) options {
	o := options{speed: DefaultSpeed}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.speed <= 0 {
		o.speed = DefaultSpeed
	}
	return o
}

// Speed sets the tick interval. Non-positive values keep DefaultSpeed.
func Speed(d time.Duration) Option {
	return func(o *options) {
		o.speed = d
	}
}

// OnComplete sets a callback that runs with no argument once the fade
// reaches its terminal opacity.
func OnComplete(fn func()) Option {
	return func(o *options) {
		o.done = fn
	}
}

// OnCompleteWith sets a callback that receives arg once the fade reaches its
// terminal opacity.
func OnCompleteWith[T any](fn func(T), arg T) Option {
	return func(o *options) {
		if fn == nil {
			o.done = nil
			return
		}
		o.done = func() { fn(arg) }
	}
}
