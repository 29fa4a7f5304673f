package dom

// Phase is the propagation phase an event is in.
type Phase uint8

const (
	PhaseNone      Phase = iota
	PhaseCapturing       // travelling from the root to the target
	PhaseAtTarget        // on the target itself
	PhaseBubbling        // travelling back up to the root
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCapturing:
		return "capturing"
	case PhaseAtTarget:
		return "at-target"
	case PhaseBubbling:
		return "bubbling"
	default:
		return "none"
	}
}

// Event is dispatched to listeners registered with AddEventListener.
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element
	Phase         Phase
	Detail        any

	stopped   bool
	prevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation prevents the event from reaching further elements.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Listener is an event callback. Listeners are compared by pointer, so keep
// the *Listener to remove it later.
type Listener struct {
	fn func(*Event)
}

// NewListener wraps fn.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn}
}

type registration struct {
	listener *Listener
	capture  bool
}

// AddEventListener registers l for events of type typ. Registering the same
// listener twice with the same capture flag has no effect.
func (e *Element) AddEventListener(typ string, l *Listener, capture bool) {
	if l == nil || l.fn == nil {
		return
	}
	for _, r := range e.listeners[typ] {
		if r.listener == l && r.capture == capture {
			return
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]registration)
	}
	e.listeners[typ] = append(e.listeners[typ], registration{listener: l, capture: capture})
}

// RemoveEventListener unregisters l for typ in both phases.
func (e *Element) RemoveEventListener(typ string, l *Listener) {
	regs := e.listeners[typ]
	kept := make([]registration, 0, len(regs))
	for _, r := range regs {
		if r.listener != l {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, typ)
		return
	}
	e.listeners[typ] = kept
}

// ListenerCount returns the number of listeners registered for typ.
func (e *Element) ListenerCount(typ string) int {
	return len(e.listeners[typ])
}

// DispatchEvent runs the capture, target and bubble phases for ev with e as
// the target. It returns false when a listener called PreventDefault.
func (e *Element) DispatchEvent(ev *Event) bool {
	ev.Target = e

	var path []*Element
	for n := e.node.Parent; n != nil; n = n.Parent {
		path = append(path, e.doc.element(n))
	}

	for i := len(path) - 1; i >= 0 && !ev.stopped; i-- {
		path[i].invoke(ev, PhaseCapturing)
	}
	if !ev.stopped {
		e.invoke(ev, PhaseAtTarget)
	}
	for i := 0; i < len(path) && !ev.stopped; i++ {
		path[i].invoke(ev, PhaseBubbling)
	}

	ev.Phase = PhaseNone
	ev.CurrentTarget = nil
	return !ev.prevented
}

// Click dispatches a click event on the element.
func (e *Element) Click() bool {
	return e.DispatchEvent(NewEvent("click"))
}

func (e *Element) invoke(ev *Event, phase Phase) {
	regs := e.listeners[ev.Type]
	if len(regs) == 0 {
		return
	}
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)

	ev.Phase = phase
	ev.CurrentTarget = e
	for _, r := range snapshot {
		switch {
		case phase == PhaseCapturing && !r.capture:
			continue
		case phase == PhaseBubbling && r.capture:
			continue
		}
		r.listener.fn(ev)
	}
}
