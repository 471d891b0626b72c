package ggedit

// PointerKind is the type of a raw pointer or touch event.
type PointerKind int

const (
	// PointerDown is a pointerdown or touchstart event.
	PointerDown PointerKind = iota
	// PointerMove is a pointermove or touchmove event.
	PointerMove
	// PointerUp is a pointerup or touchend event.
	PointerUp
)

// String returns the event name.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a raw pointer or touch event in device pixels.
type PointerEvent struct {
	Kind PointerKind

	// ID identifies the contact. The mouse uses 0; each touch has its own id.
	ID int

	// X and Y are the page position in device pixels.
	X, Y float64

	// OnSurface is true when the event target is the interactive surface.
	// Only down events look at it.
	OnSurface bool
}

// Pointer is the latest normalized pointer position and whether a primary
// contact is active.
type Pointer struct {
	Down bool
	X, Y float64
}

// Point returns the pointer position.
func (p Pointer) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// PointerState is the state of a PointerTracker.
type PointerState int

const (
	// StateIdle means no contact is active.
	StateIdle PointerState = iota
	// StateDown means a contact is being tracked.
	StateDown
)

// Sample is a normalized pointer observation accepted by the tracker.
type Sample struct {
	Kind  PointerKind
	Point Point
}

// PointerTracker converts raw pointer events into normalized samples.
//
// Only the first contact is honored: while it is down, events from other
// contacts are ignored. Move events while idle are ignored as well, so a
// hovering pointer never changes the position.
//
// PointerTracker is not safe for concurrent use; events must be fed in
// arrival order.
type PointerTracker struct {
	pointer Pointer
	state   PointerState
	contact int
	start   Point
}

// State returns the current state.
func (t *PointerTracker) State() PointerState {
	return t.state
}

// Pointer returns the latest pointer.
func (t *PointerTracker) Pointer() Pointer {
	return t.pointer
}

// Start returns the normalized position of the last down event.
func (t *PointerTracker) Start() Point {
	return t.start
}

// Handle feeds one event to the tracker using box as the surface bounds.
// It returns the accepted sample, or false when the event was ignored.
func (t *PointerTracker) Handle(ev PointerEvent, box Rect) (Sample, bool) {
	switch ev.Kind {
	case PointerDown:
		if t.state == StateDown || !ev.OnSurface {
			return Sample{}, false
		}
		p := ToNormalized(ev.X, ev.Y, box)
		t.state = StateDown
		t.contact = ev.ID
		t.start = p
		t.pointer = Pointer{Down: true, X: p.X, Y: p.Y}
		return Sample{Kind: PointerDown, Point: p}, true

	case PointerMove:
		if t.state != StateDown || ev.ID != t.contact {
			return Sample{}, false
		}
		p := ToNormalized(ev.X, ev.Y, box)
		t.pointer.X, t.pointer.Y = p.X, p.Y
		return Sample{Kind: PointerMove, Point: p}, true

	case PointerUp:
		if t.state != StateDown || ev.ID != t.contact {
			return Sample{}, false
		}
		t.state = StateIdle
		t.pointer.Down = false
		return Sample{Kind: PointerUp, Point: t.pointer.Point()}, true
	}
	return Sample{}, false
}

// Reset returns the tracker to the idle state.
func (t *PointerTracker) Reset() {
	*t = PointerTracker{}
}
