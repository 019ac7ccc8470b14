package input

const noTouch = -1

// TouchToMouse makes a touch-only surface behave like a mouse.
// A single touch drives the synthetic pointer: the first touch is adopted
// on start, additional simultaneous touches are ignored, and the gesture
// finalizes only when the last finger lifts.
//
// Malformed input (momentarily empty touch lists, unknown identifiers) is
// handled by no-op, never by failing.
type TouchToMouse struct {
	enabled bool
	// touches outside this target pass through natively; empty allows all
	allowed string
	sink    Sink

	activeId    int64
	lastClientX float64
	lastClientY float64
	lastScreenX float64
	lastScreenY float64
}

func NewTouchToMouse(sink Sink) *TouchToMouse {
	return &TouchToMouse{enabled: true, sink: sink, activeId: noTouch}
}

// SetEnabled turns the translator on or off. Disabling does not emit a
// trailing mouseup; the embedder detaches input alongside.
func (t *TouchToMouse) SetEnabled(v bool) { t.enabled = v }

// AllowTarget scopes the translator to one element.
func (t *TouchToMouse) AllowTarget(target string) { t.allowed = target }

func (t *TouchToMouse) scoped(ev TouchEvent) bool {
	return t.allowed == "" || t.allowed == ev.Target
}

// TouchStart adopts the first touch as the tracked one and emits a
// synthetic mousemove immediately followed by mousedown at its position.
// The returned bool reports whether the native behavior of the event
// should be suppressed (the preventDefault side effect).
func (t *TouchToMouse) TouchStart(ev TouchEvent) bool {
	if !t.enabled || !t.scoped(ev) {
		return false
	}
	if t.activeId != noTouch || len(ev.Touches) == 0 {
		return true
	}

	touch := ev.Touches[0]
	t.activeId = touch.Id
	t.remember(touch)

	t.sink.DispatchMouse(MouseEvent{
		Type:    MouseMove,
		ClientX: touch.ClientX, ClientY: touch.ClientY,
		ScreenX: touch.ScreenX, ScreenY: touch.ScreenY,
		Buttons: 0,
		Mods:    ev.Mods,
	})
	t.sink.DispatchMouse(MouseEvent{
		Type:    MouseDown,
		ClientX: touch.ClientX, ClientY: touch.ClientY,
		ScreenX: touch.ScreenX, ScreenY: touch.ScreenY,
		Button:  0,
		Buttons: 1,
		Mods:    ev.Mods,
	})
	return true
}

// TouchMove moves the synthetic pointer along the tracked touch,
// carrying both absolute and movement-delta coordinates.
func (t *TouchToMouse) TouchMove(ev TouchEvent) bool {
	if !t.enabled || !t.scoped(ev) {
		return false
	}
	if t.activeId == noTouch || len(ev.Touches) == 0 {
		return true
	}

	// falling back to the first touch is defensive, not expected
	touch := ev.Touches[0]
	for _, iter := range ev.Touches {
		if iter.Id == t.activeId {
			touch = iter
			break
		}
	}

	movementX := touch.ClientX - t.lastClientX
	movementY := touch.ClientY - t.lastClientY
	t.activeId = touch.Id
	t.remember(touch)

	t.sink.DispatchMouse(MouseEvent{
		Type:    MouseMove,
		ClientX: touch.ClientX, ClientY: touch.ClientY,
		ScreenX: touch.ScreenX, ScreenY: touch.ScreenY,
		MovementX: movementX,
		MovementY: movementY,
		Buttons:   1,
		Mods:      ev.Mods,
	})
	return true
}

// TouchEnd finalizes the gesture once zero touches remain, emitting a
// synthetic mouseup at the last known position (end events carry no
// touch coordinates).
func (t *TouchToMouse) TouchEnd(ev TouchEvent) bool {
	if !t.enabled {
		return false
	}
	if t.activeId == noTouch || len(ev.Touches) != 0 {
		return true
	}

	t.activeId = noTouch
	t.sink.DispatchMouse(MouseEvent{
		Type:    MouseUp,
		ClientX: t.lastClientX, ClientY: t.lastClientY,
		ScreenX: t.lastScreenX, ScreenY: t.lastScreenY,
		Button:  0,
		Buttons: 0,
		Mods:    ev.Mods,
	})
	return true
}

func (t *TouchToMouse) remember(touch Touch) {
	t.lastClientX, t.lastClientY = touch.ClientX, touch.ClientY
	t.lastScreenX, t.lastScreenY = touch.ScreenX, touch.ScreenY
}
