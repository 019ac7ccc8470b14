// Package input converts touch and pointer gestures into synthetic mouse
// and keyboard events for a consumer that only understands those, such as
// the streaming SDK input capture.
package input

// Modifiers carries the modifier-key state copied from an originating
// event into every synthetic one.
type Modifiers struct {
	Alt   bool `json:"alt,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Shift bool `json:"shift,omitempty"`
	Meta  bool `json:"meta,omitempty"`
	// extended modifier state (CapsLock, NumLock, ...) where the
	// platform exposes it; best-effort, may be nil
	Extended map[string]bool `json:"extended,omitempty"`
}

type MouseEventType string

const (
	MouseMove MouseEventType = "mousemove"
	MouseDown MouseEventType = "mousedown"
	MouseUp   MouseEventType = "mouseup"
)

// MouseEvent is a synthetic mouse event. Synthetic events do not bubble:
// they are delivered only to the sink of the surface that made them.
type MouseEvent struct {
	Type             MouseEventType
	ClientX, ClientY float64
	ScreenX, ScreenY float64
	MovementX        float64
	MovementY        float64
	Button           int
	Buttons          int
	Mods             Modifiers
}

type KeyEventType string

const (
	KeyDown KeyEventType = "keydown"
	KeyUp   KeyEventType = "keyup"
)

// KeyEvent is a synthetic keyboard event.
type KeyEvent struct {
	Type       KeyEventType
	Key        string
	Code       int // legacy numeric code
	Bubbles    bool
	Cancelable bool
	Mods       Modifiers
}

// Touch is a single platform touch point.
type Touch struct {
	Id               int64
	ClientX, ClientY float64
	ScreenX, ScreenY float64
}

// TouchEvent is a raw platform touch event. Target names the element the
// gesture landed on, used for allowed-element scoping.
type TouchEvent struct {
	Touches []Touch // touches currently on the surface
	Target  string
	Mods    Modifiers
}

// PointerEvent is a raw platform pointer event driving widget gestures.
type PointerEvent struct {
	Id               int64
	ClientX, ClientY float64
}

// Rect is the bounding geometry of a gesture surface.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Sink consumes synthetic events.
type Sink interface {
	DispatchMouse(MouseEvent)
	DispatchKey(KeyEvent)
}
