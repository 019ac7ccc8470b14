package input

import "math"

type Direction string

const (
	DirNone     Direction = ""
	DirForward  Direction = "FORWARD"
	DirBackward Direction = "BACKWARD"
	DirLeft     Direction = "LEFT"
	DirRight    Direction = "RIGHT"
)

// KeyBind couples a key value with its legacy numeric code.
type KeyBind struct {
	Key  string
	Code int
}

// ArrowKeys is the default joystick direction mapping.
var ArrowKeys = map[Direction]KeyBind{
	DirForward:  {Key: "ArrowUp", Code: 38},
	DirBackward: {Key: "ArrowDown", Code: 40},
	DirLeft:     {Key: "ArrowLeft", Code: 37},
	DirRight:    {Key: "ArrowRight", Code: 39},
}

// MoveEvent reports a joystick position to the embedding UI.
// X and Y are normalized to -1..1 with "up" positive.
type MoveEvent struct {
	X, Y      float64
	Direction Direction
	Distance  float64 // percent of the base radius, 0..100
}

// angle thresholds at ±45° and ±135° from vertical
const (
	topRight    = 2.35619449
	bottomRight = 0.785398163
)

func direction(atan2 float64) Direction {
	switch {
	case atan2 > topRight || atan2 < -topRight:
		return DirForward
	case atan2 < topRight && atan2 > bottomRight:
		return DirRight
	case atan2 < -bottomRight:
		return DirLeft
	}
	return DirBackward
}

// Joystick is a virtual stick dragged by a single captured pointer.
// Direction keys are synthesized so that at most one directional key is
// ever held down; a direction change always releases everything first.
type Joystick struct {
	sink Sink
	keys map[Direction]KeyBind
	// directional keys are ignored at or below this percent of the radius
	deadzone float64

	onMove  func(MoveEvent)
	onStart func()
	onStop  func()

	dragging  bool
	pointerId int64
	base      Rect

	relX, relY float64
	dir        Direction
	distance   float64
	held       Direction
}

func NewJoystick(sink Sink, deadzone int) *Joystick {
	return &Joystick{
		sink:      sink,
		keys:      ArrowKeys,
		deadzone:  float64(deadzone),
		pointerId: noTouch,
	}
}

func (j *Joystick) OnMove(fn func(MoveEvent)) { j.onMove = fn }
func (j *Joystick) OnStart(fn func())         { j.onStart = fn }
func (j *Joystick) OnStop(fn func())          { j.onStop = fn }

// PointerDown captures the pointer and records the base geometry once;
// moves are not re-measured. A second simultaneous pointer is ignored
// until the first one is released.
func (j *Joystick) PointerDown(ev PointerEvent, base Rect) {
	if j.dragging {
		return
	}
	j.base = base
	j.dragging = true
	j.pointerId = ev.Id
	if j.onStart != nil {
		j.onStart()
	}
}

// PointerMove updates the stick along the captured pointer.
func (j *Joystick) PointerMove(ev PointerEvent) {
	if !j.dragging || ev.Id != j.pointerId {
		return
	}

	relX := ev.ClientX - j.base.Left - j.base.Width/2
	relY := ev.ClientY - j.base.Top - j.base.Height/2

	dist := math.Hypot(relX, relY)
	radius := j.base.Width / 2

	// the stick never visually exceeds the base edge
	if dist > radius {
		scale := radius / dist
		relX *= scale
		relY *= scale
	}

	dir := direction(math.Atan2(relX, relY))
	if j.dir != dir {
		j.releaseAll()
	}

	j.relX, j.relY = relX, relY
	j.dir = dir
	j.distance = percentile(dist, radius)

	j.applyKeys()
	j.notifyMove()
}

// PointerUp resets the stick to center on the matching pointer release.
func (j *Joystick) PointerUp(ev PointerEvent) {
	if ev.Id != j.pointerId {
		return
	}
	j.dragging = false
	j.pointerId = noTouch
	j.relX, j.relY = 0, 0
	j.dir = DirNone
	j.distance = 0

	j.releaseAll()
	if j.onStop != nil {
		j.onStop()
	}
	j.notifyMove()
}

// State returns the current displacement, direction and distance percent.
func (j *Joystick) State() (x, y float64, dir Direction, distance float64) {
	return j.relX, j.relY, j.dir, j.distance
}

// applyKeys holds the key of the current direction when the stick sits
// outside the deadzone. Exactly at the deadzone nothing is pressed.
func (j *Joystick) applyKeys() {
	if j.distance <= j.deadzone {
		if j.held != DirNone {
			j.releaseAll()
		}
		return
	}
	if j.held == j.dir {
		return
	}
	j.releaseAll()
	if bind, ok := j.keys[j.dir]; ok {
		j.sink.DispatchKey(KeyEvent{Type: KeyDown, Key: bind.Key, Code: bind.Code, Bubbles: true, Cancelable: true})
		j.held = j.dir
	}
}

// releaseAll keys-up all four directions, which prevents stuck keys
// across direction changes.
func (j *Joystick) releaseAll() {
	for _, bind := range j.keys {
		j.sink.DispatchKey(KeyEvent{Type: KeyUp, Key: bind.Key, Code: bind.Code, Bubbles: true, Cancelable: true})
	}
	j.held = DirNone
}

func (j *Joystick) notifyMove() {
	if j.onMove == nil {
		return
	}
	var x, y float64
	if j.base.Width > 0 {
		x = j.relX * 2 / j.base.Width
	}
	if j.base.Height > 0 {
		y = -(j.relY * 2 / j.base.Height) // vertical sign inverted, "up" is positive
	}
	j.onMove(MoveEvent{X: x, Y: y, Direction: j.dir, Distance: j.distance})
}

func percentile(dist, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Min(dist/radius*100, 100)
}
