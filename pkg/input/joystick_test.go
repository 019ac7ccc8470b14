package input

import (
	"sync"
	"testing"
)

// keyState replays key events into a pressed set, the way a client OS
// would see them.
type keyState struct {
	mu   sync.Mutex
	down map[string]bool
}

func newKeyState() *keyState { return &keyState{down: map[string]bool{}} }

func (k *keyState) DispatchMouse(MouseEvent) {}

func (k *keyState) DispatchKey(ev KeyEvent) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if ev.Type == KeyDown {
		k.down[ev.Key] = true
	} else {
		delete(k.down, ev.Key)
	}
}

func (k *keyState) pressed() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []string
	for key := range k.down {
		out = append(out, key)
	}
	return out
}

var base = Rect{Left: 0, Top: 0, Width: 100, Height: 100}

func TestJoystickDirections(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"up", 50, 10, "ArrowUp"},
		{"down", 50, 90, "ArrowDown"},
		{"left", 10, 50, "ArrowLeft"},
		{"right", 90, 50, "ArrowRight"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ks := newKeyState()
			j := NewJoystick(ks, 20)
			j.PointerDown(PointerEvent{Id: 1, ClientX: 50, ClientY: 50}, base)
			j.PointerMove(PointerEvent{Id: 1, ClientX: tc.x, ClientY: tc.y})
			if got := ks.pressed(); len(got) != 1 || got[0] != tc.want {
				t.Errorf("pressed = %v, want [%s]", got, tc.want)
			}
		})
	}
}

func TestJoystickAtMostOneKeyHeld(t *testing.T) {
	ks := newKeyState()
	j := NewJoystick(ks, 20)
	j.PointerDown(PointerEvent{Id: 1, ClientX: 50, ClientY: 50}, base)

	// sweep around the stick through every quadrant
	points := []struct{ x, y float64 }{
		{90, 50}, {90, 90}, {50, 90}, {10, 90},
		{10, 50}, {10, 10}, {50, 10}, {90, 10},
	}
	for _, p := range points {
		j.PointerMove(PointerEvent{Id: 1, ClientX: p.x, ClientY: p.y})
		if got := ks.pressed(); len(got) > 1 {
			t.Fatalf("more than one key held at (%v,%v): %v", p.x, p.y, got)
		}
	}

	j.PointerUp(PointerEvent{Id: 1})
	if got := ks.pressed(); len(got) != 0 {
		t.Errorf("keys still held after release: %v", got)
	}
}

func TestJoystickDeadzone(t *testing.T) {
	ks := newKeyState()
	j := NewJoystick(ks, 20)
	j.PointerDown(PointerEvent{Id: 1, ClientX: 50, ClientY: 50}, base)

	// radius 50: 10px right is exactly 20 percent
	j.PointerMove(PointerEvent{Id: 1, ClientX: 60, ClientY: 50})
	if got := ks.pressed(); len(got) != 0 {
		t.Errorf("key pressed exactly at the deadzone: %v", got)
	}

	j.PointerMove(PointerEvent{Id: 1, ClientX: 61, ClientY: 50})
	if got := ks.pressed(); len(got) != 1 || got[0] != "ArrowRight" {
		t.Errorf("pressed = %v, want [ArrowRight]", got)
	}

	// back inside the deadzone releases
	j.PointerMove(PointerEvent{Id: 1, ClientX: 55, ClientY: 50})
	if got := ks.pressed(); len(got) != 0 {
		t.Errorf("key survived deadzone re-entry: %v", got)
	}
}

func TestJoystickIgnoresForeignPointer(t *testing.T) {
	ks := newKeyState()
	j := NewJoystick(ks, 20)
	j.PointerDown(PointerEvent{Id: 1, ClientX: 50, ClientY: 50}, base)
	j.PointerMove(PointerEvent{Id: 1, ClientX: 90, ClientY: 50})

	// a second pointer must neither move nor release the stick
	j.PointerMove(PointerEvent{Id: 2, ClientX: 50, ClientY: 10})
	j.PointerUp(PointerEvent{Id: 2})

	if got := ks.pressed(); len(got) != 1 || got[0] != "ArrowRight" {
		t.Errorf("pressed = %v, want [ArrowRight]", got)
	}
	if _, _, dir, _ := j.State(); dir != DirRight {
		t.Errorf("direction = %v, want %v", dir, DirRight)
	}
}

func TestJoystickClampsToRadius(t *testing.T) {
	var last MoveEvent
	j := NewJoystick(newKeyState(), 20)
	j.OnMove(func(ev MoveEvent) { last = ev })

	j.PointerDown(PointerEvent{Id: 1, ClientX: 50, ClientY: 50}, base)
	j.PointerMove(PointerEvent{Id: 1, ClientX: 500, ClientY: 50})

	if last.Distance != 100 {
		t.Errorf("distance = %v, want 100", last.Distance)
	}
	if last.X != 1 || last.Y != 0 {
		t.Errorf("normalized position = (%v,%v), want (1,0)", last.X, last.Y)
	}
}

func TestJoystickMoveEventVerticalSign(t *testing.T) {
	var last MoveEvent
	j := NewJoystick(newKeyState(), 20)
	j.OnMove(func(ev MoveEvent) { last = ev })

	j.PointerDown(PointerEvent{Id: 1, ClientX: 50, ClientY: 50}, base)
	j.PointerMove(PointerEvent{Id: 1, ClientX: 50, ClientY: 10})

	if last.Y <= 0 {
		t.Errorf("upward drag reported Y = %v, want positive", last.Y)
	}
	if last.Direction != DirForward {
		t.Errorf("direction = %v, want %v", last.Direction, DirForward)
	}
}
