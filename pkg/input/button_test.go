package input

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestButtonPressRelease(t *testing.T) {
	rec := &recorder{}
	b := NewButton(rec, &KeyBind{Key: "Enter", Code: 13})

	b.Press()
	b.Press() // repeated press is one event
	b.Release()
	b.Release()

	if len(rec.keys) != 2 {
		t.Fatalf("events = %d, want 2: %+v", len(rec.keys), rec.keys)
	}
	if rec.keys[0].Type != KeyDown || rec.keys[0].Code != 13 {
		t.Errorf("first event = %+v, want keydown 13", rec.keys[0])
	}
	if rec.keys[1].Type != KeyUp {
		t.Errorf("second event = %+v, want keyup", rec.keys[1])
	}
}

func TestButtonWithoutBind(t *testing.T) {
	rec := &recorder{}
	b := NewButton(rec, nil)
	pressed := false
	b.OnPress(func() { pressed = true })

	b.Press()
	b.Release()

	if !pressed {
		t.Errorf("press callback not fired")
	}
	if len(rec.keys) != 0 {
		t.Errorf("bindless button made key events: %+v", rec.keys)
	}
}

func TestDPadRepeat(t *testing.T) {
	var ticks atomic.Int32
	b := NewDPadButton(&recorder{}, nil, DirForward, time.Millisecond, 7, func(ev RepeatEvent) {
		if ev.Direction != DirForward {
			t.Errorf("direction = %v, want %v", ev.Direction, DirForward)
		}
		if ev.Speed != 7 {
			t.Errorf("speed = %v, want 7", ev.Speed)
		}
		ticks.Add(1)
	})

	b.Press()
	deadline := time.After(time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("repeat never ticked, got %d", ticks.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	b.Release()

	// no ticks after release
	time.Sleep(5 * time.Millisecond)
	n := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if got := ticks.Load(); got != n {
		t.Errorf("ticks after release: %d -> %d", n, got)
	}
}

func TestDPadClose(t *testing.T) {
	var ticks atomic.Int32
	b := NewDPadButton(&recorder{}, nil, DirLeft, time.Millisecond, 0, func(RepeatEvent) { ticks.Add(1) })

	b.Press()
	b.Close()

	time.Sleep(5 * time.Millisecond)
	n := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if got := ticks.Load(); got != n {
		t.Errorf("ticks after close: %d -> %d", n, got)
	}
}

func TestFaceButtonHasNoTicker(t *testing.T) {
	b := NewButton(&recorder{}, &KeyBind{Key: "x", Code: 88})
	b.Press()
	if b.stop != nil {
		t.Errorf("face button started a repeat ticker")
	}
	b.Release()
}
