package input

import (
	"sync"
	"time"
)

// RepeatEvent is the continuous-movement notification of a held d-pad
// button, one tick per display frame.
type RepeatEvent struct {
	Direction Direction
	Speed     int
}

const (
	repeatTick = 16 * time.Millisecond
	moveSpeed  = 16
)

// Button is a virtual face or d-pad button. A key binding and the
// press/release notifications are both optional; their absence is a
// no-op branch, not an error.
type Button struct {
	sink Sink
	bind *KeyBind
	// set for d-pad buttons only, enables the repeat ticker
	dpad Direction

	onPress   func()
	onRelease func()
	onRepeat  func(RepeatEvent)

	tick  time.Duration
	speed int

	mu      sync.Mutex
	pressed bool
	stop    chan struct{}
}

func NewButton(sink Sink, bind *KeyBind) *Button {
	return &Button{sink: sink, bind: bind, tick: repeatTick, speed: moveSpeed}
}

// NewDPadButton makes a button that emits continuous-movement repeats
// while held. Zero tick or speed fall back to the frame-rate defaults.
func NewDPadButton(sink Sink, bind *KeyBind, dir Direction, tick time.Duration, speed int, onRepeat func(RepeatEvent)) *Button {
	b := NewButton(sink, bind)
	b.dpad = dir
	b.onRepeat = onRepeat
	if tick > 0 {
		b.tick = tick
	}
	if speed > 0 {
		b.speed = speed
	}
	return b
}

func (b *Button) OnPress(fn func())   { b.onPress = fn }
func (b *Button) OnRelease(fn func()) { b.onRelease = fn }

func (b *Button) Press() {
	b.mu.Lock()
	if b.pressed {
		b.mu.Unlock()
		return
	}
	b.pressed = true
	if b.dpad != DirNone && b.stop == nil {
		b.stop = make(chan struct{})
		go b.repeat(b.stop)
	}
	b.mu.Unlock()

	if b.onPress != nil {
		b.onPress()
	}
	if b.bind != nil {
		b.sink.DispatchKey(KeyEvent{Type: KeyDown, Key: b.bind.Key, Code: b.bind.Code, Bubbles: true, Cancelable: true})
	}
}

func (b *Button) Release() {
	b.mu.Lock()
	if !b.pressed {
		b.mu.Unlock()
		return
	}
	b.pressed = false
	b.stopRepeatLocked()
	b.mu.Unlock()

	if b.onRelease != nil {
		b.onRelease()
	}
	if b.bind != nil {
		b.sink.DispatchKey(KeyEvent{Type: KeyUp, Key: b.bind.Key, Code: b.bind.Code, Bubbles: true, Cancelable: true})
	}
}

// Close tears the repeat ticker down on unmount so that no direction
// events fire after the widget is gone.
func (b *Button) Close() {
	b.mu.Lock()
	b.pressed = false
	b.stopRepeatLocked()
	b.mu.Unlock()
}

func (b *Button) stopRepeatLocked() {
	if b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
}

func (b *Button) repeat(stop chan struct{}) {
	ticker := time.NewTicker(b.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.mu.Lock()
			pressed := b.pressed
			b.mu.Unlock()
			if !pressed {
				return
			}
			if b.onRepeat != nil {
				b.onRepeat(RepeatEvent{Direction: b.dpad, Speed: b.speed})
			}
		}
	}
}
