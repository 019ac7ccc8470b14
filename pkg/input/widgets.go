package input

import (
	"github.com/daryl-piggybanx/streamlift/pkg/config"
)

// Widgets is the full virtual control surface bound to one event sink:
// the touch-to-mouse translation, a joystick, and one d-pad button per
// direction.
type Widgets struct {
	Touch *TouchToMouse
	Stick *Joystick
	DPad  map[Direction]*Button
}

// NewWidgets assembles the surface from the input configuration. The
// optional onRepeat callback receives the continuous-movement ticks of
// every held d-pad button.
func NewWidgets(sink Sink, conf config.Input, onRepeat func(RepeatEvent)) *Widgets {
	w := &Widgets{
		Touch: NewTouchToMouse(sink),
		Stick: NewJoystick(sink, conf.Deadzone),
		DPad:  make(map[Direction]*Button, len(ArrowKeys)),
	}
	for dir, bind := range ArrowKeys {
		bind := bind
		w.DPad[dir] = NewDPadButton(sink, &bind, dir, conf.RepeatTick, conf.MoveSpeed, onRepeat)
	}
	return w
}

// Close stops the repeat tickers of all held buttons.
func (w *Widgets) Close() {
	for _, b := range w.DPad {
		b.Close()
	}
}
