package stream

import (
	"sync"

	"github.com/daryl-piggybanx/streamlift/pkg/input"
)

// Controls is the embedder-facing control surface of a running stream:
// end the session, flip the touch input method, show or hide the
// virtual control widgets. It renders nothing, the embedder owns the UI.
type Controls struct {
	controller *Controller
	surface    *input.Widgets
	env        input.Environment
	// show widgets regardless of mobile detection
	force bool

	mu       sync.Mutex
	widgets  bool
	onChange func()
}

func NewControls(c *Controller, surface *input.Widgets, env input.Environment, force bool) *Controls {
	return &Controls{controller: c, surface: surface, env: env, force: force, widgets: true}
}

// OnChange registers a notification fired after every control flip.
func (s *Controls) OnChange(fn func()) { s.onChange = fn }

// Disconnect ends the session; the local state is cleared even when the
// remote call fails.
func (s *Controls) Disconnect() error {
	defer s.notify()
	return s.controller.Terminate()
}

// ToggleTouch flips the touch-to-mouse translation and reports the new
// state.
func (s *Controls) ToggleTouch(enabled bool) {
	s.surface.Touch.SetEnabled(enabled)
	s.notify()
}

// ToggleWidgets flips the virtual widget visibility request; whether
// the widgets actually show still depends on the mobile context.
func (s *Controls) ToggleWidgets() bool {
	s.mu.Lock()
	s.widgets = !s.widgets
	v := s.widgets
	s.mu.Unlock()
	s.notify()
	return v
}

// WidgetsVisible resolves the visibility request against the detected
// environment. The forced mode skips mobile detection but still honors
// the toggle.
func (s *Controls) WidgetsVisible() bool {
	s.mu.Lock()
	v := s.widgets
	s.mu.Unlock()
	if s.force {
		return v
	}
	return input.WidgetVisible(s.env, v)
}

func (s *Controls) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
