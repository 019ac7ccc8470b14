package input

import "strings"

const smallViewport = 768

var mobileAgents = []string{"Mobi", "Android", "iPhone"}

// Environment describes the execution context of the gesture surface.
type Environment struct {
	ViewportW, ViewportH int
	CoarsePointer        bool
	UserAgent            string
}

// Mobile reports whether virtual widgets should render at all.
func (e Environment) Mobile() bool {
	if e.CoarsePointer || (e.ViewportW > 0 && e.ViewportW <= smallViewport) {
		return true
	}
	ua := strings.ToLower(e.UserAgent)
	for _, m := range mobileAgents {
		if strings.Contains(ua, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// WidgetVisible combines mobile detection with the forced-off override.
func WidgetVisible(env Environment, visible bool) bool {
	return visible && env.Mobile()
}
