package input

import "testing"

func TestMobileDetection(t *testing.T) {
	tests := []struct {
		name string
		env  Environment
		want bool
	}{
		{"desktop", Environment{ViewportW: 1920, UserAgent: "Mozilla/5.0 (X11; Linux x86_64)"}, false},
		{"coarse pointer", Environment{ViewportW: 1920, CoarsePointer: true}, true},
		{"small viewport", Environment{ViewportW: 768}, true},
		{"android ua", Environment{ViewportW: 1200, UserAgent: "Mozilla/5.0 (Linux; Android 14)"}, true},
		{"iphone ua", Environment{ViewportW: 1200, UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)"}, true},
		{"no signals", Environment{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.env.Mobile(); got != tc.want {
				t.Errorf("Mobile() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWidgetVisible(t *testing.T) {
	mobile := Environment{CoarsePointer: true}
	if !WidgetVisible(mobile, true) {
		t.Errorf("widget hidden on mobile")
	}
	if WidgetVisible(mobile, false) {
		t.Errorf("widget shown when toggled off")
	}
	if WidgetVisible(Environment{ViewportW: 1920}, true) {
		t.Errorf("widget shown on desktop")
	}
}
