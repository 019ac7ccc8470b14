package config

import (
	"os"
	"testing"
	"time"
)

func TestConfigEnv(t *testing.T) {
	var out ClientConfig

	_ = os.Setenv("STREAMLIFT_SESSION_GROUP", "grp-env")
	_ = os.Setenv("STREAMLIFT_MONITORING_PORT", "9999")
	defer func() { _ = os.Unsetenv("STREAMLIFT_SESSION_GROUP") }()
	defer func() { _ = os.Unsetenv("STREAMLIFT_MONITORING_PORT") }()

	if err := LoadConfigEnv(&out); err != nil {
		t.Fatal(err)
	}

	if out.Session.Group != "grp-env" {
		t.Errorf("group = %q, want grp-env", out.Session.Group)
	}
	if out.Monitoring.Port != 9999 {
		t.Errorf("port = %v, want 9999", out.Monitoring.Port)
	}
}

func TestConfigDefaults(t *testing.T) {
	var out ClientConfig
	if err := LoadConfigEnv(&out); err != nil {
		t.Fatal(err)
	}

	if out.Session.PollInterval != 2*time.Second {
		t.Errorf("poll interval = %v, want 2s", out.Session.PollInterval)
	}
	if out.Session.ConnectionTimeout != 600*time.Second {
		t.Errorf("connection timeout = %v, want 600s", out.Session.ConnectionTimeout)
	}
	if out.Session.Length != 4*time.Hour {
		t.Errorf("session length = %v, want 4h", out.Session.Length)
	}
	if out.Session.MaxAge != time.Hour {
		t.Errorf("session max age = %v, want 1h", out.Session.MaxAge)
	}
	if out.Input.Deadzone != 20 {
		t.Errorf("deadzone = %v, want 20", out.Input.Deadzone)
	}
}
