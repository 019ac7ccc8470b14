package api

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestPacketUnwrap(t *testing.T) {
	raw := []byte(`{"id":"abc","t":102,"p":{"handle":"s-1","status":"ACTIVE"}}`)
	var in In
	if err := json.Unmarshal(raw, &in); err != nil {
		t.Fatal(err)
	}
	if in.T != GetSession {
		t.Errorf("type = %v, want %v", in.T, GetSession)
	}
	res := Unwrap[GetSessionResponse](in.Payload)
	if res == nil {
		t.Fatal("payload didn't unwrap")
	}
	if res.Handle != "s-1" || res.Status != StatusActive {
		t.Errorf("payload = %+v", res)
	}
}

func TestUnwrapBadPayload(t *testing.T) {
	if out := Unwrap[GetSessionResponse]([]byte("{broken")); out != nil {
		t.Errorf("broken payload unwrapped to %+v", out)
	}
	if _, err := UnwrapChecked[GetSessionResponse](nil, errors.New("x")); err == nil {
		t.Errorf("error was swallowed")
	}
}

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status Status
		stops  bool
	}{
		{StatusActivating, false},
		{StatusActive, true},
		{StatusConnected, true},
		{StatusError, true},
		{StatusTerminated, true},
		{StatusTerminating, false},
		{StatusPendingRec, false},
		{StatusReconnect, false},
		{"", false},
	}
	for _, tc := range tests {
		if got := tc.status.StopsPolling(); got != tc.stops {
			t.Errorf("%q StopsPolling = %v, want %v", tc.status, got, tc.stops)
		}
	}
}

func TestErrorResponseMapping(t *testing.T) {
	var nilErr *ErrorResponse
	if err := nilErr.AsSessionError(); err != nil {
		t.Errorf("nil payload made an error: %v", err)
	}
	if err := (&ErrorResponse{}).AsSessionError(); err != nil {
		t.Errorf("empty payload made an error: %v", err)
	}

	err := (&ErrorResponse{Kind: ErrLimitExceeded}).AsSessionError()
	var se *SessionError
	if !errors.As(err, &se) {
		t.Fatalf("err = %T", err)
	}
	if se.Kind != ErrLimitExceeded {
		t.Errorf("kind = %v", se.Kind)
	}
	if se.Message != UserMessage(ErrLimitExceeded) {
		t.Errorf("message = %q", se.Message)
	}

	custom := (&ErrorResponse{Kind: ErrNotFound, Message: "gone"}).AsSessionError()
	if custom.Error() != "gone" {
		t.Errorf("custom message lost: %q", custom.Error())
	}
}
