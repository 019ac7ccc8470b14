package webrtc

import (
	"bytes"
	"testing"

	"github.com/daryl-piggybanx/streamlift/pkg/input"
)

func TestEncodeKey(t *testing.T) {
	got := encodeKey(input.KeyEvent{
		Type: input.KeyDown,
		Code: 38,
		Mods: input.Modifiers{Shift: true},
	})
	want := []byte{byte(Keyboard), 0, 0, 0, 38, 1, 0, modShift}
	if !bytes.Equal(got, want) {
		t.Errorf("keydown = %v, want %v", got, want)
	}

	got = encodeKey(input.KeyEvent{Type: input.KeyUp, Code: 38})
	if got[5] != 0 {
		t.Errorf("keyup marked pressed: %v", got)
	}
}

func TestEncodeMouseMove(t *testing.T) {
	got := encodeMouse(input.MouseEvent{
		Type:      input.MouseMove,
		MovementX: 4,
		MovementY: -3,
	})
	// deltas are big-endian int16
	want := []byte{byte(Mouse), MouseMove, 0, 4, 0xff, 0xfd}
	if !bytes.Equal(got, want) {
		t.Errorf("move = %v, want %v", got, want)
	}
}

func TestEncodeMouseButtons(t *testing.T) {
	down := encodeMouse(input.MouseEvent{Type: input.MouseDown, Buttons: 1})
	want := []byte{byte(Mouse), MouseButton, 1}
	if !bytes.Equal(down, want) {
		t.Errorf("mousedown = %v, want %v", down, want)
	}

	up := encodeMouse(input.MouseEvent{Type: input.MouseUp, Buttons: 0})
	if up[2] != 0 {
		t.Errorf("mouseup kept buttons: %v", up)
	}
}

func TestSignalCodec(t *testing.T) {
	type sdp struct {
		Type string `json:"type"`
		SDP  string `json:"sdp"`
	}
	in := sdp{Type: "offer", SDP: "v=0"}
	enc, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	var out sdp
	if err := Decode(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
	if err := Decode("%%%not-base64", &out); err == nil {
		t.Errorf("bad input decoded")
	}
}
