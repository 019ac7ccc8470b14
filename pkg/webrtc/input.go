package webrtc

import (
	"encoding/binary"

	"github.com/daryl-piggybanx/streamlift/pkg/input"
)

// Device tags the input message payloads on the wire.
type Device byte

const (
	Keyboard Device = iota + 1
	Mouse
)

const (
	MouseMove = iota
	MouseButton
)

const (
	modAlt = 1 << iota
	modCtrl
	modShift
	modMeta
)

// encodeKey packs a key transition.
//
//	[DEV:1][KEY:4][P:1][MOD:2]
//
//	KEY - key code, P - pressed (0/1), MOD - modifier bitmask
func encodeKey(ev input.KeyEvent) []byte {
	data := make([]byte, 8)
	data[0] = byte(Keyboard)
	binary.BigEndian.PutUint32(data[1:], uint32(ev.Code))
	if ev.Type == input.KeyDown {
		data[5] = 1
	}
	binary.BigEndian.PutUint16(data[6:], modMask(ev.Mods))
	return data
}

// encodeMouse packs mouse movement as deltas and button transitions as
// a bitmask.
//
//	move:    [DEV:1][T:1][dx:2][dy:2]
//	buttons: [DEV:1][T:1][BTN:1]
func encodeMouse(ev input.MouseEvent) []byte {
	var data []byte
	switch ev.Type {
	case input.MouseMove:
		data = make([]byte, 6)
		data[1] = MouseMove
		binary.BigEndian.PutUint16(data[2:], uint16(int16(ev.MovementX)))
		binary.BigEndian.PutUint16(data[4:], uint16(int16(ev.MovementY)))
	case input.MouseDown, input.MouseUp:
		data = []byte{0, MouseButton, byte(ev.Buttons)}
	default:
		return nil
	}
	data[0] = byte(Mouse)
	return data
}

func (p *Peer) DispatchKey(ev input.KeyEvent) {
	metricInputEvents.WithLabelValues("keyboard").Inc()
	if err := p.send(encodeKey(ev)); err != nil {
		p.log.Error().Err(err).Msg("key send")
	}
}

func (p *Peer) DispatchMouse(ev input.MouseEvent) {
	data := encodeMouse(ev)
	if data == nil {
		return
	}
	metricInputEvents.WithLabelValues("mouse").Inc()
	if err := p.send(data); err != nil {
		p.log.Error().Err(err).Msg("mouse send")
	}
}

func modMask(m input.Modifiers) uint16 {
	var mask uint16
	if m.Alt {
		mask |= modAlt
	}
	if m.Ctrl {
		mask |= modCtrl
	}
	if m.Shift {
		mask |= modShift
	}
	if m.Meta {
		mask |= modMeta
	}
	return mask
}
