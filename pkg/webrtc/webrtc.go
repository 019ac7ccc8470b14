// Package webrtc binds the session lifecycle to a pion peer connection
// and carries the input channel of the stream.
package webrtc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v3"

	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	"github.com/daryl-piggybanx/streamlift/pkg/stream"
)

var errNoChannel = errors.New("no open input channel")

// Peer owns one streaming peer connection and its input data channel.
// It implements the streaming SDK contract consumed by the session
// controller.
type Peer struct {
	factory *ApiFactory
	log     *logger.Logger

	OnStateChange      func(state string)
	OnChannelError     func(err error)
	OnServerDisconnect func(reason string)

	mu       sync.Mutex
	conn     *webrtc.PeerConnection
	inputCh  *webrtc.DataChannel
	attached atomic.Bool
	chOpen   atomic.Bool
}

func NewPeer(factory *ApiFactory, log *logger.Logger) *Peer {
	return &Peer{factory: factory, log: log}
}

// Encode wraps a signalling message as base64 JSON.
func Encode(obj any) (string, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Decode unwraps a base64 JSON signalling message.
func Decode(in string, obj any) error {
	b, err := base64.StdEncoding.DecodeString(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, obj)
}

// GenerateSignalRequest builds a fresh peer connection with the input
// data channel, creates an offer and returns it encoded, with ICE
// gathering already complete so the answerer gets all candidates in one
// message.
func (p *Peer) GenerateSignalRequest(ctx context.Context) (string, error) {
	p.Close()

	conn, err := p.factory.NewPeer()
	if err != nil {
		return "", err
	}

	conn.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		p.log.Debug().Str("state", state.String()).Msg("ICE connection state")
	})
	conn.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		p.log.Debug().Str("state", state.String()).Msg("peer connection state")
		switch state {
		case webrtc.PeerConnectionStateConnected:
			p.emitState(stream.StateConnected)
		case webrtc.PeerConnectionStateDisconnected,
			webrtc.PeerConnectionStateFailed,
			webrtc.PeerConnectionStateClosed:
			p.emitState(stream.StateDisconnected)
		}
	})

	if err = p.handleInputChannel(conn); err != nil {
		_ = conn.Close()
		return "", err
	}

	offer, err := conn.CreateOffer(nil)
	if err != nil {
		_ = conn.Close()
		return "", err
	}
	gathered := webrtc.GatheringCompletePromise(conn)
	if err = conn.SetLocalDescription(offer); err != nil {
		_ = conn.Close()
		return "", err
	}
	select {
	case <-gathered:
	case <-ctx.Done():
		_ = conn.Close()
		return "", ctx.Err()
	}

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	return Encode(conn.LocalDescription())
}

// ProcessSignalResponse applies the remote answer to the pending offer.
func (p *Peer) ProcessSignalResponse(_ context.Context, signal string) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return errors.New("no pending peer connection")
	}
	var answer webrtc.SessionDescription
	if err := Decode(signal, &answer); err != nil {
		return fmt.Errorf("malformed signal response: %w", err)
	}
	return conn.SetRemoteDescription(answer)
}

// handleInputChannel creates the input data channel.
// Default params -- ordered: true, negotiated: false.
func (p *Peer) handleInputChannel(conn *webrtc.PeerConnection) error {
	channel, err := conn.CreateDataChannel("game-input", nil)
	if err != nil {
		return err
	}

	channel.OnOpen(func() {
		p.chOpen.Store(true)
		p.log.Debug().
			Str("label", channel.Label()).
			Uint16("id", *channel.ID()).
			Msg("Data channel [input] opened")
	})

	channel.OnError(func(err error) {
		p.log.Error().Err(err).Msg("Data channel [input]")
		if p.OnChannelError != nil {
			p.OnChannelError(err)
		}
	})

	channel.OnMessage(func(msg webrtc.DataChannelMessage) {
		// the server talks back only in text, to end the stream
		if !msg.IsString {
			return
		}
		reason := strings.TrimSpace(strings.ToLower(string(msg.Data)))
		p.log.Info().Str("reason", reason).Msg("server message")
		if p.OnServerDisconnect != nil {
			p.OnServerDisconnect(reason)
		}
	})

	channel.OnClose(func() {
		p.chOpen.Store(false)
		p.log.Debug().Msg("Data channel [input] has been closed")
	})

	p.mu.Lock()
	p.inputCh = channel
	p.mu.Unlock()
	return nil
}

// AttachInput opens the input gate; events dispatched while detached
// are dropped at the source.
func (p *Peer) AttachInput() { p.attached.Store(true) }

func (p *Peer) DetachInput() { p.attached.Store(false) }

// send ships one encoded input message, silently dropped while the gate
// is closed or the channel is not open yet.
func (p *Peer) send(data []byte) error {
	if !p.attached.Load() || !p.chOpen.Load() {
		return nil
	}
	p.mu.Lock()
	ch := p.inputCh
	p.mu.Unlock()
	if ch == nil {
		return errNoChannel
	}
	return ch.Send(data)
}

// Close tears the current peer connection down; safe to call at any
// point, including before the first offer.
func (p *Peer) Close() {
	p.mu.Lock()
	conn, ch := p.conn, p.inputCh
	p.conn, p.inputCh = nil, nil
	p.mu.Unlock()
	p.attached.Store(false)
	p.chOpen.Store(false)
	if ch != nil {
		_ = ch.Close()
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			p.log.Error().Err(err).Msg("peer connection close")
		}
	}
}

func (p *Peer) emitState(state string) {
	if p.OnStateChange != nil {
		p.OnStateChange(state)
	}
}
