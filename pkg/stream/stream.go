// Package stream orchestrates one cloud stream session: creation, status
// polling, signal handoff to the streaming SDK, reconnection and
// termination.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daryl-piggybanx/streamlift/pkg/api"
	"github.com/daryl-piggybanx/streamlift/pkg/config"
	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	"github.com/daryl-piggybanx/streamlift/pkg/session"
)

var (
	ErrNotReady  = errors.New("streaming SDK is not initialized")
	ErrNoSession = errors.New("no session to resume")
)

// Controller is the session lifecycle state machine.
//
// All external stimuli (embedder calls, poll results, SDK callbacks)
// funnel through its methods. State is decided under the lock; remote
// and SDK calls happen outside it because SDK callbacks may re-enter.
type Controller struct {
	api   API
	sdk   SDK
	store *session.Store
	conf  config.Session
	log   *logger.Logger

	// serializes start/reconnect/terminate; guarantees the old
	// session's terminate is observed before the new start is issued
	op sync.Mutex

	mu sync.Mutex
	// armed by an explicit start/reconnect, not by a merely loaded session
	started bool
	// at-most-once signal handoff per session lifetime
	signalled     bool
	inputAttached bool
	fullscreen    bool
	lastErr       string
	last          *api.GetSessionResponse
	pollGen       uint64
}

func New(remote API, sdk SDK, store *session.Store, conf config.Session, log *logger.Logger) *Controller {
	c := &Controller{api: remote, sdk: sdk, store: store, conf: conf, log: log}
	// storage is the durable truth on load; an expired or corrupted
	// slot is dropped here
	if d := store.Load(); !d.Empty() {
		log.Info().Str("handle", d.Handle).Str("status", string(d.Status)).Msg("session restored from storage")
	}
	return c
}

// Start requests a new remote session. A leftover descriptor, whatever
// its status, is first terminated remotely (best-effort) and cleared
// locally; the new start request is issued only after that terminate
// call returned.
func (c *Controller) Start(ctx context.Context) error {
	if c.sdk == nil {
		return c.fail(ErrNotReady)
	}
	c.op.Lock()
	defer c.op.Unlock()

	if old := c.store.Current(); !old.Empty() {
		if err := c.api.TerminateSession(api.TerminateSessionRequest{Handle: old.Handle, Group: old.Group}); err != nil {
			c.log.Warn().Err(err).Str("handle", old.Handle).Msg("stale session terminate failed")
		}
		c.store.Clear()
	}

	signal, err := c.sdk.GenerateSignalRequest(ctx)
	if err != nil {
		// no half-initialized transport may be left live
		c.disconnect()
		return c.fail(fmt.Errorf("signal request: %w", err))
	}

	userId := c.conf.UserId
	if userId == "" {
		userId = session.GenUserId()
	}
	var locations []string
	if c.conf.Region != "" {
		locations = []string{c.conf.Region}
	}
	rq := api.StartSessionRequest{
		SignalRequest:     signal,
		UserId:            userId,
		App:               c.conf.App,
		Group:             c.conf.Group,
		Locations:         locations,
		LaunchArgs:        c.conf.LaunchArgs,
		EnvVars:           c.conf.EnvVars,
		ConnectionTimeout: int(c.conf.ConnectionTimeout.Seconds()),
		Length:            int(c.conf.Length.Seconds()),
	}
	res, err := c.api.StartSession(rq)
	if err != nil {
		metricSessions.WithLabelValues("start_failed").Inc()
		return c.fail(err)
	}

	d := session.NewDescriptor(res.Handle, res.Group, userId, c.conf.App, res.Location, time.Now())
	c.store.Save(d)
	metricSessions.WithLabelValues("started").Inc()
	c.log.Info().Str("handle", d.Handle).Msg("session started")

	c.mu.Lock()
	c.started = true
	c.signalled = false
	c.lastErr = ""
	c.last = res.AsGetResponse()
	c.mu.Unlock()

	c.startPolling(d)
	return nil
}

// Reconnect re-arms polling for an already stored session without
// creating a new remote one. The stored descriptor may sit in the
// terminated state from a previous disconnect; resuming deliberately
// moves it back to connecting. If polling then finds the remote session
// gone, the descriptor is cleared.
func (c *Controller) Reconnect() error {
	if c.sdk == nil {
		return c.fail(ErrNotReady)
	}
	c.op.Lock()
	defer c.op.Unlock()

	d := c.store.Load()
	if d.Empty() {
		return c.fail(ErrNoSession)
	}
	if d.Status == session.Terminated {
		c.store.SetStatus(session.Connecting)
		d = c.store.Current()
	}

	c.mu.Lock()
	c.started = true
	c.signalled = false
	c.lastErr = ""
	c.mu.Unlock()

	c.log.Info().Str("handle", d.Handle).Msg("session resume")
	c.startPolling(d)
	return nil
}

// Terminate asks the remote side to kill the session and cleans the
// local state up no matter what the remote said: the local state must
// never be stuck referencing a session the user asked to kill.
func (c *Controller) Terminate() error {
	c.op.Lock()
	defer c.op.Unlock()

	d := c.store.Current()
	if d.Empty() {
		return nil
	}
	err := c.api.TerminateSession(api.TerminateSessionRequest{Handle: d.Handle, Group: d.Group})
	if err != nil {
		c.log.Error().Err(err).Str("handle", d.Handle).Msg("remote terminate failed")
	}
	c.store.Clear()
	c.disconnect()
	metricSessions.WithLabelValues("terminated").Inc()
	if err != nil {
		return c.fail(err)
	}
	c.log.Info().Str("handle", d.Handle).Msg("session terminated")
	return nil
}

// HandleConnectionState reacts to SDK connection-state callbacks.
func (c *Controller) HandleConnectionState(state string) {
	c.log.Debug().Str("state", state).Msg("connection state")
	switch state {
	case StateConnected:
		c.store.SetConnected(true)
		c.store.SetStatus(session.Active)
		metricConnected.Set(1)
	case StateDisconnected:
		c.disconnect()
	}
}

// HandleChannelError routes SDK channel failures through the disconnect
// path so that no half-applied state is left live.
func (c *Controller) HandleChannelError(err error) {
	c.log.Error().Err(err).Msg("channel error")
	c.disconnect()
}

// HandleServerDisconnect reacts to a server-initiated disconnect. The
// "terminated" reason clears the local session; any other reason keeps
// the descriptor for a later reconnect attempt.
func (c *Controller) HandleServerDisconnect(reason string) {
	c.log.Info().Str("reason", reason).Msg("server disconnect")
	if reason == DisconnectTerminated {
		c.store.Clear()
	}
	c.disconnect()
}

// AttachInput forwards input capture to the SDK; meaningful only once
// the transport is connected.
func (c *Controller) AttachInput() {
	if c.sdk == nil || !c.store.Connected() {
		return
	}
	c.sdk.AttachInput()
	c.mu.Lock()
	c.inputAttached = true
	c.mu.Unlock()
}

// DetachInput is always safe.
func (c *Controller) DetachInput() {
	if c.sdk != nil {
		c.sdk.DetachInput()
	}
	c.mu.Lock()
	c.inputAttached = false
	c.mu.Unlock()
}

func (c *Controller) InputAttached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputAttached
}

// ToggleInput flips input capture.
func (c *Controller) ToggleInput() {
	if c.InputAttached() {
		c.DetachInput()
	} else {
		c.AttachInput()
	}
}

// SetFullscreen couples fullscreen with input capture as a convenience;
// input can be attached without fullscreen.
func (c *Controller) SetFullscreen(on bool) {
	c.mu.Lock()
	c.fullscreen = on
	c.mu.Unlock()
	if on {
		c.AttachInput()
	} else {
		c.DetachInput()
	}
}

func (c *Controller) Connected() bool { return c.store.Connected() }

// disconnect is the single cleanup path for every SDK-side failure and
// connection loss. It closes the transport, detaches input, drops the
// connected flag, marks a surviving descriptor terminated (kept for
// reconnection) and disarms the poller.
func (c *Controller) disconnect() {
	if c.sdk != nil {
		c.sdk.Close()
	}
	c.mu.Lock()
	c.inputAttached = false
	c.started = false
	c.mu.Unlock()
	c.store.SetConnected(false)
	c.store.SetStatus(session.Terminated)
	metricConnected.Set(0)
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.mu.Unlock()
	return err
}

// LastError returns the user-visible error text of the latest failed
// operation, empty when the last one succeeded.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// StatusText renders the human-readable status line.
func (c *Controller) StatusText() string {
	if c.sdk == nil {
		return "Initializing..."
	}
	d := c.store.Current()
	if d.Empty() {
		return "Ready to start"
	}
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()
	if last == nil {
		return "Initialize Stream..."
	}
	reason := ""
	if last.StatusReason != "" {
		reason = fmt.Sprintf(" (%s)", last.StatusReason)
	}
	switch last.Status {
	case api.StatusActivating:
		return "Preparing stream - Starting application..."
	case api.StatusActive:
		if c.store.Connected() {
			return "Connected and streaming!"
		}
		return "Connecting..."
	case api.StatusConnected:
		return "Connected and streaming!"
	case api.StatusError:
		return fmt.Sprintf("Stream error%s", reason)
	case api.StatusTerminated:
		return "Stream session ended"
	case api.StatusTerminating:
		return "Terminating stream session..."
	case api.StatusPendingRec:
		return "Waiting for client to reconnect..."
	case api.StatusReconnect:
		return "Reconnecting to stream..."
	default:
		return fmt.Sprintf("Status: %s%s", last.Status, reason)
	}
}
