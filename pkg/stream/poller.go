package stream

import (
	"context"
	"errors"
	"time"

	"github.com/daryl-piggybanx/streamlift/pkg/api"
	"github.com/daryl-piggybanx/streamlift/pkg/session"
)

// startPolling spawns the status loop for d. Bumping pollGen retires any
// loop still running for a previous session, so at most one generation
// ever mutates state.
func (c *Controller) startPolling(d session.Descriptor) {
	c.mu.Lock()
	c.pollGen++
	gen := c.pollGen
	c.mu.Unlock()

	interval := c.conf.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for range t.C {
			if !c.pollOnce(gen, d) {
				return
			}
		}
	}()
}

// pollOnce fetches session status and applies it; the result reports
// whether the loop should keep going. Results are applied only while
// gen is current and d still matches the stored descriptor; anything
// stale is discarded wholesale. Transport errors never stop the loop,
// only a definitive status (or the session disappearing remotely) does.
func (c *Controller) pollOnce(gen uint64, d session.Descriptor) bool {
	if c.stale(gen, d) {
		metricPolls.WithLabelValues("stale").Inc()
		return false
	}
	// the connection-state callback may have won the race already
	if c.store.Connected() {
		return false
	}

	res, err := c.api.GetSession(api.GetSessionRequest{Handle: d.Handle, Group: d.Group})
	if err != nil {
		var sessErr *api.SessionError
		if errors.As(err, &sessErr) && sessErr.Kind == api.ErrNotFound {
			// the remote side no longer knows this session; the
			// local slot must not keep pointing at it
			c.log.Warn().Str("handle", d.Handle).Msg("session gone remotely")
			metricPolls.WithLabelValues("gone").Inc()
			if !c.stale(gen, d) {
				c.store.Clear()
				c.fail(sessErr)
			}
			return false
		}
		c.log.Warn().Err(err).Str("handle", d.Handle).Msg("status poll failed")
		metricPolls.WithLabelValues("error").Inc()
		return true
	}

	// re-check: the session may have been replaced while the request
	// was in flight
	if c.stale(gen, d) {
		metricPolls.WithLabelValues("stale").Inc()
		return false
	}
	metricPolls.WithLabelValues("ok").Inc()

	c.mu.Lock()
	c.last = res
	c.mu.Unlock()

	switch {
	case res.Status == api.StatusActive:
		c.onActive(gen, d, res)
		return false
	case res.Status == api.StatusConnected:
		// the SDK connection-state callback owns the connected flag;
		// the poller only stops waiting
		return false
	case res.Status == api.StatusTerminated:
		c.log.Info().Str("handle", d.Handle).Msg("session terminated remotely")
		c.store.Clear()
		return false
	case res.Status.StopsPolling():
		// ERROR: keep the descriptor so the failure can be inspected
		c.log.Error().Str("handle", d.Handle).Str("reason", res.StatusReason).Msg("session errored")
		c.fail(&api.SessionError{Kind: api.ErrUnknown, Message: res.StatusReason})
		return false
	}
	return true
}

// onActive performs the one-shot signal handoff. The signalled flag is
// flipped under the lock before the SDK call so a concurrent poll can
// never hand the answer over twice.
func (c *Controller) onActive(gen uint64, d session.Descriptor, res *api.GetSessionResponse) {
	if c.store.Connected() || res.SignalResponse == "" {
		return
	}
	c.mu.Lock()
	if c.signalled {
		c.mu.Unlock()
		return
	}
	c.signalled = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.conf.ConnectionTimeout)
	defer cancel()
	if err := c.sdk.ProcessSignalResponse(ctx, res.SignalResponse); err != nil {
		c.log.Error().Err(err).Str("handle", d.Handle).Msg("signal handoff failed")
		c.fail(err)
		c.disconnect()
		return
	}
	if c.stale(gen, d) {
		return
	}
	c.store.SetConnected(true)
	c.store.SetStatus(session.Active)
	metricConnected.Set(1)
	c.log.Info().Str("handle", d.Handle).Msg("signal handoff complete")
}

// stale reports whether results for (gen, d) must be discarded: either
// a newer poll generation exists or the stored session is no longer d.
func (c *Controller) stale(gen uint64, d session.Descriptor) bool {
	c.mu.Lock()
	cur := c.pollGen
	started := c.started
	c.mu.Unlock()
	if gen != cur || !started {
		return true
	}
	return !c.store.Current().Same(d)
}
