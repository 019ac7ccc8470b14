package stream

import (
	"time"

	"github.com/daryl-piggybanx/streamlift/pkg/api"
	"github.com/daryl-piggybanx/streamlift/pkg/com"
)

// API is the remote session service contract consumed by the controller.
type API interface {
	StartSession(rq api.StartSessionRequest) (*api.StartSessionResponse, error)
	GetSession(rq api.GetSessionRequest) (*api.GetSessionResponse, error)
	TerminateSession(rq api.TerminateSessionRequest) error
}

// Remote binds API calls to the websocket RPC channel.
type Remote struct {
	client *com.Client
}

func NewRemote(client *com.Client) *Remote { return &Remote{client: client} }

func (r *Remote) StartSession(rq api.StartSessionRequest) (*api.StartSessionResponse, error) {
	data, err := r.client.Call(api.StartSession, rq)
	if err != nil {
		return nil, err
	}
	if err := unwrapError(data); err != nil {
		return nil, err
	}
	out := api.Unwrap[api.StartSessionResponse](data)
	if out == nil || out.Handle == "" {
		return nil, api.ErrMalformed
	}
	return out, nil
}

func (r *Remote) GetSession(rq api.GetSessionRequest) (*api.GetSessionResponse, error) {
	data, err := r.client.Call(api.GetSession, rq)
	if err != nil {
		return nil, err
	}
	if err := unwrapError(data); err != nil {
		return nil, err
	}
	out := api.Unwrap[api.GetSessionResponse](data)
	if out == nil {
		return nil, api.ErrMalformed
	}
	return out, nil
}

func (r *Remote) TerminateSession(rq api.TerminateSessionRequest) error {
	data, err := r.client.Call(api.TerminateSession, rq)
	if err != nil {
		return err
	}
	return unwrapError(data)
}

// CheckLatency measures the service round-trip time.
func (r *Remote) CheckLatency() (time.Duration, error) {
	start := time.Now()
	if _, err := r.client.Call(api.CheckLatency, start.UnixMilli()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func unwrapError(data []byte) error {
	return api.Unwrap[api.ErrorResponse](data).AsSessionError()
}
