package api

// Status is the remote stream session status enum.
type Status string

const (
	StatusActivating  Status = "ACTIVATING"
	StatusActive      Status = "ACTIVE"
	StatusConnected   Status = "CONNECTED"
	StatusError       Status = "ERROR"
	StatusTerminated  Status = "TERMINATED"
	StatusTerminating Status = "TERMINATING"
	StatusPendingRec  Status = "PENDING_CLIENT_RECONNECTION"
	StatusReconnect   Status = "RECONNECTING"
)

// Ready reports whether the remote session reached a streamable state.
func (s Status) Ready() bool { return s == StatusActive || s == StatusConnected }

// Failed reports the terminal failure states.
func (s Status) Failed() bool { return s == StatusError || s == StatusTerminated }

// StopsPolling reports whether the status poller should stop on s.
// Every other status (ACTIVATING, TERMINATING, PENDING_CLIENT_RECONNECTION,
// RECONNECTING, empty) keeps the poll loop running.
func (s Status) StopsPolling() bool { return s.Ready() || s.Failed() }

type StartSessionRequest struct {
	SignalRequest     string            `json:"signal_request"`
	UserId            string            `json:"user_id"`
	App               string            `json:"app_id,omitempty"`
	Group             string            `json:"group_id,omitempty"`
	Locations         []string          `json:"locations,omitempty"`
	LaunchArgs        []string          `json:"launch_args,omitempty"`
	EnvVars           map[string]string `json:"env_vars,omitempty"`
	ConnectionTimeout int               `json:"connection_timeout_s,omitempty"`
	Length            int               `json:"session_length_s,omitempty"`
}

type StartSessionResponse struct {
	Handle         string `json:"handle"`
	Group          string `json:"group_id"`
	SignalResponse string `json:"signal_response,omitempty"`
	Status         Status `json:"status"`
	Location       string `json:"location,omitempty"`
	UserId         string `json:"user_id,omitempty"`
	App            string `json:"app_id,omitempty"`
}

// AsGetResponse views a freshly started session as a status response,
// so the first poll and the start reply share one shape downstream.
func (r *StartSessionResponse) AsGetResponse() *GetSessionResponse {
	if r == nil {
		return nil
	}
	return &GetSessionResponse{
		Handle:         r.Handle,
		Status:         r.Status,
		SignalResponse: r.SignalResponse,
		Location:       r.Location,
		UserId:         r.UserId,
	}
}

type GetSessionRequest struct {
	Handle string `json:"handle"`
	Group  string `json:"group_id"`
}

type GetSessionResponse struct {
	Handle         string `json:"handle"`
	Status         Status `json:"status"`
	StatusReason   string `json:"status_reason,omitempty"`
	SignalResponse string `json:"signal_response,omitempty"`
	Location       string `json:"location,omitempty"`
	UserId         string `json:"user_id,omitempty"`
}

type TerminateSessionRequest struct {
	Handle string `json:"handle"`
	Group  string `json:"group_id"`
}

// ErrorKind classifies remote session service failures.
type ErrorKind string

const (
	ErrNotFound       ErrorKind = "not-found"
	ErrLimitExceeded  ErrorKind = "limit-exceeded"
	ErrInvalidRequest ErrorKind = "invalid-request"
	ErrAccessDenied   ErrorKind = "access-denied"
	ErrUnknown        ErrorKind = "unknown"
)

// ErrorResponse is the error payload of any session call.
type ErrorResponse struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message,omitempty"`
}

// SessionError is a remote failure with a stable user-facing message.
type SessionError struct {
	Kind    ErrorKind
	Message string
}

func (e *SessionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// UserMessage maps an error kind to the text shown to the user.
func UserMessage(kind ErrorKind) string {
	switch kind {
	case ErrNotFound:
		return "Stream session not found. It may have been terminated."
	case ErrLimitExceeded:
		return "Stream capacity limit reached. Please try again later."
	case ErrInvalidRequest:
		return "Invalid request. Please check your configuration."
	case ErrAccessDenied:
		return "Access denied."
	default:
		return "Failed to reach the stream service."
	}
}

// AsSessionError converts an error payload into a SessionError, nil when
// the payload carries no error.
func (e *ErrorResponse) AsSessionError() error {
	if e == nil || e.Kind == "" {
		return nil
	}
	msg := e.Message
	if msg == "" {
		msg = UserMessage(e.Kind)
	}
	return &SessionError{Kind: e.Kind, Message: msg}
}
