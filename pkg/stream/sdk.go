package stream

import "context"

// Connection states reported by the SDK.
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
)

// DisconnectTerminated is the server disconnect reason after which the
// local session must not be kept for reconnection.
const DisconnectTerminated = "terminated"

// SDK is the narrow interface of the external streaming SDK.
// The concrete binding (pkg/webrtc) owns the transport; the controller
// owns the only SDK instance in the system.
type SDK interface {
	// GenerateSignalRequest produces the outbound signaling payload.
	GenerateSignalRequest(ctx context.Context) (string, error)
	// ProcessSignalResponse consumes the inbound payload and
	// establishes the transport.
	ProcessSignalResponse(ctx context.Context, signal string) error
	AttachInput()
	DetachInput()
	Close()
}
