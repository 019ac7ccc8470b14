// Package session holds the local descriptor of one remote stream session
// and its single-slot durable storage.
package session

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// Status is the local session state, distinct from the remote status enum.
type Status string

const (
	Connecting Status = "connecting"
	Active     Status = "active"
	Terminated Status = "terminated"
)

// CanMove reports whether the s -> to edge is allowed.
// The terminated -> connecting edge exists only for the deliberate
// resume of a stored session before giving up and clearing it.
func (s Status) CanMove(to Status) bool {
	switch s {
	case Connecting:
		return to == Active || to == Terminated
	case Active:
		return to == Terminated
	case Terminated:
		return to == Connecting
	}
	return false
}

// Descriptor identifies one remote streaming session.
// At most one descriptor is authoritative at a time.
type Descriptor struct {
	Handle    string `json:"handle"`
	Group     string `json:"group_id"`
	UserId    string `json:"user_id"`
	App       string `json:"app_id"`
	Location  string `json:"location,omitempty"`
	CreatedAt int64  `json:"created_at"` // epoch ms, immutable after creation
	Status    Status `json:"status"`
}

func NewDescriptor(handle, group, userId, app, location string, now time.Time) Descriptor {
	return Descriptor{
		Handle:    handle,
		Group:     group,
		UserId:    userId,
		App:       app,
		Location:  location,
		CreatedAt: now.UnixMilli(),
		Status:    Connecting,
	}
}

func (d Descriptor) Empty() bool { return d.Handle == "" }

func (d Descriptor) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(d.CreatedAt))
}

// Same reports whether other refers to the same remote session.
func (d Descriptor) Same(other Descriptor) bool {
	return d.Handle == other.Handle && d.Group == other.Group
}

// GenUserId makes a fresh user identifier for anonymous players.
func GenUserId() string { return fmt.Sprintf("player-%s", uuid.Must(uuid.NewV4()).String()[:8]) }
