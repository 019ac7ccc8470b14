// Package api defines the client API of the remote session service.
//
// Each API call (request and response) is a JSON-encoded "packet" of the following structure:
//
//	id - (optional) a globally unique packet id;
//	 t - (required) one of the predefined unique packet types;
//	 p - (optional) packet payload with arbitrary data.
//
// Packets differentiate by their predefined types with which it is possible
// to unwrap the payload into distinct request/response data structures, and
// the id field is used for matching responses to in-flight calls.
package api

import (
	"fmt"

	"github.com/goccy/go-json"
)

type PT uint8

type In struct {
	Id      string          `json:"id,omitempty"`
	T       PT              `json:"t"`
	Payload json.RawMessage `json:"p,omitempty"` // should be json.RawMessage for 2-pass unmarshal
}

type Out struct {
	Id      string `json:"id,omitempty"`
	T       uint8  `json:"t"`
	Payload any    `json:"p,omitempty"`
}

const (
	CheckLatency     PT = 3
	StartSession     PT = 101
	GetSession       PT = 102
	TerminateSession PT = 103
)

func (p PT) String() string {
	switch p {
	case CheckLatency:
		return "CheckLatency"
	case StartSession:
		return "StartSession"
	case GetSession:
		return "GetSession"
	case TerminateSession:
		return "TerminateSession"
	default:
		return "Unknown"
	}
}

var ErrMalformed = fmt.Errorf("malformed")

func Unwrap[T any](data []byte) *T {
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}

func UnwrapChecked[T any](bytes []byte, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return Unwrap[T](bytes), nil
}
