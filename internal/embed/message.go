package embed

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// EventReady is emitted exactly once by the widget after it finishes
	// its own initialization.
	EventReady = "EMBED_READY"
	// EventLogin tags every widget status report about a login or logout
	// attempt.
	EventLogin = "embed-login"

	ActionLogin  = "login"
	ActionLogout = "logout"

	StatusInit    = "init"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Command is a host-to-widget instruction.
type Command struct {
	Action string       `json:"action"`
	Data   *CommandData `json:"data,omitempty"`
}

type CommandData struct {
	Token string `json:"token"`
}

// Event is a widget-to-host status report. Every event except EMBED_READY
// carries an action and a status; error-status events carry a
// human-readable message.
type Event struct {
	Type    string `json:"type,omitempty"`
	Action  string `json:"action,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Discriminant computes the single canonical dispatch tag: the status when
// present, otherwise the type. This replaces the reference host's habit of
// switching on whichever of the two fields happens to exist.
func (e Event) Discriminant() string {
	if e.Status != "" {
		return e.Status
	}
	return e.Type
}

// Ack is the one reply the host owes the widget, sent in answer to
// EMBED_READY.
type Ack struct {
	Type         string `json:"type"`
	ReceivedType string `json:"receivedType"`
}

var errUnsupportedPayload = errors.New("unsupported message payload")

// Normalize decodes a raw cross-document payload into an Event. Payloads
// arrive either as JSON-serialized strings or as already-decoded objects,
// depending on how the sender called postMessage.
func Normalize(data any) (Event, error) {
	switch v := data.(type) {
	case Event:
		return v, nil
	case string:
		return decodeEvent([]byte(v))
	case []byte:
		return decodeEvent(v)
	case json.RawMessage:
		return decodeEvent(v)
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return Event{}, err
		}
		return decodeEvent(raw)
	default:
		return Event{}, fmt.Errorf("%w: %T", errUnsupportedPayload, data)
	}
}

func decodeEvent(raw []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
