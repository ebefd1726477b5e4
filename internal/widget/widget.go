// Package widget is a contract-faithful, in-process stand-in for the
// embedded chat application. A real deployment embeds the vendor's iframe;
// this implementation exists so the messaging protocol can be exercised
// end to end without a browser.
package widget

import (
	"encoding/json"
	"sync"

	"github.com/whatsb/whatsb-embedding-example/internal/embed"
)

// AuthFunc stands in for the widget's own upstream identity provider. A nil
// AuthFunc accepts every token.
type AuthFunc func(token string) error

type Widget struct {
	mu      sync.Mutex
	poster  embed.Poster
	auth    AuthFunc
	started bool
}

func New(poster embed.Poster, auth AuthFunc) *Widget {
	return &Widget{poster: poster, auth: auth}
}

// Start announces readiness to the host page. EMBED_READY is emitted
// exactly once, no matter how often Start is called.
func (w *Widget) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	w.postEvent(embed.Event{Type: embed.EventReady})
}

// HandleIncoming processes one Command delivered from the host page.
// Malformed payloads and login Commands without a token produce an
// embed-login/login/error event with message "invalid-message". Payloads
// without an action field (such as the host's ack reply) are not Commands
// and are ignored.
func (w *Widget) HandleIncoming(payload string) {
	var cmd embed.Command
	if err := json.Unmarshal([]byte(payload), &cmd); err != nil {
		w.postInvalid()
		return
	}

	switch cmd.Action {
	case embed.ActionLogin:
		if cmd.Data == nil || cmd.Data.Token == "" {
			w.postInvalid()
			return
		}
		w.postStatus(embed.ActionLogin, embed.StatusInit, "")
		if w.auth != nil {
			if err := w.auth(cmd.Data.Token); err != nil {
				w.postStatus(embed.ActionLogin, embed.StatusError, err.Error())
				return
			}
		}
		w.postStatus(embed.ActionLogin, embed.StatusSuccess, "")

	case embed.ActionLogout:
		w.postStatus(embed.ActionLogout, embed.StatusInit, "")
		w.postStatus(embed.ActionLogout, embed.StatusSuccess, "")

	case "":
		// not a Command; acks and other host replies land here

	default:
		w.postInvalid()
	}
}

func (w *Widget) postInvalid() {
	w.postStatus(embed.ActionLogin, embed.StatusError, "invalid-message")
}

func (w *Widget) postStatus(action, status, message string) {
	w.postEvent(embed.Event{
		Type:    embed.EventLogin,
		Action:  action,
		Status:  status,
		Message: message,
	})
}

func (w *Widget) postEvent(ev embed.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = w.poster.Post(string(payload), "*")
}
