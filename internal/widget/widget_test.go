package widget

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/whatsb/whatsb-embedding-example/internal/embed"
)

type capture struct {
	events []embed.Event
}

func (c *capture) Post(payload string, targetOrigin string) error {
	var ev embed.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return err
	}
	c.events = append(c.events, ev)
	return nil
}

func mustLogin(t *testing.T, token string) string {
	t.Helper()
	data, err := json.Marshal(embed.Command{
		Action: embed.ActionLogin,
		Data:   &embed.CommandData{Token: token},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

// Requirement: EMBED_READY is emitted exactly once regardless of how many
// times Start is called.
func TestWidgetStartOnce(t *testing.T) {
	out := &capture{}
	w := New(out, nil)

	w.Start()
	w.Start()

	if len(out.events) != 1 {
		t.Fatalf("events = %d, want 1", len(out.events))
	}
	if out.events[0].Type != embed.EventReady {
		t.Errorf("event = %+v, want EMBED_READY", out.events[0])
	}
}

func TestWidgetLogin(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		auth       AuthFunc
		wantStatus []string
		wantMsg    string
	}{
		{
			name:       "valid token settles with success",
			payload:    "",
			wantStatus: []string{embed.StatusInit, embed.StatusSuccess},
		},
		{
			name:       "identity provider rejection settles with error",
			payload:    "",
			auth:       func(string) error { return errors.New("token expired") },
			wantStatus: []string{embed.StatusInit, embed.StatusError},
			wantMsg:    "token expired",
		},
		{
			name:       "login without token",
			payload:    `{"action":"login"}`,
			wantStatus: []string{embed.StatusError},
			wantMsg:    "invalid-message",
		},
		{
			name:       "unparseable json",
			payload:    `{"action":`,
			wantStatus: []string{embed.StatusError},
			wantMsg:    "invalid-message",
		},
		{
			name:       "unknown action",
			payload:    `{"action":"self-destruct"}`,
			wantStatus: []string{embed.StatusError},
			wantMsg:    "invalid-message",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			out := &capture{}
			w := New(out, test.auth)

			payload := test.payload
			if payload == "" {
				payload = mustLogin(t, "T1")
			}
			w.HandleIncoming(payload)

			if len(out.events) != len(test.wantStatus) {
				t.Fatalf("events = %+v, want statuses %v", out.events, test.wantStatus)
			}
			for i, want := range test.wantStatus {
				if out.events[i].Status != want {
					t.Errorf("event %d status = %q, want %q", i, out.events[i].Status, want)
				}
				if out.events[i].Action != embed.ActionLogin {
					t.Errorf("event %d action = %q, want login", i, out.events[i].Action)
				}
			}
			last := out.events[len(out.events)-1]
			if test.wantMsg != "" && last.Message != test.wantMsg {
				t.Errorf("message = %q, want %q", last.Message, test.wantMsg)
			}
			if last.Status == embed.StatusError && last.Message == "" {
				t.Error("error events must carry a message")
			}
		})
	}
}

func TestWidgetLogout(t *testing.T) {
	out := &capture{}
	w := New(out, nil)

	w.HandleIncoming(`{"action":"logout"}`)

	if len(out.events) != 2 {
		t.Fatalf("events = %+v, want init then success", out.events)
	}
	for i, want := range []string{embed.StatusInit, embed.StatusSuccess} {
		if out.events[i].Action != embed.ActionLogout || out.events[i].Status != want {
			t.Errorf("event %d = %+v, want logout/%s", i, out.events[i], want)
		}
	}
}

// Host replies such as the ready ack are not Commands and must not
// produce invalid-message noise.
func TestWidgetIgnoresAck(t *testing.T) {
	out := &capture{}
	w := New(out, nil)

	w.HandleIncoming(`{"type":"ack","receivedType":"EMBED_READY"}`)

	if len(out.events) != 0 {
		t.Errorf("events = %+v, want none", out.events)
	}
}
