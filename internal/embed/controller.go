package embed

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"

	"github.com/whatsb/whatsb-embedding-example/internal/journal"
	"github.com/whatsb/whatsb-embedding-example/internal/token"
)

// Poster delivers a serialized payload toward the widget window.
// Implementations wrap window.postMessage or an in-process stand-in.
// Delivery is fire-and-forget; there is no acknowledgment.
type Poster interface {
	Post(payload string, targetOrigin string) error
}

// PosterFunc adapts a function to the Poster interface.
type PosterFunc func(payload string, targetOrigin string) error

func (f PosterFunc) Post(payload string, targetOrigin string) error {
	return f(payload, targetOrigin)
}

// RawEvent is a message as it arrives from the window boundary, before
// normalization. Data is either a JSON string or an already-decoded object.
type RawEvent struct {
	Origin string
	Data   any
}

// Config holds the static host-page settings of a Controller.
type Config struct {
	// FrameURL is the iframe's configured source URL. Its origin is the
	// outgoing target until the widget's real origin has been captured.
	FrameURL string

	// AllowedOrigins is the trust allow-list, checked by substring match
	// against incoming origins. Empty means every origin is trusted,
	// matching the reference host's permissive default.
	AllowedOrigins []string
}

// Controller mediates between user-entered credentials, the token exchange
// service, and the embedded widget, entirely through message passing. It
// shares no memory with the widget. One Controller is constructed per page
// load; it holds all of its state itself.
//
// The browser original runs on a single-threaded event loop. The mutex is
// the Go-native expression of that serialization: callers may drive the
// controller from any goroutine, handlers still run one at a time.
type Controller struct {
	mu sync.Mutex

	poster  Poster
	issuer  token.Issuer
	journal journal.Recorder

	frameOrigin string
	allowed     []string

	iframeOrigin  string
	creds         token.Claims
	authenticated bool
	loading       bool
}

func NewController(poster Poster, issuer token.Issuer, rec journal.Recorder, cfg Config) *Controller {
	if rec == nil {
		rec = journal.NewMemory(0)
	}
	return &Controller{
		poster:      poster,
		issuer:      issuer,
		journal:     rec,
		frameOrigin: originOf(cfg.FrameURL),
		allowed:     cfg.AllowedOrigins,
	}
}

func originOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// SetCredentials stores the user-entered identity the controller will trade
// for a token. Credentials never leave the controller except inside a
// token request or an auth_request reply.
func (c *Controller) SetCredentials(claims token.Claims) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = claims
}

func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// PinnedOrigin returns the widget origin captured from incoming traffic, or
// "" when none is known yet. While it is "", outgoing Commands fall back to
// the frame URL's origin and finally to the "*" wildcard — a known
// weakening that defeats origin pinning. Hardened callers should refuse to
// send credential-bearing Commands until this returns a real origin.
func (c *Controller) PinnedOrigin() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iframeOrigin
}

// Journal exposes the observational protocol log.
func (c *Controller) Journal() []journal.Entry {
	return c.journal.Entries()
}

// outbound is a payload staged while the state lock is held and posted
// after it is released, so a synchronous Poster may re-enter the
// controller without deadlocking.
type outbound struct {
	payload string
	target  string
}

// HandleIncoming processes one message from the window boundary. It never
// returns an error and never panics across this boundary: malformed
// payloads are journaled as parse errors and dropped, content from origins
// outside the allow-list is dropped silently.
func (c *Controller) HandleIncoming(raw RawEvent) {
	c.mu.Lock()
	out := c.handleLocked(raw)
	c.mu.Unlock()
	c.post(out)
}

func (c *Controller) handleLocked(raw RawEvent) []outbound {
	ev, err := Normalize(raw.Data)
	if err != nil {
		c.journal.Append("Parse error", journal.DirectionError)
		return nil
	}

	var out []outbound

	// The ready ack goes out before the allow-list is consulted: the
	// reference host answers EMBED_READY from any origin. Preserved as-is
	// rather than silently tightened.
	if ev.Type == EventReady {
		out = append(out, c.stageAckLocked(EventReady)...)
	}

	if !c.originAllowed(raw.Origin) {
		return out
	}

	if c.iframeOrigin == "" && raw.Origin != "" {
		c.iframeOrigin = raw.Origin
	}

	c.journalIncoming(raw.Data)

	return append(out, c.dispatchLocked(ev)...)
}

func (c *Controller) journalIncoming(data any) {
	text, ok := data.(string)
	if !ok {
		if b, err := json.Marshal(data); err == nil {
			text = string(b)
		}
	}
	c.journal.Append(text, journal.DirectionReceived)
}

func (c *Controller) originAllowed(origin string) bool {
	if len(c.allowed) == 0 {
		return true
	}
	for _, a := range c.allowed {
		if a != "" && strings.Contains(origin, a) {
			return true
		}
	}
	return false
}

// dispatchLocked routes on the canonical discriminant. Unrecognized tags
// are ignored on purpose: newer widget builds may emit message kinds this
// controller predates.
func (c *Controller) dispatchLocked(ev Event) []outbound {
	switch ev.Discriminant() {
	case "auth_request":
		return c.stageCredentialsLocked()
	case "auth_success":
		c.authenticated = true
	case "auth_failure":
		c.journal.Append("Auth failure: "+ev.Message, journal.DirectionError)
	case "ready":
		c.loading = false
	case StatusSuccess:
		switch ev.Action {
		case ActionLogin:
			c.authenticated = true
		case ActionLogout:
			c.authenticated = false
		}
	case StatusError:
		msg := ev.Message
		if msg == "" {
			msg = ev.Error
		}
		c.journal.Append("Widget error: "+msg, journal.DirectionError)
	}
	return nil
}

// RequestToken performs one token exchange with the current credentials
// and, on success, sends exactly one login Command carrying the token. On
// failure the error is journaled and the authenticated flag is untouched.
//
// The widget must have signaled EMBED_READY before tokens are requested;
// that ordering is not enforced here and callers must not rely on it.
func (c *Controller) RequestToken(ctx context.Context) {
	c.mu.Lock()
	claims := c.creds
	c.loading = true
	c.mu.Unlock()

	res, err := c.issuer.Issue(ctx, claims)

	c.mu.Lock()
	if err != nil {
		c.journal.Append("Token request failed: "+err.Error(), journal.DirectionError)
		c.loading = false
		c.mu.Unlock()
		return
	}
	out := c.stageCommandLocked(Command{
		Action: ActionLogin,
		Data:   &CommandData{Token: res.Token},
	})
	c.mu.Unlock()
	c.post(out)
}

// SendCommand serializes the command and posts it toward the widget
// window. Every send is mirrored into the journal.
func (c *Controller) SendCommand(cmd Command) {
	c.mu.Lock()
	out := c.stageCommandLocked(cmd)
	c.mu.Unlock()
	c.post(out)
}

// Logout sends a logout Command and returns without waiting: the
// authenticated flag is cleared only once the widget confirms with a
// logout success event, never optimistically.
func (c *Controller) Logout() {
	c.SendCommand(Command{Action: ActionLogout})
}

func (c *Controller) stageCommandLocked(cmd Command) []outbound {
	payload, err := json.Marshal(cmd)
	if err != nil {
		c.journal.Append("Serialize error: "+err.Error(), journal.DirectionError)
		return nil
	}
	return []outbound{{payload: string(payload), target: c.targetOriginLocked()}}
}

func (c *Controller) stageAckLocked(receivedType string) []outbound {
	payload, err := json.Marshal(Ack{Type: "ack", ReceivedType: receivedType})
	if err != nil {
		c.journal.Append("Serialize error: "+err.Error(), journal.DirectionError)
		return nil
	}
	return []outbound{{payload: string(payload), target: c.targetOriginLocked()}}
}

// stageCredentialsLocked answers an auth_request by handing the widget the
// stored credentials.
func (c *Controller) stageCredentialsLocked() []outbound {
	payload, err := json.Marshal(struct {
		Action string       `json:"action"`
		Data   token.Claims `json:"data"`
	}{
		Action: "credentials",
		Data:   c.creds,
	})
	if err != nil {
		c.journal.Append("Serialize error: "+err.Error(), journal.DirectionError)
		return nil
	}
	return []outbound{{payload: string(payload), target: c.targetOriginLocked()}}
}

func (c *Controller) targetOriginLocked() string {
	if c.iframeOrigin != "" {
		return c.iframeOrigin
	}
	if c.frameOrigin != "" {
		return c.frameOrigin
	}
	return "*"
}

func (c *Controller) post(out []outbound) {
	for _, o := range out {
		c.journal.Append(o.payload, journal.DirectionSent)
		if err := c.poster.Post(o.payload, o.target); err != nil {
			c.journal.Append("Post error: "+err.Error(), journal.DirectionError)
		}
	}
}
