package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/whatsb/whatsb-embedding-example/internal/token"
)

const (
	issuerName = "remote"

	// secretHeader carries the shared secret to the upstream authority.
	// It never appears in a request body and is never returned to callers.
	secretHeader = "x-secret-key"

	maxErrorBody = 512
)

// Issuer exchanges user claims for a session token at the vendor's bespoke
// token endpoint. It is the only component that holds the shared secret.
type Issuer struct {
	endpoint string
	secret   string
	client   *http.Client
}

func New(tokenURL, secret string) (*Issuer, error) {
	if tokenURL == "" || secret == "" {
		return nil, errors.New("upstream token config missing required fields")
	}
	return &Issuer{
		endpoint: tokenURL,
		secret:   secret,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name returns the issuer identifier used by the registry.
func (i *Issuer) Name() string {
	return issuerName
}

// Issue makes exactly one upstream attempt. The upstream body is returned
// unmodified on success; all failures collapse to an error that may carry
// upstream diagnostics but never the secret.
func (i *Issuer) Issue(ctx context.Context, claims token.Claims) (*token.Result, error) {
	body, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, i.scrub(fmt.Errorf("build token request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, i.secret)

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, i.scrub(fmt.Errorf("upstream token request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, i.scrub(fmt.Errorf("read upstream response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, i.scrub(fmt.Errorf(
			"upstream returned status %d: %s",
			resp.StatusCode,
			truncate(raw, maxErrorBody),
		))
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, i.scrub(fmt.Errorf("decode upstream response: %w", err))
	}
	if parsed.Token == "" {
		return nil, errors.New("upstream response missing token")
	}

	return &token.Result{Token: parsed.Token, Raw: raw}, nil
}

// scrub guarantees the shared secret never leaks through error text, even
// when the transport or the upstream echoes request headers back in its
// diagnostics.
func (i *Issuer) scrub(err error) error {
	msg := err.Error()
	if i.secret != "" && strings.Contains(msg, i.secret) {
		msg = strings.ReplaceAll(msg, i.secret, "[redacted]")
	}
	return errors.New(msg)
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
