package token

import (
	"context"
	"encoding/json"
)

// Result carries the upstream answer: the parsed opaque token plus the raw
// response body so callers can pass upstream fields through unmodified.
// The token is never validated or parsed beyond extraction.
type Result struct {
	Token string
	Raw   json.RawMessage
}

// Issuer trades user claims for an upstream-issued session token.
// Implementations make exactly one upstream attempt per call; retry policy
// belongs to the caller. Errors must never contain the upstream secret.
type Issuer interface {
	// Name returns the issuer identifier (e.g. "remote", "oidc").
	Name() string

	Issue(ctx context.Context, claims Claims) (*Result, error)
}
