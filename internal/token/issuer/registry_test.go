package issuer

import (
	"context"
	"testing"

	"github.com/whatsb/whatsb-embedding-example/internal/token"
)

type namedIssuer string

func (n namedIssuer) Name() string { return string(n) }

func (n namedIssuer) Issue(ctx context.Context, claims token.Claims) (*token.Result, error) {
	return &token.Result{Token: string(n)}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(namedIssuer("remote"), namedIssuer("oidc"))

	got, err := r.Get("remote")
	if err != nil {
		t.Fatalf("Get(remote): %v", err)
	}
	if got.Name() != "remote" {
		t.Errorf("Name() = %q", got.Name())
	}

	if _, err := r.Get("nope"); err == nil {
		t.Error("Get(nope) should fail")
	}
}
