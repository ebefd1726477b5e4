package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/whatsb/whatsb-embedding-example/internal/logger"
	"github.com/whatsb/whatsb-embedding-example/internal/token"
)

const issuerName = "oidc"

// Issuer obtains session tokens from widget vendors that expose a standard
// OAuth2 token endpoint instead of the bespoke secret-header API. The
// endpoint is located through OIDC discovery and called with the
// client-credentials grant; user claims ride along as extra form
// parameters. The resulting access token is treated as opaque, exactly
// like a remote-issued one.
type Issuer struct {
	conf *clientcredentials.Config
}

// New initializes the issuer using discovery. issuerURL must be the
// vendor's OIDC issuer, e.g. https://auth.widget-vendor.example/realms/embed
func New(
	ctx context.Context,
	issuerURL string,
	clientID string,
	clientSecret string,
) (*Issuer, error) {

	if issuerURL == "" || clientID == "" || clientSecret == "" {
		return nil, errors.New("oidc issuer config missing required fields")
	}

	provider, err := gooidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider: %w", err)
	}

	return &Issuer{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     provider.Endpoint().TokenURL,
		},
	}, nil
}

// Name returns the issuer identifier used by the registry.
func (i *Issuer) Name() string {
	return issuerName
}

func (i *Issuer) Issue(ctx context.Context, claims token.Claims) (*token.Result, error) {
	conf := *i.conf
	conf.EndpointParams = url.Values{
		"email": {claims.Email},
		"name":  {claims.Name},
		"role":  {string(claims.Role)},
	}

	tok, err := conf.Token(ctx)
	if err != nil {
		// the oauth2 error may embed the full token response; log it here
		// and hand the caller a generic failure so the client secret can
		// never travel upward
		logger.Error("oidc token request failed", map[string]any{
			"error": err.Error(),
		})
		return nil, errors.New("oidc token request failed")
	}

	if tok.AccessToken == "" {
		return nil, errors.New("oidc endpoint did not return access_token")
	}

	raw, err := json.Marshal(map[string]any{
		"token":      tok.AccessToken,
		"expires_at": tok.Expiry.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode token result: %w", err)
	}

	return &token.Result{Token: tok.AccessToken, Raw: raw}, nil
}
