package issuer

import (
	"fmt"

	"github.com/whatsb/whatsb-embedding-example/internal/token"
)

// Registry holds all configured token issuers and allows lookup by issuer
// name. It performs no token logic itself.
type Registry struct {
	issuers map[string]token.Issuer
}

// NewRegistry registers the given issuers by name. Issuer names must be
// unique.
func NewRegistry(list ...token.Issuer) *Registry {
	m := make(map[string]token.Issuer)
	for _, i := range list {
		m[i.Name()] = i
	}
	return &Registry{issuers: m}
}

// Get returns the issuer by name or an error if not registered.
func (r *Registry) Get(name string) (token.Issuer, error) {
	i, ok := r.issuers[name]
	if !ok {
		return nil, fmt.Errorf("unknown token issuer: %s", name)
	}
	return i, nil
}
