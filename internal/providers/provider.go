// Package providers implements C5, the pluggable AuthProvider abstraction:
// a uniform interface over password, external-OAuth, and test-stub
// authentication, dispatched by a factory keyed on provider_id, grounded on
// the teacher's AuthService/CredentialService pairing
// (services/identify/services/auth_service.go, credential_service.go).
package providers

import (
	"context"

	"authd/internal/apperr"
	"authd/internal/model"
)

// AuthProvider is the trait every variant implements. Credentials and
// input are loosely typed maps because each variant's shape differs
// (identifier+password vs. external code vs. predetermined test id) and
// the factory boundary is what matters, per §4.5.
type AuthProvider interface {
	ID() string
	Authenticate(ctx context.Context, app *model.Application, cfg *model.AppProvider, credentials map[string]string) (*model.User, error)
	Register(ctx context.Context, app *model.Application, cfg *model.AppProvider, input map[string]string) (*model.User, error)
	Link(ctx context.Context, user *model.User, cfg *model.AppProvider, input map[string]string) (*model.Account, error)
}

// Registry is the factory mapping provider_id to a concrete AuthProvider.
type Registry struct {
	providers map[string]AuthProvider
}

// NewRegistry builds the registry. The test provider is only included when
// enableTest is true, matching §4.5's "feature-gated, never in production"
// requirement; gating happens here so a misconfigured production
// AppProvider row referencing "test" simply finds no provider.
func NewRegistry(password, wechat AuthProvider, test AuthProvider, enableTest bool) *Registry {
	r := &Registry{providers: map[string]AuthProvider{
		password.ID(): password,
		wechat.ID():   wechat,
	}}
	if enableTest && test != nil {
		r.providers[test.ID()] = test
	}
	return r
}

// Get resolves provider_id to a concrete implementation.
func (r *Registry) Get(providerID string) (AuthProvider, error) {
	p, ok := r.providers[providerID]
	if !ok {
		return nil, apperr.NotFound("provider", "unknown auth provider")
	}
	return p, nil
}
