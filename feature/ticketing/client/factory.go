package client

import (
	"fmt"
	"time"

	"stagesync/feature/ticketing/models"
)

// ProviderType describes one supported vendor type for configuration UIs.
type ProviderType struct {
	Tag         string `json:"tag"`
	DisplayName string `json:"display_name"`
}

// builder constructs a client for a provider. Construction is pure; all I/O
// happens on client method calls.
type builder func(p *models.Provider, timeout time.Duration) Client

type registration struct {
	providerType ProviderType
	build        builder
}

// Factory maps provider type tags to concrete client implementations.
type Factory struct {
	registry []registration
	timeout  time.Duration
}

// NewFactory creates a factory with all supported vendor types registered.
// timeout bounds every network call made by the built clients.
func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	f := &Factory{timeout: timeout}
	f.register(ProviderType{Tag: TypeREST, DisplayName: "Generic REST API"}, newRESTClient)
	f.register(ProviderType{Tag: TypeSandbox, DisplayName: "Sandbox (testing)"}, newSandboxClient)
	return f
}

func (f *Factory) register(pt ProviderType, b builder) {
	f.registry = append(f.registry, registration{providerType: pt, build: b})
}

// AvailableProviders returns the supported vendor types in registration
// order, for configuration UIs.
func (f *Factory) AvailableProviders() []ProviderType {
	types := make([]ProviderType, 0, len(f.registry))
	for _, r := range f.registry {
		types = append(types, r.providerType)
	}
	return types
}

// Build returns the client for the provider's type tag.
func (f *Factory) Build(p *models.Provider) (Client, error) {
	for _, r := range f.registry {
		if r.providerType.Tag == p.ProviderType {
			return r.build(p, f.timeout), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProviderType, p.ProviderType)
}
