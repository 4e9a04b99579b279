package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Provider packages contribute their constructors from init, so importing a
// provider package is what makes it routable. Construction and credentials
// are separate steps: a registered name only becomes servable once
// AddProvider initializes it with a credential map.
var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]ProviderFactory)
)

// Register makes a provider constructor available under name. Later
// registrations for the same name replace earlier ones.
func Register(name string, factory ProviderFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// RegisteredProviders lists every name a constructor exists for, sorted,
// whether or not credentials were configured for it.
func RegisteredProviders() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaymentService routes requests to the providers that were both registered
// and credentialed. Each provider carries its own callback mode and signing
// key, so the service needs no per-provider knowledge beyond the name.
type PaymentService struct {
	providers map[string]PaymentProvider
	mu        sync.RWMutex
}

// NewPaymentService creates an empty payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		providers: make(map[string]PaymentProvider),
	}
}

// AddProvider constructs the registered provider, initializes it with the
// given credentials and makes it available for request routing.
func (s *PaymentService) AddProvider(name string, conf map[string]string) error {
	factoriesMu.RLock()
	factory, exists := factories[name]
	factoriesMu.RUnlock()
	if !exists {
		return fmt.Errorf("payment provider '%s' has no registered constructor", name)
	}

	p := factory()
	if err := p.Initialize(conf); err != nil {
		return fmt.Errorf("failed to initialize provider %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[name] = p

	return nil
}

// GetProvider returns an initialized provider by name
func (s *PaymentService) GetProvider(name string) (PaymentProvider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.providers[name]
	if !exists {
		return nil, fmt.Errorf("payment provider '%s' is not configured", name)
	}
	return p, nil
}

// AvailableProviders returns the names of all configured providers
func (s *PaymentService) AvailableProviders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}
