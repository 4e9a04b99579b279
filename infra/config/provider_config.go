package config

import (
	"fmt"
	"sync"
)

// Sandbox base URLs used when no override is configured.
const (
	tripayDefaultURL   = "https://tripay.co.id/api-sandbox"
	midtransDefaultURL = "https://api.sandbox.midtrans.com"
	paypalDefaultURL   = "https://api-m.sandbox.paypal.com"
)

// ProviderConfig manages payment provider credentials loaded from the
// environment. Credentials are read once and never mutated afterwards.
type ProviderConfig struct {
	configs map[string]map[string]string
	mu      sync.RWMutex
}

// NewProviderConfig creates a new provider configuration
func NewProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		configs: make(map[string]map[string]string),
	}
}

// LoadFromEnv reads credentials for every known provider. A provider is
// registered only when its required secrets are present.
func (c *ProviderConfig) LoadFromEnv() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if apiKey := GetEnv("TRIPAY_API_KEY", ""); apiKey != "" {
		c.configs["tripay"] = map[string]string{
			"apiKey":       apiKey,
			"privateKey":   GetEnv("TRIPAY_PRIVATE_KEY", ""),
			"merchantCode": GetEnv("TRIPAY_MERCHANT_CODE", ""),
			"baseURL":      GetEnv("TRIPAY_API_URL", tripayDefaultURL),
		}
	}

	if serverKey := GetEnv("MIDTRANS_SERVER_KEY", ""); serverKey != "" {
		c.configs["midtrans"] = map[string]string{
			"apiKey":       serverKey,
			"privateKey":   GetEnv("MIDTRANS_CLIENT_KEY", ""),
			"merchantCode": GetEnv("MIDTRANS_MERCHANT_CODE", ""),
			"baseURL":      GetEnv("MIDTRANS_API_URL", midtransDefaultURL),
		}
	}

	if clientID := GetEnv("PAYPAL_CLIENT_ID", ""); clientID != "" {
		c.configs["paypal"] = map[string]string{
			"clientId":     clientID,
			"clientSecret": GetEnv("PAYPAL_CLIENT_SECRET", ""),
			"baseURL":      GetEnv("PAYPAL_API_URL", paypalDefaultURL),
		}
	}
}

// GetConfig returns the credential map for a provider
func (c *ProviderConfig) GetConfig(providerName string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conf, exists := c.configs[providerName]
	if !exists {
		return nil, fmt.Errorf("no configuration found for provider: %s", providerName)
	}

	// Copy so callers cannot mutate the stored credentials
	result := make(map[string]string, len(conf))
	for k, v := range conf {
		result[k] = v
	}
	return result, nil
}

// GetAvailableProviders returns the names of all configured providers
func (c *ProviderConfig) GetAvailableProviders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.configs))
	for name := range c.configs {
		names = append(names, name)
	}
	return names
}
