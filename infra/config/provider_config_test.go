package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderConfig_LoadFromEnv(t *testing.T) {
	os.Setenv("TRIPAY_API_KEY", "tp-api-key")
	os.Setenv("TRIPAY_PRIVATE_KEY", "tp-private-key")
	os.Setenv("TRIPAY_MERCHANT_CODE", "T12345")
	os.Setenv("MIDTRANS_SERVER_KEY", "mt-server-key")
	os.Setenv("MIDTRANS_CLIENT_KEY", "mt-client-key")
	os.Setenv("MIDTRANS_MERCHANT_CODE", "M12345")
	defer func() {
		for _, key := range []string{
			"TRIPAY_API_KEY", "TRIPAY_PRIVATE_KEY", "TRIPAY_MERCHANT_CODE",
			"MIDTRANS_SERVER_KEY", "MIDTRANS_CLIENT_KEY", "MIDTRANS_MERCHANT_CODE",
		} {
			os.Unsetenv(key)
		}
	}()

	pc := NewProviderConfig()
	pc.LoadFromEnv()

	providers := pc.GetAvailableProviders()
	assert.Contains(t, providers, "tripay")
	assert.Contains(t, providers, "midtrans")
	assert.NotContains(t, providers, "paypal", "paypal has no credentials set")

	conf, err := pc.GetConfig("tripay")
	require.NoError(t, err)
	assert.Equal(t, "tp-api-key", conf["apiKey"])
	assert.Equal(t, "tp-private-key", conf["privateKey"])
	assert.Equal(t, "T12345", conf["merchantCode"])
	assert.Equal(t, tripayDefaultURL, conf["baseURL"], "base URL should default to sandbox")

	conf, err = pc.GetConfig("midtrans")
	require.NoError(t, err)
	assert.Equal(t, "mt-server-key", conf["apiKey"])
	assert.Equal(t, "mt-client-key", conf["privateKey"])
}

func TestProviderConfig_GetConfig_NotFound(t *testing.T) {
	pc := NewProviderConfig()

	_, err := pc.GetConfig("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no configuration found")
}

func TestProviderConfig_GetConfig_ReturnsCopy(t *testing.T) {
	os.Setenv("TRIPAY_API_KEY", "tp-api-key")
	defer os.Unsetenv("TRIPAY_API_KEY")

	pc := NewProviderConfig()
	pc.LoadFromEnv()

	conf, err := pc.GetConfig("tripay")
	require.NoError(t, err)
	conf["apiKey"] = "mutated"

	again, err := pc.GetConfig("tripay")
	require.NoError(t, err)
	assert.Equal(t, "tp-api-key", again["apiKey"], "stored credentials must not be mutable through the returned map")
}
