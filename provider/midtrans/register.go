package midtrans

import "github.com/payfuse/payfuse/provider"

// Register Midtrans provider with the gateway registry
func init() {
	provider.Register("midtrans", NewProvider)
}
