package tripay

import "github.com/payfuse/payfuse/provider"

// Register Tripay provider with the gateway registry
func init() {
	provider.Register("tripay", NewProvider)
}
