package provider

import (
	"context"
	"encoding/json"
)

// Provider defines the interface for electronic invoicing provider
// integrations. The gateway does not interpret invoice payloads; their
// schema is owned by the provider.
type Provider interface {
	// Name returns the provider name (e.g. "factus").
	Name() string

	// Token returns a currently valid bearer token for the provider API,
	// refreshing the cached credential only when it has expired.
	Token(ctx context.Context) (string, error)

	// ValidateInvoice forwards the opaque invoice payload to the provider's
	// validation endpoint and returns the provider's response body verbatim.
	ValidateInvoice(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}
