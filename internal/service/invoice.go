package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Yangluigie/Reto-Factus/internal/event"
	"github.com/Yangluigie/Reto-Factus/internal/provider"
)

// InvoiceService passes invoice payloads through to the invoicing provider.
// It holds no invoice state: validation, tax logic, and the payload schema
// belong to the provider.
type InvoiceService struct {
	provider provider.Provider
	producer *event.Producer
	logger   *slog.Logger
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(prov provider.Provider, producer *event.Producer, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{
		provider: prov,
		producer: producer,
		logger:   logger,
	}
}

// CreateInvoice forwards the opaque payload to the provider's validation
// endpoint on behalf of userID and relays the provider's response verbatim.
// All-or-nothing: a credential failure aborts before the payload is sent,
// and no retry is attempted on any failure.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, payload json.RawMessage) (json.RawMessage, error) {
	result, err := s.provider.ValidateInvoice(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("validate invoice: %w", err)
	}

	// Publish audit event (non-blocking on failure).
	if err := s.producer.PublishInvoiceValidated(ctx, userID, s.provider.Name()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish invoice.validated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "invoice validated by provider",
		slog.String("user_id", userID),
		slog.String("provider", s.provider.Name()),
	)

	return result, nil
}

// ProviderToken exposes the current provider access token, refreshing it if
// needed. Serves the diagnostic authenticate endpoint.
func (s *InvoiceService) ProviderToken(ctx context.Context) (string, error) {
	return s.provider.Token(ctx)
}
