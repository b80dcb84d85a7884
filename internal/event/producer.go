package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Yangluigie/Reto-Factus/pkg/kafka"
	"github.com/Yangluigie/Reto-Factus/pkg/logger"
)

// Kafka topic constants for gateway audit events.
const (
	TopicAuthLoggedIn     = "gateway.auth.logged_in"
	TopicAuthLoggedOut    = "gateway.auth.logged_out"
	TopicInvoiceValidated = "gateway.invoice.validated"
)

// Aggregate type constants.
const (
	AggregateTypeSession = "session"
	AggregateTypeInvoice = "invoice"
)

// Source identifier for events originating from the gateway.
const SourceGateway = "invoice-gateway"

// LoggedInData is the payload for an auth.logged_in event.
type LoggedInData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// LoggedOutData is the payload for an auth.logged_out event.
type LoggedOutData struct {
	UserID string `json:"user_id"`
}

// InvoiceValidatedData is the payload for an invoice.validated event. The
// invoice body itself is not recorded; only who submitted it and through
// which provider.
type InvoiceValidatedData struct {
	UserID   string `json:"user_id"`
	Provider string `json:"provider"`
}

// Producer publishes gateway audit events to Kafka. Publishing is
// best-effort: callers log failures and carry on.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the gateway.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishLoggedIn publishes an auth.logged_in event.
func (p *Producer) PublishLoggedIn(ctx context.Context, userID, username string) error {
	return p.publish(ctx, TopicAuthLoggedIn, "auth.logged_in", userID, AggregateTypeSession, LoggedInData{
		UserID:   userID,
		Username: username,
	})
}

// PublishLoggedOut publishes an auth.logged_out event.
func (p *Producer) PublishLoggedOut(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicAuthLoggedOut, "auth.logged_out", userID, AggregateTypeSession, LoggedOutData{
		UserID: userID,
	})
}

// PublishInvoiceValidated publishes an invoice.validated event.
func (p *Producer) PublishInvoiceValidated(ctx context.Context, userID, providerName string) error {
	return p.publish(ctx, TopicInvoiceValidated, "invoice.validated", userID, AggregateTypeInvoice, InvoiceValidatedData{
		UserID:   userID,
		Provider: providerName,
	})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) error {
	e, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceGateway, data)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		e.WithCorrelationID(id)
	}

	return p.kafka.Publish(ctx, topic, e)
}
