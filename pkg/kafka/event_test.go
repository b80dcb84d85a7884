package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	data := map[string]string{"user_id": "u-1", "username": "alice"}

	e, err := NewEvent("auth.logged_in", "u-1", "session", "invoice-gateway", data)
	require.NoError(t, err)

	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, "auth.logged_in", e.EventType)
	assert.Equal(t, "u-1", e.AggregateID)
	assert.Equal(t, 1, e.Version)
	assert.False(t, e.Timestamp.IsZero())

	var decoded map[string]string
	require.NoError(t, e.UnmarshalData(&decoded))
	assert.Equal(t, data, decoded)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	e, err := NewEvent("invoice.validated", "INV-1", "invoice", "invoice-gateway", map[string]any{"id": "INV-1"})
	require.NoError(t, err)
	e.WithCorrelationID("corr-1")

	raw, err := e.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"correlation_id":"corr-1"`)
	assert.Contains(t, string(raw), `"event_type":"invoice.validated"`)
}
