package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		eventType Type
		want      bool
	}{
		{TypeStockSynced, true},
		{TypeStockSyncFailed, true},
		{TypeBillTotaled, true},
		{Type("instance.created"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.eventType.IsValid())
		})
	}
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(TypeStockSynced, "Acme", map[string]interface{}{KeyItemCount: 3})

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, evt.ID, evt.CorrelationID)
	assert.Equal(t, "Acme", evt.Company)
	assert.False(t, evt.Timestamp.IsZero())
	assert.Equal(t, int64(3), evt.GetPayloadInt(KeyItemCount))

	other := NewEvent(TypeStockSynced, "Acme", nil)
	assert.NotEqual(t, evt.ID, other.ID)
}

func TestNewEventWithCorrelation(t *testing.T) {
	evt := NewEventWithCorrelation(TypeStockSyncFailed, "Acme", nil, "run-1")

	assert.Equal(t, "run-1", evt.CorrelationID)
	assert.NotEqual(t, "run-1", evt.ID)
}

func TestEvent_WithPayloadIsImmutable(t *testing.T) {
	evt := NewEvent(TypeBillTotaled, "", map[string]interface{}{KeyLineCount: 2})

	updated := evt.WithPayload(KeyRoundedTotal, "1168")

	assert.Equal(t, "", evt.GetPayloadString(KeyRoundedTotal))
	assert.Equal(t, "1168", updated.GetPayloadString(KeyRoundedTotal))
	assert.Equal(t, int64(2), updated.GetPayloadInt(KeyLineCount))
	assert.Equal(t, evt.ID, updated.ID)
}

func TestEvent_PayloadGettersTolerateMissingKeys(t *testing.T) {
	evt := NewEvent(TypeStockSynced, "Acme", nil)

	assert.Equal(t, "", evt.GetPayloadString("missing"))
	assert.Equal(t, int64(0), evt.GetPayloadInt("missing"))
	assert.Equal(t, int64(7), evt.WithPayload("n", 7.0).GetPayloadInt("n"))
}
