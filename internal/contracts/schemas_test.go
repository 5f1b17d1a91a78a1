package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"flight-monitor-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() domain.DealsFoundEvent {
	return domain.DealsFoundEvent{
		RunID:          uuid.New(),
		Route:          "HYD -> VNS",
		DateRangeStart: "2026-02-01",
		DateRangeEnd:   "2026-02-15",
		Passengers:     5,
		MaxPrice:       1000,
		Currency:       "INR",
		DealsCount:     7,
		CheapestPrice:  420,
		CheapestDate:   "2026-02-03",
		CompletedAt:    time.Now().UTC(),
	}
}

func TestValidateEvent_DealsFound(t *testing.T) {
	body, err := json.Marshal(validEvent())
	require.NoError(t, err)

	assert.NoError(t, ValidateEvent("DealsFoundEvent", "1.0.0", body))
}

func TestValidateEvent_NoDealsOmitsCheapest(t *testing.T) {
	event := validEvent()
	event.DealsCount = 0
	event.CheapestPrice = 0
	event.CheapestDate = ""

	body, err := json.Marshal(event)
	require.NoError(t, err)

	assert.NoError(t, ValidateEvent("DealsFoundEvent", "1.0.0", body))
}

func TestValidateEvent_RejectsMissingFields(t *testing.T) {
	err := ValidateEvent("DealsFoundEvent", "1.0.0", []byte(`{"route":"HYD -> VNS"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateEvent_RejectsUnknownSchema(t *testing.T) {
	err := ValidateEvent("UnknownEvent", "1.0.0", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateEvent_RejectsBrokenJSON(t *testing.T) {
	err := ValidateEvent("DealsFoundEvent", "1.0.0", []byte(`{broken`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid JSON")
}
