package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses {
		t.Run(string(s), func(t *testing.T) {
			assert.True(t, s.IsValid())
		})
	}

	assert.False(t, Status("delivered").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("PENDING").IsValid())
}

func TestStatus_CanCancel(t *testing.T) {
	tests := []struct {
		status    Status
		canCancel bool
	}{
		{StatusPending, true},
		{StatusProcessing, true},
		{StatusPaid, true},
		{StatusShipped, true},
		{StatusOnDelivery, true},
		{StatusInTransit, true},
		{StatusInCustoms, true},
		{StatusPendingPayment, true},
		{StatusOrderCancelRequest, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canCancel, tt.status.CanCancel())
		})
	}
}

func TestStatus_HasPendingCancellationRequest(t *testing.T) {
	for _, s := range AllStatuses {
		t.Run(string(s), func(t *testing.T) {
			assert.Equal(t, s == StatusOrderCancelRequest, s.HasPendingCancellationRequest())
		})
	}
}

func TestStatus_Label(t *testing.T) {
	tests := []struct {
		name           string
		acceptLanguage string
		status         Status
		want           string
	}{
		{"french default for empty header", "", StatusShipped, "Expédiée"},
		{"explicit french", "fr-FR,fr;q=0.9", StatusCancelled, "Annulée"},
		{"english", "en-US,en;q=0.8", StatusCancelled, "Cancelled"},
		{"unsupported language falls back to french", "de-DE", StatusPending, "En attente"},
		{"garbage header falls back to french", ";;;", StatusPaid, "Payée"},
		{"unknown status degrades to raw value", "fr", Status("mystery"), "mystery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Label(tt.acceptLanguage))
		})
	}
}
