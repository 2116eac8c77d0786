package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRequest(t *testing.T) {
	tests := []struct {
		name   string
		kind   RequestKind
		reason string
		want   RequestKind
	}{
		{"explicit refund kind wins", RequestKindRefund, "changed my mind", RequestKindRefund},
		{"explicit cancellation kind wins over reason", RequestKindCancellation, "REFUND please", RequestKindCancellation},
		{"legacy refund marker in reason", "", "REFUND - item arrived damaged", RequestKindRefund},
		{"legacy marker is case sensitive", "", "please refund me", RequestKindCancellation},
		{"no kind, plain reason", "", "ordered by mistake", RequestKindCancellation},
		{"no kind, empty reason", "", "", RequestKindCancellation},
		{"unknown kind falls back to reason", RequestKind("other"), "REFUND", RequestKindRefund},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRequest(tt.kind, tt.reason))
		})
	}
}

func TestResolution_IsValid(t *testing.T) {
	assert.True(t, ResolutionApprove.IsValid())
	assert.True(t, ResolutionReject.IsValid())
	assert.False(t, Resolution("cancel").IsValid())
	assert.False(t, Resolution("").IsValid())
}

func TestValidateNote(t *testing.T) {
	note, err := ValidateNote("  customer called back  ")
	require.NoError(t, err)
	assert.Equal(t, "customer called back", note)

	_, err = ValidateNote("   ")
	require.Error(t, err)

	_, err = ValidateNote("")
	require.Error(t, err)
}

func TestDocumentKind_IsValid(t *testing.T) {
	for _, k := range AllDocumentKinds {
		assert.True(t, k.IsValid(), string(k))
	}
	assert.False(t, DocumentKind("receipt").IsValid())
}

func TestEmailKind_IsValid(t *testing.T) {
	for _, k := range AllEmailKinds {
		assert.True(t, k.IsValid(), string(k))
	}
	assert.False(t, EmailKind("welcome").IsValid())
}
