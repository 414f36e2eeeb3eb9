package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatus_Transition(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusPaid, false},
		{StatusDraft, StatusOverdue, false},
		{StatusSent, StatusPaid, true},
		{StatusSent, StatusOverdue, true},
		{StatusSent, StatusDraft, true},
		{StatusOverdue, StatusPaid, true},
		{StatusOverdue, StatusDraft, false},
		{StatusPaid, StatusDraft, false},
		{StatusPaid, StatusPaid, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestInvoiceStatus_IsValid(t *testing.T) {
	assert.True(t, StatusOverdue.IsValid())
	assert.False(t, InvoiceStatus("void").IsValid())
}
