package statemachine

import (
	"testing"

	"mealmatch/models"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{"pending_to_confirmed", models.StatusPending, models.StatusConfirmed, true},
		{"pending_to_cancelled", models.StatusPending, models.StatusCancelled, true},
		{"confirmed_to_delivered", models.StatusConfirmed, models.StatusDelivered, true},
		{"confirmed_to_cancelled", models.StatusConfirmed, models.StatusCancelled, true},
		{"pending_to_delivered_skips_confirmation", models.StatusPending, models.StatusDelivered, false},
		{"confirmed_to_pending_reverts", models.StatusConfirmed, models.StatusPending, false},
		{"delivered_is_terminal", models.StatusDelivered, models.StatusCancelled, false},
		{"cancelled_is_terminal", models.StatusCancelled, models.StatusConfirmed, false},
		{"cancelled_to_pending", models.StatusCancelled, models.StatusPending, false},
		{"self_transition", models.StatusPending, models.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	require.ElementsMatch(t,
		[]models.OrderStatus{models.StatusConfirmed, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusPending))
	require.ElementsMatch(t,
		[]models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusConfirmed))
	require.Empty(t, ValidTransitionsFrom(models.StatusDelivered))
	require.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
}

func TestIsTerminal(t *testing.T) {
	require.False(t, IsTerminal(models.StatusPending))
	require.False(t, IsTerminal(models.StatusConfirmed))
	require.True(t, IsTerminal(models.StatusDelivered))
	require.True(t, IsTerminal(models.StatusCancelled))
}
