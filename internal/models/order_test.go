package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quickbite/internal/models"
)

func TestCanTransitionTo(t *testing.T) {
	// Forward moves, including skips.
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusConfirmed))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusReady))
	assert.True(t, models.StatusConfirmed.CanTransitionTo(models.StatusPreparing))
	assert.True(t, models.StatusPreparing.CanTransitionTo(models.StatusCompleted))
	assert.True(t, models.StatusReady.CanTransitionTo(models.StatusCompleted))

	// Backward moves are rejected.
	assert.False(t, models.StatusReady.CanTransitionTo(models.StatusPreparing))
	assert.False(t, models.StatusConfirmed.CanTransitionTo(models.StatusPending))
	assert.False(t, models.StatusPreparing.CanTransitionTo(models.StatusPreparing))

	// Cancellation is allowed from any non-terminal state only.
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusReady.CanTransitionTo(models.StatusCancelled))
	assert.False(t, models.StatusCompleted.CanTransitionTo(models.StatusCancelled))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusCancelled))

	// Terminal states admit no moves at all.
	assert.False(t, models.StatusCompleted.CanTransitionTo(models.StatusReady))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusPending))
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := models.ParseOrderStatus("preparing")
	assert.True(t, ok)
	assert.Equal(t, models.StatusPreparing, status)

	_, ok = models.ParseOrderStatus("shipped")
	assert.False(t, ok)
	_, ok = models.ParseOrderStatus("")
	assert.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, models.StatusCompleted.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.False(t, models.StatusPending.IsTerminal())
	assert.False(t, models.StatusReady.IsTerminal())
}

func TestValidOrderPaymentMethod(t *testing.T) {
	assert.True(t, models.ValidOrderPaymentMethod("offline"))
	assert.True(t, models.ValidOrderPaymentMethod("razorpay"))
	assert.False(t, models.ValidOrderPaymentMethod("cheque"))
	assert.False(t, models.ValidOrderPaymentMethod(""))
}
