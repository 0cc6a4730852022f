package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pinguinamart/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to models.OrderStatus
	}{
		{models.OrderPending, models.OrderProcessing},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderProcessing, models.OrderShipped},
		{models.OrderProcessing, models.OrderCancelled},
		{models.OrderShipped, models.OrderDelivered},
	}

	allowedSet := make(map[[2]models.OrderStatus]bool)
	for _, tr := range allowed {
		allowedSet[[2]models.OrderStatus{tr.from, tr.to}] = true
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	// Everything not explicitly allowed is rejected, including self
	// transitions and anything out of a terminal state.
	for _, from := range models.AllOrderStatuses() {
		for _, to := range models.AllOrderStatuses() {
			if allowedSet[[2]models.OrderStatus{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, terminal := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled} {
		assert.True(t, terminal.IsTerminal())
		for _, to := range models.AllOrderStatuses() {
			assert.False(t, CanTransition(terminal, to))
		}
	}
}

func TestDerivePaymentStatus_CancelledForcesFailed(t *testing.T) {
	for _, proposed := range models.AllPaymentStatuses() {
		got := DerivePaymentStatus(models.OrderCancelled, proposed)
		assert.Equal(t, models.PaymentFailed, got, "proposed %s", proposed)
	}
}

func TestDerivePaymentStatus_RefundedRequiresDelivered(t *testing.T) {
	assert.Equal(t, models.PaymentRefunded,
		DerivePaymentStatus(models.OrderDelivered, models.PaymentRefunded))

	for _, status := range []models.OrderStatus{
		models.OrderPending,
		models.OrderProcessing,
		models.OrderShipped,
	} {
		got := DerivePaymentStatus(status, models.PaymentRefunded)
		assert.Equal(t, models.PaymentPaid, got, "order status %s", status)
	}
}

func TestDerivePaymentStatus_PassesThroughOtherwise(t *testing.T) {
	for _, orderStatus := range []models.OrderStatus{
		models.OrderPending,
		models.OrderProcessing,
		models.OrderShipped,
		models.OrderDelivered,
	} {
		for _, proposed := range []models.PaymentStatus{
			models.PaymentPending,
			models.PaymentPaid,
			models.PaymentFailed,
		} {
			assert.Equal(t, proposed, DerivePaymentStatus(orderStatus, proposed))
		}
	}
}
