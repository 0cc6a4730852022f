package order

import (
	"fmt"

	"pinguinamart/internal/models"
)

// ErrInvalidTransition reports an order status change the lifecycle does
// not allow.
type ErrInvalidTransition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid order transition %s -> %s", e.From, e.To)
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another. DELIVERED and CANCELLED are terminal.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DerivePaymentStatus is the single place payment status is reconciled
// with order status. It is applied at payment creation and at every later
// order status change:
//
//   - a CANCELLED order forces the payment to FAILED, whatever was proposed;
//   - REFUNDED is only reachable on a DELIVERED order and is coerced to
//     PAID otherwise;
//   - anything else passes through unchanged.
func DerivePaymentStatus(orderStatus models.OrderStatus, proposed models.PaymentStatus) models.PaymentStatus {
	if orderStatus == models.OrderCancelled {
		return models.PaymentFailed
	}
	if proposed == models.PaymentRefunded && orderStatus != models.OrderDelivered {
		return models.PaymentPaid
	}
	return proposed
}
