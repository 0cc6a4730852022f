package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderPending,
		OrderProcessing,
		OrderShipped,
		OrderDelivered,
		OrderCancelled,
	}
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		PaymentPending,
		PaymentPaid,
		PaymentFailed,
		PaymentRefunded,
	}
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Order struct {
	OrderID     int             `json:"order_id"`
	UserID      int             `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Location    string          `json:"location"`
	Phone       string          `json:"phone"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItem carries the line total snapshotted at purchase time. Price is
// unit price times quantity and is never recomputed from the product row.
type OrderItem struct {
	OrderItemID int             `json:"order_item_id"`
	OrderID     int             `json:"order_id"`
	ProductID   int             `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Payment struct {
	PaymentID     int             `json:"payment_id"`
	TransactionID string          `json:"transaction_id"`
	OrderID       int             `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
