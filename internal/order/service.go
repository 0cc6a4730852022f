package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

// ErrPaymentNotConfirmed is returned when the gateway reports anything
// other than a completed payment matching the order total.
var ErrPaymentNotConfirmed = errors.New("payment not confirmed by gateway")

type CheckoutInput struct {
	UserID   int
	Location string
	Phone    string
}

// Service is the order/payment lifecycle manager. Every write that touches
// order or payment status goes through it so the derivation rule in
// DerivePaymentStatus is applied exactly once, in one place.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, *models.Payment, error)
	GetOrder(ctx context.Context, orderID int) (*models.Order, []models.OrderItem, *models.Payment, error)
	UpdateStatus(ctx context.Context, orderID int, next models.OrderStatus) error
	ConfirmPayment(ctx context.Context, encodedToken string) (*models.Order, error)
}

// ProductCacheInvalidator drops cached catalog entries for products whose
// stock changed outside the catalog write path. Nil means no cache is in
// play.
type ProductCacheInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs []int)
}

func NewService(orders repository.OrderRepository, carts repository.CartRepository, cache ProductCacheInvalidator) Service {
	return &service{orders: orders, carts: carts, cache: cache}
}

type service struct {
	orders repository.OrderRepository
	carts  repository.CartRepository
	cache  ProductCacheInvalidator
}

// Checkout turns the user's cart into an order. Prices are snapshotted
// from the current product rows; the order, its items, the stock decrement,
// the pending payment and the cart cleanup commit as one transaction.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, *models.Payment, error) {
	if input.Location == "" {
		return nil, nil, fmt.Errorf("%w: delivery location required", repository.ErrInvalidInput)
	}
	if input.Phone == "" {
		return nil, nil, fmt.Errorf("%w: contact phone required", repository.ErrInvalidInput)
	}

	lines, err := s.carts.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: cart is empty", repository.ErrInvalidInput)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	order := &models.Order{
		UserID:   input.UserID,
		Location: input.Location,
		Phone:    input.Phone,
		Status:   models.OrderPending,
	}
	payment := &models.Payment{
		TransactionID: uuid.NewString(),
		Status:        DerivePaymentStatus(order.Status, models.PaymentPending),
	}

	if err := s.orders.PlaceOrder(ctx, order, items, payment); err != nil {
		return nil, nil, err
	}

	// Stock just dropped; sold-out products must leave the cached listings
	// immediately, not after the TTL.
	if s.cache != nil {
		ids := make([]int, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		s.cache.InvalidateProducts(ctx, ids)
	}

	return order, payment, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int) (*models.Order, []models.OrderItem, *models.Payment, error) {
	order, items, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	payment, err := s.orders.GetPaymentByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, nil, err
	}

	return order, items, payment, nil
}

// UpdateStatus validates the transition against the lifecycle machine and
// re-derives the payment status so the two can never drift apart.
func (s *service) UpdateStatus(ctx context.Context, orderID int, next models.OrderStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: invalid status %q", repository.ErrInvalidInput, next)
	}

	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !CanTransition(current.Status, next) {
		return fmt.Errorf("%w: %s", repository.ErrInvalidInput,
			ErrInvalidTransition{From: current.Status, To: next})
	}

	paymentStatus, err := s.derivedPaymentStatus(ctx, orderID, next)
	if err != nil {
		return err
	}

	return s.orders.UpdateStatus(ctx, orderID, next, paymentStatus)
}

// derivedPaymentStatus re-runs the derivation rule against the order's
// payment, if it has one. Empty result means there is no payment row.
func (s *service) derivedPaymentStatus(ctx context.Context, orderID int, next models.OrderStatus) (models.PaymentStatus, error) {
	payment, err := s.orders.GetPaymentByOrder(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return DerivePaymentStatus(next, payment.Status), nil
}

// ConfirmPayment handles the gateway's success redirect: decode the token,
// match it to the pending payment, and settle both payment and order. A
// rejected or mismatched confirmation marks the payment FAILED and returns
// ErrPaymentNotConfirmed; there is no retry.
func (s *service) ConfirmPayment(ctx context.Context, encodedToken string) (*models.Order, error) {
	result, err := DecodeGatewayToken(encodedToken)
	if err != nil {
		return nil, err
	}

	payment, err := s.orders.GetPaymentByTransaction(ctx, result.TransactionUUID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	amount, err := result.Amount()
	if err != nil {
		return nil, err
	}

	if result.Status != gatewayStatusComplete || !amount.Equal(order.TotalAmount) {
		failed := DerivePaymentStatus(order.Status, models.PaymentFailed)
		if err := s.orders.UpdateStatus(ctx, order.OrderID, order.Status, failed); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: gateway status %q, amount %s", ErrPaymentNotConfirmed,
			result.Status, result.TotalAmount)
	}

	next := order.Status
	if CanTransition(order.Status, models.OrderProcessing) {
		next = models.OrderProcessing
	}

	// The derivation can refuse the PAID proposal, e.g. when the order was
	// cancelled while the customer sat on the gateway page. Persist what it
	// decided and report the confirmation as failed.
	settled := DerivePaymentStatus(next, models.PaymentPaid)
	if err := s.orders.UpdateStatus(ctx, order.OrderID, next, settled); err != nil {
		return nil, err
	}
	if settled != models.PaymentPaid {
		return nil, fmt.Errorf("%w: order is %s", ErrPaymentNotConfirmed, order.Status)
	}

	order.Status = next
	return order, nil
}
