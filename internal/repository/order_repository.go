package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pinguinamart/internal/models"
)

type orderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepo{db: db}
}

func validateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order must have at least one item", ErrInvalidInput)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if !item.Price.IsPositive() {
			return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
		}
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
		}
	}
	return nil
}

func itemsTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

func (r *orderRepo) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, payment *models.Payment) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}
	if order.UserID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}
	if order.Location == "" {
		return fmt.Errorf("%w: delivery location required", ErrInvalidInput)
	}
	if order.Phone == "" {
		return fmt.Errorf("%w: contact phone required", ErrInvalidInput)
	}
	if err := validateItems(items); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`SELECT user_id FROM users WHERE user_id = $1`,
		order.UserID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	productIDs := []int{}
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	rows, err := tx.Query(ctx,
		`SELECT product_id, quantity FROM products WHERE product_id = ANY($1::int[]) FOR UPDATE`,
		productIDs)
	if err != nil {
		return fmt.Errorf("failed to get products information: %w", err)
	}
	defer rows.Close()

	stock := make(map[int]int)
	for rows.Next() {
		var id, quantity int
		if err := rows.Scan(&id, &quantity); err != nil {
			return fmt.Errorf("failed to scan product data: %w", err)
		}
		stock[id] = quantity
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to complete row iteration: %w", err)
	}
	rows.Close()

	for _, item := range items {
		available, exist := stock[item.ProductID]
		if !exist {
			return fmt.Errorf("product %d not found: %w", item.ProductID, ErrNotFound)
		}
		if available < item.Quantity {
			return fmt.Errorf("%w: product %d in stock %d, requested %d",
				ErrNotEnough, item.ProductID, available, item.Quantity)
		}
	}

	// Total is derived from the snapshotted line totals and written with
	// the order shell, so no reader ever sees total = 0 alongside items.
	order.TotalAmount = itemsTotal(items)
	if !order.Status.IsValid() {
		order.Status = models.OrderPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, location, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_id`,
		order.UserID, order.TotalAmount, order.Location, order.Phone, order.Status, order.CreatedAt,
	).Scan(&order.OrderID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.OrderID

		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING order_item_id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].Price,
		).Scan(&items[i].OrderItemID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		result, err := tx.Exec(ctx,
			`UPDATE products SET quantity = quantity - $1, updated_at = $2 WHERE product_id = $3`,
			items[i].Quantity, time.Now(), items[i].ProductID)
		if err != nil {
			return fmt.Errorf("failed to update product %d: %w", items[i].ProductID, err)
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	if payment != nil {
		payment.OrderID = order.OrderID
		payment.Amount = order.TotalAmount
		if payment.CreatedAt.IsZero() {
			payment.CreatedAt = time.Now()
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO payments (transaction_id, order_id, amount, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING payment_id`,
			payment.TransactionID, payment.OrderID, payment.Amount, payment.Status, payment.CreatedAt,
		).Scan(&payment.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, order.UserID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *orderRepo) Insert(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}
	if order.UserID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}
	if !order.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, order.Status)
	}
	if err := validateItems(items); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order.TotalAmount = itemsTotal(items)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, location, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_id`,
		order.UserID, order.TotalAmount, order.Location, order.Phone, order.Status, order.CreatedAt,
	).Scan(&order.OrderID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.OrderID

		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING order_item_id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].Price,
		).Scan(&items[i].OrderItemID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int) (*models.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := `
		SELECT
			order_id,
			user_id,
			total_amount,
			location,
			phone,
			status,
			created_at
		FROM orders
		WHERE order_id = $1
	`

	var order models.Order

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&order.OrderID,
		&order.UserID,
		&order.TotalAmount,
		&order.Location,
		&order.Phone,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	return &order, nil
}

func (r *orderRepo) GetWithItems(ctx context.Context, id int) (*models.Order, []models.OrderItem, error) {
	if id <= 0 {
		return nil, nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := `
	SELECT
		o.order_id,
		o.user_id,
		o.total_amount,
		o.location,
		o.phone,
		o.status,
		o.created_at,
		oi.order_item_id,
		oi.product_id,
		oi.quantity,
		oi.price
	FROM orders o
	LEFT JOIN order_items oi ON o.order_id = oi.order_id
	WHERE o.order_id = $1
	ORDER BY oi.order_item_id
	`

	rows, err := r.db.Query(ctx, sql, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order with items %d: %w", id, err)
	}
	defer rows.Close()

	var order *models.Order
	var items []models.OrderItem
	var orderFound bool

	for rows.Next() {
		var currentOrder models.Order
		var orderItemID pgtype.Int4
		var productID pgtype.Int4
		var quantity pgtype.Int4
		var price decimal.NullDecimal

		err := rows.Scan(
			&currentOrder.OrderID,
			&currentOrder.UserID,
			&currentOrder.TotalAmount,
			&currentOrder.Location,
			&currentOrder.Phone,
			&currentOrder.Status,
			&currentOrder.CreatedAt,
			&orderItemID,
			&productID,
			&quantity,
			&price,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scan order/item: %w", err)
		}
		if !orderFound {
			order = &currentOrder
			orderFound = true
		}
		if orderItemID.Valid {
			items = append(items, models.OrderItem{
				OrderItemID: int(orderItemID.Int32),
				OrderID:     currentOrder.OrderID,
				ProductID:   int(productID.Int32),
				Quantity:    int(quantity.Int32),
				Price:       price.Decimal,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration: %w", err)
	}

	if !orderFound {
		return nil, nil, ErrNotFound
	}

	return order, items, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	if id <= 0 {
		return fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	if paymentStatus != "" && !paymentStatus.IsValid() {
		return fmt.Errorf("%w: invalid payment status %q", ErrInvalidInput, paymentStatus)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE order_id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update status order %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Empty payment status means the order has no payment to keep in step.
	if paymentStatus != "" {
		_, err = tx.Exec(ctx,
			`UPDATE payments SET status = $1 WHERE order_id = $2`,
			paymentStatus, id)
		if err != nil {
			return fmt.Errorf("update payment status for order %d: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *orderRepo) GetPaymentByOrder(ctx context.Context, orderID int) (*models.Payment, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	return r.getPayment(ctx,
		`SELECT payment_id, transaction_id, order_id, amount, status, created_at
		FROM payments WHERE order_id = $1`,
		orderID)
}

func (r *orderRepo) GetPaymentByTransaction(ctx context.Context, transactionID string) (*models.Payment, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction ID cannot be empty", ErrInvalidInput)
	}

	return r.getPayment(ctx,
		`SELECT payment_id, transaction_id, order_id, amount, status, created_at
		FROM payments WHERE transaction_id = $1`,
		transactionID)
}

func (r *orderRepo) getPayment(ctx context.Context, sql string, arg interface{}) (*models.Payment, error) {
	var payment models.Payment

	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&payment.PaymentID,
		&payment.TransactionID,
		&payment.OrderID,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

func (r *orderRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment == nil {
		return fmt.Errorf("%w: payment cannot be nil", ErrInvalidInput)
	}
	if payment.TransactionID == "" {
		return fmt.Errorf("%w: transaction ID cannot be empty", ErrInvalidInput)
	}
	if payment.OrderID <= 0 {
		return fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}
	if !payment.Status.IsValid() {
		return fmt.Errorf("%w: invalid payment status %q", ErrInvalidInput, payment.Status)
	}

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO payments (transaction_id, order_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id`,
		payment.TransactionID, payment.OrderID, payment.Amount, payment.Status, payment.CreatedAt,
	).Scan(&payment.PaymentID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment already exists for order %d", ErrDuplicate, payment.OrderID)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}
