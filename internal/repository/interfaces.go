package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"pinguinamart/internal/models"
)

type PriceSort string

const (
	PriceSortNone PriceSort = ""
	PriceSortAsc  PriceSort = "asc"
	PriceSortDesc PriceSort = "desc"
)

// ProductFilter narrows a catalog listing. Zero values mean "no restriction".
type ProductFilter struct {
	Search    string
	Category  models.ProductCategory
	PriceSort PriceSort
}

// CartLine is a cart row joined with the current product record, which is
// what checkout needs to snapshot prices and check stock.
type CartLine struct {
	CartItemID  int
	UserID      int
	ProductID   int
	Quantity    int
	ProductName string
	UnitPrice   decimal.Decimal
	InStock     int
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int) (*models.Product, error)
	ListFiltered(ctx context.Context, filter ProductFilter) ([]models.ProductSummary, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateAdmin(ctx context.Context, admin *models.Admin) error
}

type CartRepository interface {
	AddItem(ctx context.Context, item *models.CartItem) error
	ListByUser(ctx context.Context, userID int) ([]CartLine, error)
	RemoveItem(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
}

type OrderRepository interface {
	// PlaceOrder runs the whole checkout write in one transaction: order
	// shell with its final total, items, stock decrement, payment row and
	// cart cleanup all commit or roll back together.
	PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, payment *models.Payment) error
	// Insert writes an order and its items without touching stock or the
	// cart. Used by demo-data seeding.
	Insert(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetWithItems(ctx context.Context, id int) (*models.Order, []models.OrderItem, error)
	// UpdateStatus writes the order status and the (possibly absent)
	// payment status in the same transaction.
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus, paymentStatus models.PaymentStatus) error
	GetPaymentByOrder(ctx context.Context, orderID int) (*models.Payment, error)
	GetPaymentByTransaction(ctx context.Context, transactionID string) (*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByProduct(ctx context.Context, productID int) ([]models.ReviewWithAuthor, error)
	Aggregate(ctx context.Context, productID int) (models.ReviewAggregate, error)
}

type MaintenanceRepository interface {
	// ResetAll deletes every row in foreign-key dependency order.
	ResetAll(ctx context.Context) error
}
