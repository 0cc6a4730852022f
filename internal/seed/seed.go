// Package seed populates the store with randomized demo data. Generated
// orders and payments go through the same derivation rule as the runtime,
// so a seeded database satisfies every lifecycle invariant.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"pinguinamart/internal/models"
	"pinguinamart/internal/order"
	"pinguinamart/internal/repository"
)

const (
	userCount  = 20
	adminEmail = "admin@pinguinamart.com"
)

type Store struct {
	Products    repository.ProductRepository
	Users       repository.UserRepository
	Orders      repository.OrderRepository
	Reviews     repository.ReviewRepository
	Carts       repository.CartRepository
	Maintenance repository.MaintenanceRepository
}

type productSpec struct {
	name        string
	category    models.ProductCategory
	price       int64
	quantity    int
	description string
	image       string
}

var demoProducts = []productSpec{
	{"Men's Cotton T-Shirt", models.CategoryClothes, 1490, 100, "Soft cotton round-neck tee available in multiple colors", "tshirt.jpg"},
	{"Basmati Rice - 5kg", models.CategoryGroceries, 900, 50, "Premium quality basmati rice", "rice.jpg"},
	{"Wireless Headphones", models.CategoryElectronics, 3500, 30, "Noise cancelling wireless headphones", "headphones.jpg"},
	{"Running Shoes", models.CategoryShoes, 4500, 40, "Comfortable running shoes with cushioning", "shoes.jpg"},
	{"Coffee Table", models.CategoryFurniture, 6500, 15, "Modern wooden coffee table", "table.jpg"},
	{"Face Cream", models.CategoryBeauty, 1200, 60, "Moisturizing face cream", "cream.jpg"},
	{"Dog Food", models.CategoryPetSupplies, 1500, 45, "Nutritious dog food", "dogfood.jpg"},
	{"Programming Book", models.CategoryBooks, 1800, 25, "Guide to modern programming", "book.jpg"},
}

// Nepali mobile prefixes; the rest of the number is random digits.
var phonePrefixes = []string{"980", "981", "982", "984", "985", "986", "974", "975", "976", "988"}

// Run wipes the store and repopulates it. Re-running replaces the previous
// content wholesale, so the result is always a valid state regardless of
// how often it runs.
func Run(ctx context.Context, store Store) error {
	f := gofakeit.New(0)

	if err := store.Maintenance.ResetAll(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}

	productIDs, err := seedProducts(ctx, store)
	if err != nil {
		return err
	}

	for i := 0; i < userCount; i++ {
		if err := seedUser(ctx, store, f, productIDs); err != nil {
			return err
		}
	}

	if err := seedAdmin(ctx, store); err != nil {
		return err
	}

	log.Println("database seeded successfully")
	return nil
}

func seedProducts(ctx context.Context, store Store) ([]int, error) {
	ids := make([]int, 0, len(demoProducts))
	for _, spec := range demoProducts {
		product := &models.Product{
			Name:        spec.name,
			Category:    spec.category,
			Price:       decimal.NewFromInt(spec.price),
			Quantity:    spec.quantity,
			Description: spec.description,
			Image:       spec.image,
		}
		if err := store.Products.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", spec.name, err)
		}
		ids = append(ids, product.ProductID)
	}
	return ids, nil
}

func seedUser(ctx context.Context, store Store, f *gofakeit.Faker, productIDs []int) error {
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password(true, true, true, false, false, 12)), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         f.Name(),
		Email:        f.Email(),
		PasswordHash: string(hash),
		DOB:          f.DateRange(now.AddDate(-65, 0, 0), now.AddDate(-18, 0, 0)),
		CreatedAt:    f.DateRange(now.AddDate(0, -5, 0), now),
	}
	if err := store.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	orderCount := f.Number(1, 3)
	for j := 0; j < orderCount; j++ {
		if err := seedOrder(ctx, store, f, user, productIDs); err != nil {
			return err
		}
	}

	// 60% of users keep something in the cart.
	if chance(f, 60) {
		if err := seedCart(ctx, store, f, user.UserID, productIDs); err != nil {
			return err
		}
	}

	return nil
}

func seedOrder(ctx context.Context, store Store, f *gofakeit.Faker, user *models.User, productIDs []int) error {
	now := time.Now()
	createdAt := f.DateRange(user.CreatedAt, now)
	status := f.RandomString(orderStatusStrings())

	selected := pickProducts(f, productIDs, f.Number(1, 4))

	items := make([]models.OrderItem, 0, len(selected))
	for _, productID := range selected {
		product, err := store.Products.GetByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to load product %d: %w", productID, err)
		}
		quantity := f.Number(1, 3)
		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}

	o := &models.Order{
		UserID:    user.UserID,
		Location:  fmt.Sprintf("%s, %s", f.Street(), f.City()),
		Phone:     nepaliPhone(f),
		Status:    models.OrderStatus(status),
		CreatedAt: createdAt,
	}
	if err := store.Orders.Insert(ctx, o, items); err != nil {
		return fmt.Errorf("failed to seed order: %w", err)
	}

	// 70% of orders carry a payment. The proposed status is random but is
	// always passed through the derivation rule, so a CANCELLED order can
	// only ever hold a FAILED payment and REFUNDED only appears on
	// DELIVERED orders.
	if chance(f, 70) {
		proposed := models.PaymentStatus(f.RandomString(paymentStatusStrings()))
		payment := &models.Payment{
			TransactionID: uuid.NewString(),
			OrderID:       o.OrderID,
			Amount:        o.TotalAmount,
			Status:        order.DerivePaymentStatus(o.Status, proposed),
			CreatedAt:     f.DateRange(createdAt, now),
		}
		if err := store.Orders.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to seed payment: %w", err)
		}
	}

	// 50% of orders leave a review on one of their products.
	if chance(f, 50) {
		var image *string
		if chance(f, 30) {
			url := f.ImageURL(640, 480)
			image = &url
		}
		review := &models.Review{
			UserID:    user.UserID,
			ProductID: selected[f.Number(0, len(selected)-1)],
			Rating:    f.Number(1, 5),
			Comment:   f.Sentence(12),
			Image:     image,
			CreatedAt: f.DateRange(createdAt, now),
		}
		if err := store.Reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("failed to seed review: %w", err)
		}
	}

	return nil
}

func seedCart(ctx context.Context, store Store, f *gofakeit.Faker, userID int, productIDs []int) error {
	for _, productID := range pickProducts(f, productIDs, f.Number(1, 5)) {
		item := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  f.Number(1, 3),
		}
		if err := store.Carts.AddItem(ctx, item); err != nil {
			return fmt.Errorf("failed to seed cart item: %w", err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, store Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{
		Name:         "Admin User",
		Email:        adminEmail,
		PasswordHash: string(hash),
	}
	if err := store.Users.CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

func chance(f *gofakeit.Faker, percent int) bool {
	return f.Number(1, 100) <= percent
}

// pickProducts returns up to n distinct product ids.
func pickProducts(f *gofakeit.Faker, productIDs []int, n int) []int {
	ids := make([]int, len(productIDs))
	copy(ids, productIDs)
	f.ShuffleInts(ids)
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}

func nepaliPhone(f *gofakeit.Faker) string {
	prefix := f.RandomString(phonePrefixes)
	return prefix + f.DigitN(uint(10-len(prefix)))
}

func orderStatusStrings() []string {
	statuses := models.AllOrderStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func paymentStatusStrings() []string {
	statuses := models.AllPaymentStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
