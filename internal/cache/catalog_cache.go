package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

const notFoundMarker = "notfound"

// CachedProductRepository is a cache-aside wrapper around the real product
// repository. Listings are cached per category/sort combination (searches
// go straight to the database), details per product id. Redis being down
// only costs the cache: every error degrades to the database with a log
// line.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      5 * time.Minute,
	}
}

func detailKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func listKey(category models.ProductCategory, sort repository.PriceSort) string {
	return fmt.Sprintf("products:list:%s:%s", category, sort)
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	key := detailKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("Failed to unmarshal cached product (continuing with DB): %v", err)
			break
		}

		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("Redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, 1*time.Minute).Err(); setErr != nil {
				log.Printf("Failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		log.Printf("Failed to marshal product: %v", err)
		return product, nil
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		log.Printf("failed to cache product: %v", err)
	}

	return product, nil
}

func (c *CachedProductRepository) ListFiltered(ctx context.Context, filter repository.ProductFilter) ([]models.ProductSummary, error) {
	// Search terms are unbounded; caching them would just churn keys.
	if filter.Search != "" {
		return c.realRepo.ListFiltered(ctx, filter)
	}

	key := listKey(filter.Category, filter.PriceSort)

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var products []models.ProductSummary
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		log.Printf("Failed to unmarshal cached listing (continuing with DB): %v", err)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("Redis error (continuing with DB): %v", err)
	}

	products, err := c.realRepo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(products)
	if err != nil {
		log.Printf("failed to marshal products: %v", err)
	} else if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		log.Printf("failed to cache products: %v", err)
	}

	return products, nil
}

// invalidate drops the detail key and every listing combination the
// product could appear in: its own category and the unfiltered listing,
// across all three sort orders.
func (c *CachedProductRepository) invalidate(ctx context.Context, productID int, categories ...models.ProductCategory) {
	keys := []string{detailKey(productID)}

	sorts := []repository.PriceSort{
		repository.PriceSortNone,
		repository.PriceSortAsc,
		repository.PriceSortDesc,
	}
	categories = append(categories, "")
	for _, category := range categories {
		for _, sort := range sorts {
			keys = append(keys, listKey(category, sort))
		}
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Failed to invalidate product cache %d: %v", productID, err)
	}
}

// InvalidateProducts drops the detail keys for the given products along
// with every cached listing. Checkout decrements stock outside the catalog
// write path and cannot name the affected categories, so all listing
// combinations go.
func (c *CachedProductRepository) InvalidateProducts(ctx context.Context, productIDs []int) {
	categories := append(models.AllCategories(), "")
	sorts := []repository.PriceSort{
		repository.PriceSortNone,
		repository.PriceSortAsc,
		repository.PriceSortDesc,
	}

	keys := make([]string, 0, len(productIDs)+len(categories)*len(sorts))
	for _, id := range productIDs {
		keys = append(keys, detailKey(id))
	}
	for _, category := range categories {
		for _, sort := range sorts {
			keys = append(keys, listKey(category, sort))
		}
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Failed to invalidate products after stock change: %v", err)
	}
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, product.ProductID, product.Category)
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	oldProduct, err := c.realRepo.GetByID(ctx, product.ProductID)
	if err != nil {
		c.invalidate(ctx, product.ProductID, product.Category)
		return err
	}

	if err := c.realRepo.Update(ctx, product); err != nil {
		return err
	}

	c.invalidate(ctx, product.ProductID, product.Category, oldProduct.Category)
	return nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, id int) error {
	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		c.invalidate(ctx, id)
		return err
	}

	if err := c.realRepo.Delete(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx, id, product.Category)
	return nil
}
