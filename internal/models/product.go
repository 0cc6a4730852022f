package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory string

const (
	CategoryShoes       ProductCategory = "SHOES"
	CategoryElectronics ProductCategory = "ELECTRONICS"
	CategoryClothes     ProductCategory = "CLOTHES"
	CategoryGroceries   ProductCategory = "GROCERIES"
	CategoryBooks       ProductCategory = "BOOKS"
	CategoryFurniture   ProductCategory = "FURNITURE"
	CategoryBeauty      ProductCategory = "BEAUTY"
	CategoryPetSupplies ProductCategory = "PETSUPPLIES"
)

func AllCategories() []ProductCategory {
	return []ProductCategory{
		CategoryShoes,
		CategoryElectronics,
		CategoryClothes,
		CategoryGroceries,
		CategoryBooks,
		CategoryFurniture,
		CategoryBeauty,
		CategoryPetSupplies,
	}
}

func (c ProductCategory) IsValid() bool {
	for _, v := range AllCategories() {
		if c == v {
			return true
		}
	}
	return false
}

type Product struct {
	ProductID   int             `json:"product_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Category    ProductCategory `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductSummary is the listing shape: what a catalog page needs and nothing more.
type ProductSummary struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  ProductCategory `json:"category"`
}
