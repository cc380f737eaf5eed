package models

import (
	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// ProductVariant is a sellable variation of a product with its own price.
type ProductVariant struct {
	VariantID uuid.UUID   `json:"variantId"`
	Name      string      `json:"name"`
	Price     money.Money `json:"price"`
}

// ProductOption is a supplement the cashier can attach to a line.
type ProductOption struct {
	OptionID uuid.UUID   `json:"optionId"`
	Name     string      `json:"name"`
	Price    money.Money `json:"price"`
}

// Product is a catalog entry as served by the backend. Stock is advisory on
// the terminal; the backend re-checks it at order placement.
type Product struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	BasePrice  money.Money      `json:"basePrice"`
	CategoryID *uuid.UUID       `json:"categoryId,omitempty"`
	Stock      int              `json:"stock"`
	MediaURLs  []string         `json:"mediasUrls,omitempty"`
	Variants   []ProductVariant `json:"variants,omitempty"`
	Options    []ProductOption  `json:"options,omitempty"`
}

// Category groups catalog products for browsing.
type Category struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Order int       `json:"order"`
}
