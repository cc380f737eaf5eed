package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/pagination"
)

// ProductFilter narrows a catalog page.
type ProductFilter struct {
	CategoryID string
	Search     string
	Page       pagination.Params
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ListProducts fetches a filtered catalog page.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	page := filter.Page.Normalized()
	query := url.Values{
		"page":  {strconv.Itoa(page.Page)},
		"limit": {strconv.Itoa(page.Limit)},
	}
	if filter.CategoryID != "" {
		query.Set("categoryId", filter.CategoryID)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var result ProductPage
	if err := c.do(ctx, "products.list", http.MethodGet, "/products", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCategories fetches the catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, "categories.list", http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListPaymentMethods fetches the tender types the store has enabled.
func (c *Client) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethodInfo, error) {
	var methods []models.PaymentMethodInfo
	if err := c.do(ctx, "paymentMethods.list", http.MethodGet, "/payment-methods", nil, nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}
