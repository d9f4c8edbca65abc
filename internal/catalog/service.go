package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Duc13022005/Web-Shop/pkg/api"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
)

// Product mirrors the backend's product representation. Image references
// are rewritten to absolute URLs before a product leaves this package.
type Product struct {
	ID             int64            `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	CategoryID     *int64           `json:"category_id"`
	CategoryName   *string          `json:"category_name"`
	BasePrice      decimal.Decimal  `json:"base_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	CurrentPrice   decimal.Decimal  `json:"current_price"`
	Unit           string           `json:"unit"`
	ImagePath      string           `json:"image_path"`
	Images         []string         `json:"images"`
	Specifications map[string]any   `json:"specifications"`
	AvailableStock int              `json:"available_stock"`
	IsActive       bool             `json:"is_active"`
}

// EffectivePrice is the unit price after the optional sale override.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.BasePrice) {
		return *p.SalePrice
	}
	return p.BasePrice
}

type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImagePath    string    `json:"image_path"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductPage is the backend's paginated product listing.
type ProductPage struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

type ListParams struct {
	CategoryID int64
	Search     string
	Page       int
	Size       int
}

type categoryListResponse struct {
	Items []Category `json:"items"`
	Total int        `json:"total"`
}

// Service wraps the product and category endpoints.
type Service struct {
	client     *api.Client
	uploadsURL string
}

func NewService(client *api.Client, uploadsURL string) *Service {
	return &Service{
		client:     client,
		uploadsURL: strings.TrimRight(uploadsURL, "/"),
	}
}

// List fetches a product page with optional category, search and paging
// filters.
func (s *Service) List(ctx context.Context, params ListParams) (*ProductPage, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service not configured")
	}

	query := url.Values{}
	if params.CategoryID > 0 {
		query.Set("category_id", strconv.FormatInt(params.CategoryID, 10))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		query.Set("search", search)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}

	path := api.EndpointProducts
	if encoded := query.Encode(); encoded != "" {
		path = fmt.Sprintf("%s?%s", path, encoded)
	}

	var page ProductPage
	if err := s.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	for i := range page.Items {
		s.normalizeProduct(&page.Items[i])
	}
	return &page, nil
}

// GetByID fetches one product and normalizes its image references so the
// result is directly renderable.
func (s *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service not configured")
	}

	var product Product
	if err := s.client.Get(ctx, api.ProductPath(id), &product); err != nil {
		return nil, err
	}
	s.normalizeProduct(&product)
	return &product, nil
}

// Categories fetches all categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service not configured")
	}

	var resp categoryListResponse
	if err := s.client.Get(ctx, api.EndpointCategories, &resp); err != nil {
		return nil, err
	}
	categories := resp.Items
	if categories == nil {
		categories = []Category{}
	}
	for i := range categories {
		categories[i].ImagePath = AbsoluteImageURL(s.uploadsURL, categories[i].ImagePath)
	}
	return categories, nil
}
