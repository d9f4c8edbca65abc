package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Duc13022005/Web-Shop/internal/validate"
	"github.com/Duc13022005/Web-Shop/pkg/api"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
)

// Item is one cart line. Its ID identifies the line, not the product.
type Item struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSKU     string          `json:"product_sku"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ImagePath      string          `json:"image_path"`
	AvailableStock int             `json:"available_stock"`
	AddedAt        time.Time       `json:"added_at"`
}

// Cart is the backend-owned cart representation. The client never mutates
// it locally; every mutation round-trips and readers re-fetch.
type Cart struct {
	ID         int64           `json:"id"`
	Items      []Item          `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Service wraps the cart endpoints. It keeps no cache and never updates
// the badge itself; callers refresh the badge store after mutations.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Get fetches the current cart.
func (s *Service) Get(ctx context.Context) (*Cart, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service not configured")
	}
	var cart Cart
	if err := s.client.Get(ctx, api.EndpointCart, &cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	return &cart, nil
}

// TotalItems reports the backend's declared item count; used by the badge
// store.
func (s *Service) TotalItems(ctx context.Context) (int, error) {
	cart, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return cart.TotalItems, nil
}

// AddItem puts quantity units of a product in the cart. Quantity must be
// at least 1; stock limits stay the backend's call.
func (s *Service) AddItem(ctx context.Context, productID int64, quantity int) (*Cart, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service not configured")
	}
	if quantity == 0 {
		quantity = 1
	}
	payload := addItemRequest{ProductID: productID, Quantity: quantity}
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}
	var cart Cart
	if err := s.client.Post(ctx, api.EndpointCartItems, payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItem sets a line's quantity. Callers reject quantities below 1
// before invoking this; the service passes the value straight through.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, quantity int) (*Cart, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service not configured")
	}
	var cart Cart
	if err := s.client.Put(ctx, api.CartItemPath(itemID), updateItemRequest{Quantity: quantity}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes one cart line.
func (s *Service) RemoveItem(ctx context.Context, itemID int64) (*Cart, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service not configured")
	}
	var cart Cart
	if err := s.client.Delete(ctx, api.CartItemPath(itemID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	if s == nil || s.client == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "cart service not configured")
	}
	return s.client.Delete(ctx, api.EndpointCart, nil)
}
