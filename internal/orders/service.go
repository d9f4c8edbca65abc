package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Duc13022005/Web-Shop/internal/validate"
	"github.com/Duc13022005/Web-Shop/pkg/api"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
)

// PaymentMethodCOD is the only payment method this storefront offers.
const PaymentMethodCOD = "cod"

type Order struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalItems      int             `json:"total_items"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderPage struct {
	Items []Order `json:"items"`
	Total int     `json:"total"`
}

// CreateOrderInput is the checkout payload. The payment method is fixed
// to cash on delivery and not caller-selectable.
type CreateOrderInput struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	Notes           string `json:"notes,omitempty"`
}

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes,omitempty"`
}

// Service wraps the order endpoints. A successful creation leaves cart
// clearing to the backend; the client only re-fetches afterwards.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service not configured")
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	payload := createOrderRequest{
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   PaymentMethodCOD,
		Notes:           input.Notes,
	}
	var order Order
	if err := s.client.Post(ctx, api.EndpointOrders, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) List(ctx context.Context) (*OrderPage, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service not configured")
	}
	var page OrderPage
	if err := s.client.Get(ctx, api.EndpointOrders, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []Order{}
	}
	return &page, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service not configured")
	}
	var order Order
	if err := s.client.Get(ctx, api.OrderPath(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}
