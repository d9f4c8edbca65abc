package contact

import (
	"context"

	"github.com/Duc13022005/Web-Shop/internal/validate"
	"github.com/Duc13022005/Web-Shop/pkg/api"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
)

// Form mirrors the backend's contact payload; limits match the backend
// so rejects happen before a request is issued.
type Form struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Message   string `json:"message" validate:"required,min=10,max=1000"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service wraps the contact endpoint.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Send validates and submits the contact form.
func (s *Service) Send(ctx context.Context, form Form) (*Response, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contact service not configured")
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	var resp Response
	if err := s.client.Post(ctx, api.EndpointContact, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
