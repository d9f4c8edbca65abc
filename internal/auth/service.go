package auth

import (
	"context"

	"github.com/Duc13022005/Web-Shop/internal/session"
	"github.com/Duc13022005/Web-Shop/internal/validate"
	"github.com/Duc13022005/Web-Shop/pkg/api"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	User   session.User `json:"user"`
	Tokens tokenPair    `json:"tokens"`
}

// LoginResult carries what the session store needs to open a session.
type LoginResult struct {
	User        session.User
	AccessToken string
}

// Service wraps the authentication endpoints.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Login exchanges credentials for a token and identity. It does not touch
// the session store; the caller feeds the result into session.Login.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth service not configured")
	}
	payload := loginRequest{Email: email, Password: password}
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := s.client.Post(ctx, api.EndpointLogin, payload, &resp); err != nil {
		return nil, err
	}
	return &LoginResult{User: resp.User, AccessToken: resp.Tokens.AccessToken}, nil
}

// Me resolves the identity behind the current token; it is the session
// store's who-am-I lookup.
func (s *Service) Me(ctx context.Context) (*session.User, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth service not configured")
	}
	var user session.User
	if err := s.client.Get(ctx, api.EndpointMe, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
