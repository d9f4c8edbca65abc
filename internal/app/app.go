package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Duc13022005/Web-Shop/internal/auth"
	"github.com/Duc13022005/Web-Shop/internal/badge"
	"github.com/Duc13022005/Web-Shop/internal/cart"
	"github.com/Duc13022005/Web-Shop/internal/catalog"
	"github.com/Duc13022005/Web-Shop/internal/contact"
	"github.com/Duc13022005/Web-Shop/internal/orders"
	"github.com/Duc13022005/Web-Shop/internal/session"
	"github.com/Duc13022005/Web-Shop/pkg/api"
	"github.com/Duc13022005/Web-Shop/pkg/config"
	"github.com/Duc13022005/Web-Shop/pkg/logger"
	"github.com/Duc13022005/Web-Shop/pkg/metrics"
)

// App is the explicit application context: every store and service is
// constructed here once and passed down, never reached through globals.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Client   *api.Client

	Session *session.Store
	Badge   *badge.Store

	Auth    *auth.Service
	Catalog *catalog.Service
	Cart    *cart.Service
	Orders  *orders.Service
	Contact *contact.Service

	tokens session.TokenStore
}

// Option overrides a default dependency; used by tests to inject fakes.
type Option func(*options)

type options struct {
	tokenStore session.TokenStore
	httpClient *http.Client
}

// WithTokenStore replaces the file-backed token store.
func WithTokenStore(store session.TokenStore) Option {
	return func(o *options) { o.tokenStore = store }
}

// WithHTTPClient replaces the transport's HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// New wires configuration, transport, stores and services together and
// runs the initial auth check, so the session is resolving before the
// first command executes.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := cfg.API.Normalize(); err != nil {
		return nil, err
	}

	tokens := o.tokenStore
	if tokens == nil {
		fileStore, err := session.NewFileStore(cfg.Session.TokenPath)
		if err != nil {
			return nil, err
		}
		tokens = fileStore
	}

	registry := prometheus.NewRegistry()
	requests := metrics.NewRequestMetrics(registry)

	// The hook closes over the session store assigned below; a 401 from
	// any endpoint invalidates the session centrally.
	var sess *session.Store
	clientOpts := []api.Option{
		api.WithRequestMetrics(requests),
		api.WithUnauthorizedHook(func(ctx context.Context) {
			if sess != nil {
				sess.Invalidate()
			}
		}),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}

	client, err := api.New(cfg.API, func() string {
		token, err := tokens.Load()
		if err != nil {
			return ""
		}
		return token
	}, logg, clientOpts...)
	if err != nil {
		return nil, err
	}

	authSvc := auth.NewService(client)
	sess = session.NewStore(tokens, authSvc.Me, logg)

	cartSvc := cart.NewService(client)
	badgeStore := badge.NewStore(sess, cartSvc, logg)

	app := &App{
		Config:   cfg,
		Logger:   logg,
		Registry: registry,
		Client:   client,
		Session:  sess,
		Badge:    badgeStore,
		Auth:     authSvc,
		Catalog:  catalog.NewService(client, cfg.API.UploadsURL),
		Cart:     cartSvc,
		Orders:   orders.NewService(client),
		Contact:  contact.NewService(client),
		tokens:   tokens,
	}

	sess.CheckAuth(ctx)
	return app, nil
}

// Close detaches the badge store from session notifications.
func (a *App) Close() {
	if a != nil && a.Badge != nil {
		a.Badge.Close()
	}
}
