package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// HealthCheck probes the pieces a working storefront session depends on
// and reports every failure, not just the first.
func (a *App) HealthCheck(ctx context.Context) error {
	var errs []error

	if err := a.Client.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("backend unreachable: %w", err))
	}
	if _, err := a.tokens.Load(); err != nil {
		errs = append(errs, fmt.Errorf("token store unreadable: %w", err))
	}

	return multierr.Combine(errs...)
}
