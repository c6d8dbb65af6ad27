package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.BillingAPI = (*Billings)(nil)

// Billings wraps /api/billings.
type Billings struct {
	base
}

func billingID(b domain.Billing) string { return b.ID }

func (s *Billings) List(ctx context.Context, f ports.BillingFilter) (domain.Result[[]domain.Billing], error) {
	return readThrough(ctx, s.base, "billings",
		func(ctx context.Context) ([]domain.Billing, error) {
			var out []domain.Billing
			err := s.client.Get(ctx, "/api/billings", f, &out)
			return out, err
		},
		all(sampleBillings()),
	)
}

// ListForClient returns the invoices of the logged-in client.
func (s *Billings) ListForClient(ctx context.Context) (domain.Result[[]domain.Billing], error) {
	return readThrough(ctx, s.base, "billings",
		func(ctx context.Context) ([]domain.Billing, error) {
			var out []domain.Billing
			err := s.client.Get(ctx, "/api/billings/client", nil, &out)
			return out, err
		},
		all(sampleBillings()[:2]),
	)
}

func (s *Billings) Get(ctx context.Context, id string) (domain.Result[domain.Billing], error) {
	return readThrough(ctx, s.base, "billing",
		func(ctx context.Context) (domain.Billing, error) {
			var out domain.Billing
			err := s.client.Get(ctx, "/api/billings/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(sampleBillings(), id, billingID),
	)
}

func (s *Billings) Create(ctx context.Context, in ports.BillingInput) (*domain.Billing, error) {
	var out domain.Billing
	if err := s.client.Post(ctx, "/api/billings", in, &out); err != nil {
		return nil, mutate("create billing", err)
	}
	return &out, nil
}

// UpdateStatus moves an invoice to status, e.g. marking it paid.
func (s *Billings) UpdateStatus(ctx context.Context, id string, status domain.BillingStatus) (*domain.Billing, error) {
	switch status {
	case domain.BillingPending, domain.BillingPaid, domain.BillingOverdue, domain.BillingCancelled:
	default:
		return nil, fmt.Errorf("update billing: unknown status %q: %w", status, domain.ErrInvalidTransition)
	}
	var current domain.Billing
	if err := s.client.Get(ctx, "/api/billings/"+url.PathEscape(id), nil, &current); err != nil {
		return nil, mutate("update billing", err)
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("update billing: %s to %s: %w", current.Status, status, domain.ErrInvalidTransition)
	}

	var out domain.Billing
	body := map[string]string{"status": string(status)}
	if err := s.client.Patch(ctx, "/api/billings/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, mutate("update billing", err)
	}
	return &out, nil
}

func (s *Billings) Delete(ctx context.Context, id string) error {
	return mutate("delete billing", s.client.Delete(ctx, "/api/billings/"+url.PathEscape(id)))
}
