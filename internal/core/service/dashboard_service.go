package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

// DashboardSummary is the row of counters at the top of each role's
// dashboard. Counters that do not apply to a role stay zero.
type DashboardSummary struct {
	Role               domain.Role       `json:"role"`
	Hoardings          int               `json:"hoardings"`
	AvailableHoardings int               `json:"availableHoardings"`
	ActiveContracts    int               `json:"activeContracts"`
	PendingBillings    int               `json:"pendingBillings"`
	OverdueBillings    int               `json:"overdueBillings"`
	OpenAssignments    int               `json:"openAssignments"`
	Photos             int               `json:"photos"`
	Provenance         domain.Provenance `json:"provenance"`
}

// DashboardAPIs are the resource modules the summary reads from.
type DashboardAPIs struct {
	Hoardings   ports.HoardingAPI
	Contracts   ports.ContractAPI
	Billings    ports.BillingAPI
	Photos      ports.PhotoAPI
	Assignments ports.AssignmentAPI
}

type DashboardService struct {
	apis DashboardAPIs
}

func NewDashboardService(apis DashboardAPIs) *DashboardService {
	return &DashboardService{apis: apis}
}

// Summary fetches every list the role's dashboard needs concurrently. The
// summary is tagged fallback if any of them was served from sample data.
func (s *DashboardService) Summary(ctx context.Context, role domain.Role) (DashboardSummary, error) {
	sum := DashboardSummary{Role: role, Provenance: domain.ProvenanceLive}
	var mu sync.Mutex
	degrade := func(p domain.Provenance) {
		if p == domain.ProvenanceFallback {
			mu.Lock()
			sum.Provenance = domain.ProvenanceFallback
			mu.Unlock()
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	switch role {
	case domain.RoleOwner:
		g.Go(func() error {
			res, err := s.apis.Hoardings.List(ctx, ports.HoardingFilter{})
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.Hoardings = len(res.Data)
			for _, h := range res.Data {
				if h.Status == domain.HoardingAvailable {
					sum.AvailableHoardings++
				}
			}
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			res, err := s.apis.Contracts.List(ctx, ports.ContractFilter{})
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.ActiveContracts = countContracts(res.Data)
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			res, err := s.apis.Billings.List(ctx, ports.BillingFilter{})
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.PendingBillings, sum.OverdueBillings = countBillings(res.Data)
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			res, err := s.apis.Assignments.List(ctx, ports.AssignmentFilter{})
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.OpenAssignments = countOpenAssignments(res.Data)
			mu.Unlock()
			return nil
		})

	case domain.RolePhotographer:
		g.Go(func() error {
			res, err := s.apis.Assignments.ListForPhotographer(ctx)
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.OpenAssignments = countOpenAssignments(res.Data)
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			res, err := s.apis.Photos.ListForPhotographer(ctx)
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.Photos = len(res.Data)
			mu.Unlock()
			return nil
		})

	case domain.RoleClient:
		g.Go(func() error {
			res, err := s.apis.Contracts.ListForClient(ctx)
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.ActiveContracts = countContracts(res.Data)
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			res, err := s.apis.Billings.ListForClient(ctx)
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.PendingBillings, sum.OverdueBillings = countBillings(res.Data)
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			res, err := s.apis.Photos.ListForClient(ctx)
			if err != nil {
				return err
			}
			degrade(res.Provenance)
			mu.Lock()
			sum.Photos = len(res.Data)
			mu.Unlock()
			return nil
		})

	default:
		return DashboardSummary{}, domain.ErrForbidden
	}

	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}
	return sum, nil
}

func countContracts(cs []domain.Contract) int {
	n := 0
	for _, c := range cs {
		if c.Status == domain.ContractActive {
			n++
		}
	}
	return n
}

func countBillings(bs []domain.Billing) (pending, overdue int) {
	for _, b := range bs {
		switch b.Status {
		case domain.BillingPending:
			pending++
		case domain.BillingOverdue:
			overdue++
		}
	}
	return pending, overdue
}

func countOpenAssignments(as []domain.Assignment) int {
	n := 0
	for _, a := range as {
		if a.Status == domain.AssignmentPending || a.Status == domain.AssignmentInProgress {
			n++
		}
	}
	return n
}
