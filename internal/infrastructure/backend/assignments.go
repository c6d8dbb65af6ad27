package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var _ ports.AssignmentAPI = (*Assignments)(nil)

// Assignments wraps /api/assignments.
type Assignments struct {
	base
}

func assignmentID(a domain.Assignment) string { return a.ID }

func (s *Assignments) List(ctx context.Context, f ports.AssignmentFilter) (domain.Result[[]domain.Assignment], error) {
	return readThrough(ctx, s.base, "assignments",
		func(ctx context.Context) ([]domain.Assignment, error) {
			var out []domain.Assignment
			err := s.client.Get(ctx, "/api/assignments", f, &out)
			return out, err
		},
		all(sampleAssignments()),
	)
}

// ListForPhotographer returns the assignments of the logged-in photographer.
func (s *Assignments) ListForPhotographer(ctx context.Context) (domain.Result[[]domain.Assignment], error) {
	return readThrough(ctx, s.base, "assignments",
		func(ctx context.Context) ([]domain.Assignment, error) {
			var out []domain.Assignment
			err := s.client.Get(ctx, "/api/assignments/photographer", nil, &out)
			return out, err
		},
		all(sampleAssignments()),
	)
}

func (s *Assignments) Get(ctx context.Context, id string) (domain.Result[domain.Assignment], error) {
	return readThrough(ctx, s.base, "assignment",
		func(ctx context.Context) (domain.Assignment, error) {
			var out domain.Assignment
			err := s.client.Get(ctx, "/api/assignments/"+url.PathEscape(id), nil, &out)
			return out, err
		},
		one(sampleAssignments(), id, assignmentID),
	)
}

func (s *Assignments) Create(ctx context.Context, in ports.AssignmentInput) (*domain.Assignment, error) {
	var out domain.Assignment
	if err := s.client.Post(ctx, "/api/assignments", in, &out); err != nil {
		return nil, mutate("create assignment", err)
	}
	return &out, nil
}

// UpdateStatus moves an assignment along its workflow.
func (s *Assignments) UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) (*domain.Assignment, error) {
	switch status {
	case domain.AssignmentPending, domain.AssignmentInProgress, domain.AssignmentCompleted, domain.AssignmentCancelled:
	default:
		return nil, fmt.Errorf("update assignment: unknown status %q: %w", status, domain.ErrInvalidTransition)
	}
	var current domain.Assignment
	if err := s.client.Get(ctx, "/api/assignments/"+url.PathEscape(id), nil, &current); err != nil {
		return nil, mutate("update assignment", err)
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("update assignment: %s to %s: %w", current.Status, status, domain.ErrInvalidTransition)
	}

	var out domain.Assignment
	body := map[string]string{"status": string(status)}
	if err := s.client.Patch(ctx, "/api/assignments/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, mutate("update assignment", err)
	}
	return &out, nil
}

func (s *Assignments) Delete(ctx context.Context, id string) error {
	return mutate("delete assignment", s.client.Delete(ctx, "/api/assignments/"+url.PathEscape(id)))
}
