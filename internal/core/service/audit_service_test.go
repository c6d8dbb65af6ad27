package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/domain"
)

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.SessionEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.SessionEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestAuditService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	ev := domain.SessionEvent{SessionID: "sid-1", Kind: domain.EventLogin, Email: "a@b.com", Timestamp: time.Now()}
	if err := svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Kind != domain.EventLogin {
		t.Fatalf("expected event inserted, got %+v", repo.inserted)
	}
}

func TestAuditService_RejectsIncompleteEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.SessionEvent{Kind: domain.EventLogin}); err == nil {
		t.Fatalf("expected error for missing session id")
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected nothing inserted")
	}
}

func TestAuditService_RepoError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("mongo down")}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.SessionEvent{SessionID: "s", Kind: domain.EventLogout})
	if err == nil || !errors.Is(err, repo.insertErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
