package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fsgate/internal/model"
	"fsgate/internal/repository"
)

// AuditService records mutating operations. Recording is best-effort: an
// audit failure must never fail the operation it describes.
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Record(ctx context.Context, action string, path string, detail string, status string) {
	if s == nil || s.repo == nil {
		return
	}

	entry := model.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		Path:       path,
		Detail:     detail,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		slog.Warn("failed to record audit entry", "action", action, "path", path, "error", err)
	}
}

func (s *AuditService) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return s.repo.ListRecent(ctx, limit)
}
