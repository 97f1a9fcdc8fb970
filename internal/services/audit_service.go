package services

import (
	"context"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/repository"
)

type AuditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// List retrieves audit logs newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(ctx, &repository.AuditQuery{Limit: limit, Offset: offset})
}

// ListForRecord retrieves the audit logs of one action on one record
func (s *AuditService) ListForRecord(ctx context.Context, action string, recordID uint) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(ctx, &repository.AuditQuery{Action: action, RecordID: &recordID})
}
