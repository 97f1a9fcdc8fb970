package repository

import (
	"context"

	"github.com/necroledger/necroledger-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditRepository defines the interface for the append-only audit trail
type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, query *AuditQuery) ([]models.AuditLog, int64, error)
}

// AuditQuery filters and pages the audit trail
type AuditQuery struct {
	Action   string
	RecordID *uint
	Limit    int
	Offset   int
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error
}

// List returns audit records newest first
func (r *auditRepository) List(ctx context.Context, query *AuditQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if query.Action != "" {
		db = db.Where("accion = ?", query.Action)
	}
	if query.RecordID != nil {
		db = db.Where("registro_id = ?", *query.RecordID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.Limit > 0 {
		db = db.Limit(query.Limit).Offset(query.Offset)
	}
	err := db.Preload("User").Order("fecha DESC").Order("id DESC").Find(&logs).Error
	return logs, total, err
}
