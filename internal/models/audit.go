package models

import (
	"time"
)

// AuditLog represents an append-only audit entry
type AuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        *uint     `gorm:"column:usuario_id;index" json:"user_id"`
	Action        string    `gorm:"column:accion;size:100;not null;index" json:"action"`
	AffectedTable string    `gorm:"column:tabla_afectada;size:50" json:"affected_table"`
	RecordID      *uint     `gorm:"column:registro_id" json:"record_id"`
	Details       string    `gorm:"column:detalles;type:text" json:"details"`
	CreatedAt     time.Time `gorm:"column:fecha;autoCreateTime" json:"timestamp"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditCreateEntry    = "CREAR_ASIENTO"
	AuditDeleteEntry    = "ELIMINAR_ASIENTO"
	AuditLoginSucceeded = "LOGIN_EXITOSO"
	AuditLoginFailed    = "LOGIN_FALLIDO"
	AuditPasswordChange = "CAMBIO_PASSWORD"
)

// Affected tables recorded in the audit trail
const (
	AuditTableEntries = "asientos_contables"
	AuditTableUsers   = "usuarios"
)
