package domain

import "time"

// AuditLog records catalog mutations for the admin console. Rows are written
// asynchronously off the event bus and pruned by a scheduled job.
type AuditLog struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Actor   string    `gorm:"size:255" json:"actor"`
	Action  string    `gorm:"size:64;index" json:"action"`
	Entity  string    `gorm:"size:64;index" json:"entity"`
	Detail  string    `gorm:"size:1024" json:"detail"`
	OptTime time.Time `json:"opt_time"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
