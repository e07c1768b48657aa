package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReportRecord is one citizen action on a factory: a new report, an update, a
// photo upload. The back-office never edits these.
type ReportRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FactoryID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"factory_id"`
	Factory    *Factory       `gorm:"foreignKey:FactoryID" json:"-"`
	ActionType string         `gorm:"size:10;not null" json:"action_type"` // POST, PUT, POST_IMAGE
	ActionBody datatypes.JSON `json:"action_body"`
	Nickname   string         `gorm:"size:64" json:"nickname"`
	Contact    string         `gorm:"size:64" json:"contact"`
	Others     string         `gorm:"size:1024" json:"others"`
	UserIP     string         `gorm:"size:45" json:"user_ip"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (ReportRecord) TableName() string {
	return "report_records"
}
