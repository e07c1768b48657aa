package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory is a reported illegal-factory site.
// A non-null DeletedAt puts the factory in the recycle bin.
type Factory struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            *string        `gorm:"size:50" json:"name,omitempty"`
	Lat             float64        `gorm:"not null" json:"lat"`
	Lng             float64        `gorm:"not null" json:"lng"`
	Landcode        string         `gorm:"size:50;not null;default:''" json:"landcode"`
	Sectcode        string         `gorm:"size:50;not null;default:''" json:"sectcode"`
	Sectname        string         `gorm:"size:50;not null;default:''" json:"sectname"`
	Towncode        string         `gorm:"size:50;not null;default:''" json:"towncode"`
	Townname        string         `gorm:"size:50;not null;default:'';index" json:"townname"`
	FactoryType     string         `gorm:"size:3;not null;default:'';index" json:"factory_type"`
	Source          string         `gorm:"size:1;not null;default:'U';index" json:"source"`
	CetReportStatus string         `gorm:"size:1;not null;default:'A';index" json:"cet_report_status"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	// Relationships
	Images        []Image        `gorm:"foreignKey:FactoryID" json:"-"`
	ReportRecords []ReportRecord `gorm:"foreignKey:FactoryID" json:"-"`
}

func (Factory) TableName() string {
	return "factories"
}

// BeforeCreate hook for Factory
func (f *Factory) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// DisplayName is the name shown in listings; "_" for unnamed factories.
func (f *Factory) DisplayName() string {
	if f.Name == nil || *f.Name == "" {
		return "_"
	}
	return *f.Name
}

// State reports which partition the factory belongs to.
func (f *Factory) State() FactoryState {
	if f.DeletedAt.Valid {
		return Recycled{DeletedAt: f.DeletedAt.Time}
	}
	return Live{}
}
