package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is a photo submitted as evidence for a factory.
type Image struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	FactoryID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"factory_id"`
	Factory        *Factory      `gorm:"foreignKey:FactoryID" json:"-"`
	ReportRecordID *uint         `gorm:"index" json:"report_record_id,omitempty"`
	ReportRecord   *ReportRecord `gorm:"foreignKey:ReportRecordID" json:"-"`
	ImagePath      string        `gorm:"size:256;not null" json:"image_path"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
}

func (Image) TableName() string {
	return "images"
}

// BeforeCreate assigns an id and checks the submitting report belongs to the same factory.
func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.ReportRecordID == nil {
		return nil
	}

	var owners []uuid.UUID
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&ReportRecord{}).
		Where("id = ?", *i.ReportRecordID).
		Pluck("factory_id", &owners).Error
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		return fmt.Errorf("image report record %d does not exist", *i.ReportRecordID)
	}
	if owners[0] != i.FactoryID {
		return fmt.Errorf("image report record %d belongs to factory %s, not %s", *i.ReportRecordID, owners[0], i.FactoryID)
	}
	return nil
}

// ReporterNickname is the nickname of the submitting report, or "" if there is none.
func (i *Image) ReporterNickname() string {
	if i.ReportRecord == nil {
		return ""
	}
	return i.ReportRecord.Nickname
}

// ReporterContact is the contact of the submitting report, or "" if there is none.
func (i *Image) ReporterContact() string {
	if i.ReportRecord == nil {
		return ""
	}
	return i.ReportRecord.Contact
}
