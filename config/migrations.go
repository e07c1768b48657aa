package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "01062020_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Factory{}, &models.ReportRecord{}, &models.Image{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Image{}, &models.ReportRecord{}, &models.Factory{})
			},
		},
		{
			// the activity filter scans report records per factory by time
			ID: "15062020_report_records_factory_created_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_report_records_factory_created " +
					"ON report_records (factory_id, created_at)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_report_records_factory_created").Error
			},
		},
	})
	return m.Migrate()
}
