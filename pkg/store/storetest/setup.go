// Package storetest builds in-memory sqlite databases with back-office
// fixtures for tests.
package storetest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/store"
)

// Now is the fixed clock used by fixtures.
var Now = time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)

// NewDB opens a private in-memory database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := store.Open(store.DriverSQLite, ":memory:", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Factory{}, &models.ReportRecord{}, &models.Image{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FactoryOption customises a fixture factory.
type FactoryOption func(*models.Factory)

func Named(name string) FactoryOption {
	return func(f *models.Factory) { f.Name = &name }
}

func InTown(townname string) FactoryOption {
	return func(f *models.Factory) { f.Townname = townname }
}

func OfType(factoryType string) FactoryOption {
	return func(f *models.Factory) { f.FactoryType = factoryType }
}

func CreatedAt(at time.Time) FactoryOption {
	return func(f *models.Factory) { f.CreatedAt = at }
}

// CreateFactory inserts a live factory.
func CreateFactory(t *testing.T, db *gorm.DB, opts ...FactoryOption) models.Factory {
	t.Helper()

	f := models.Factory{
		ID:              uuid.New(),
		Lat:             24.15,
		Lng:             120.67,
		Townname:        "臺中市西屯區",
		Source:          "U",
		CetReportStatus: "A",
		CreatedAt:       Now.Add(-24 * time.Hour),
	}
	for _, opt := range opts {
		opt(&f)
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}

// Recycle moves a factory to the recycle bin.
func Recycle(t *testing.T, db *gorm.DB, id uuid.UUID, at time.Time) {
	t.Helper()

	err := db.Unscoped().Model(&models.Factory{}).Where("id = ?", id).Update("deleted_at", at).Error
	require.NoError(t, err)
}

// CreateReport inserts a report record on a factory at the given time.
func CreateReport(t *testing.T, db *gorm.DB, factoryID uuid.UUID, at time.Time, nickname, contact string) models.ReportRecord {
	t.Helper()

	r := models.ReportRecord{
		FactoryID:  factoryID,
		ActionType: "POST",
		Nickname:   nickname,
		Contact:    contact,
		CreatedAt:  at,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

// CreateImage inserts an image, optionally tied to a report record.
func CreateImage(t *testing.T, db *gorm.DB, factoryID uuid.UUID, report *models.ReportRecord, path string, at time.Time) models.Image {
	t.Helper()

	img := models.Image{FactoryID: factoryID, ImagePath: path, CreatedAt: at}
	if report != nil {
		img.ReportRecordID = &report.ID
	}
	require.NoError(t, db.Create(&img).Error)
	return img
}

// CreateReportedFactories inserts n live factories, each with one report
// record at the given time, in batches.
func CreateReportedFactories(t *testing.T, db *gorm.DB, n int, at time.Time) []models.Factory {
	t.Helper()

	factories := make([]models.Factory, n)
	for i := range factories {
		factories[i] = models.Factory{
			ID:        uuid.New(),
			Lat:       24.15,
			Lng:       120.67,
			Townname:  "臺中市西屯區",
			CreatedAt: at,
		}
	}
	require.NoError(t, db.CreateInBatches(&factories, 200).Error)

	records := make([]models.ReportRecord, n)
	for i, f := range factories {
		records[i] = models.ReportRecord{FactoryID: f.ID, ActionType: "POST", CreatedAt: at}
	}
	require.NoError(t, db.CreateInBatches(&records, 200).Error)
	return factories
}
