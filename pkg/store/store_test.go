package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/store"
	"disfactory.tw/backoffice/pkg/store/storetest"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := store.Open("mysql", "", logger.NewNop())
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestPartitions(t *testing.T) {
	db := storetest.NewDB(t)
	live := storetest.CreateFactory(t, db)
	recycled := storetest.CreateFactory(t, db)
	storetest.Recycle(t, db, recycled.ID, storetest.Now)

	var liveIDs, recycledIDs, allIDs []uuid.UUID
	require.NoError(t, store.LiveFactories(db).Pluck("id", &liveIDs).Error)
	require.NoError(t, store.RecycledFactories(db).Pluck("id", &recycledIDs).Error)
	require.NoError(t, store.AnyFactory(db).Pluck("id", &allIDs).Error)

	assert.Equal(t, []uuid.UUID{live.ID}, liveIDs)
	assert.Equal(t, []uuid.UUID{recycled.ID}, recycledIDs)
	assert.ElementsMatch(t, []uuid.UUID{live.ID, recycled.ID}, allIDs)
}

func TestDependentPartitions(t *testing.T) {
	db := storetest.NewDB(t)
	live := storetest.CreateFactory(t, db)
	recycled := storetest.CreateFactory(t, db)
	liveReport := storetest.CreateReport(t, db, live.ID, storetest.Now, "", "")
	recycledReport := storetest.CreateReport(t, db, recycled.ID, storetest.Now, "", "")
	liveImage := storetest.CreateImage(t, db, live.ID, nil, "a.jpg", storetest.Now)
	recycledImage := storetest.CreateImage(t, db, recycled.ID, nil, "b.jpg", storetest.Now)
	storetest.Recycle(t, db, recycled.ID, storetest.Now)

	tests := []struct {
		name   string
		scope  func(*gorm.DB) *gorm.DB
		column string
		want   uuid.UUID
	}{
		{"live images", store.LiveImages, "id", liveImage.ID},
		{"recycled images", store.RecycledImages, "id", recycledImage.ID},
		{"live reports", store.LiveReportRecords, "factory_id", liveReport.FactoryID},
		{"recycled reports", store.RecycledReportRecords, "factory_id", recycledReport.FactoryID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []uuid.UUID
			require.NoError(t, tt.scope(db).Pluck(tt.column, &got).Error)
			assert.Equal(t, []uuid.UUID{tt.want}, got)
		})
	}
}

func TestMatchRegex(t *testing.T) {
	db := storetest.NewDB(t)
	a := storetest.CreateFactory(t, db, storetest.InTown("臺中市西屯區"))
	b := storetest.CreateFactory(t, db, storetest.InTown("台中市大里區"))
	storetest.CreateFactory(t, db, storetest.InTown("臺南市東區"))

	tests := []struct {
		name    string
		pattern string
		want    []uuid.UUID
	}{
		{"either glyph", "(台|臺)中市", []uuid.UUID{a.ID, b.ID}},
		{"traditional only", "臺中市", []uuid.UUID{a.ID}},
		{"unanchored", "西屯", []uuid.UUID{a.ID}},
		{"no match", "高雄市", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []uuid.UUID
			err := store.MatchRegex(store.LiveFactories(db), "townname", tt.pattern).Pluck("id", &ids).Error
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

func TestOrderBy(t *testing.T) {
	db := storetest.NewDB(t)
	older := storetest.CreateFactory(t, db, storetest.CreatedAt(storetest.Now.Add(-48*time.Hour)))
	newer := storetest.CreateFactory(t, db, storetest.CreatedAt(storetest.Now.Add(-time.Hour)))

	var ids []uuid.UUID
	require.NoError(t, store.OrderBy(store.LiveFactories(db), "-created_at").Pluck("id", &ids).Error)
	assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, ids)

	ids = nil
	require.NoError(t, store.OrderBy(store.LiveFactories(db), "created_at").Pluck("id", &ids).Error)
	assert.Equal(t, []uuid.UUID{older.ID, newer.ID}, ids)
}

func TestRestoreFactory(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)
	s := store.New(db)

	live := storetest.CreateFactory(t, db)
	recycled := storetest.CreateFactory(t, db)
	storetest.Recycle(t, db, recycled.ID, storetest.Now)

	status, err := s.RestoreFactory(ctx, recycled.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusRestored, status)

	var got models.Factory
	require.NoError(t, store.LiveFactories(db).Where("id = ?", recycled.ID).First(&got).Error)
	assert.Equal(t, models.Live{}, got.State())

	// a second restore changes nothing
	status, err = s.RestoreFactory(ctx, recycled.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusAlreadyLive, status)

	status, err = s.RestoreFactory(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusAlreadyLive, status)

	_, err = s.RestoreFactory(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestReadTx(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.CreateFactory(t, db)

	var count int64
	err := store.ReadTx(context.Background(), db, func(tx *gorm.DB) error {
		return store.LiveFactories(tx).Count(&count).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPing(t *testing.T) {
	s := store.New(storetest.NewDB(t))
	assert.NoError(t, s.Ping(context.Background()))
}
