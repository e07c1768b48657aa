package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disfactory.tw/backoffice/pkg/lifecycle"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/store"
	"disfactory.tw/backoffice/pkg/store/storetest"
)

// flakyRestorer fails for one id and delegates the rest.
type flakyRestorer struct {
	lifecycle.Restorer
	failing uuid.UUID
}

func (f flakyRestorer) RestoreFactory(ctx context.Context, id uuid.UUID) (store.RestoreStatus, error) {
	if id == f.failing {
		return "", errors.New("connection reset")
	}
	return f.Restorer.RestoreFactory(ctx, id)
}

func TestRestorePartialFailure(t *testing.T) {
	db := storetest.NewDB(t)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		f := storetest.CreateFactory(t, db)
		storetest.Recycle(t, db, f.ID, storetest.Now)
		ids = append(ids, f.ID)
	}

	m := lifecycle.NewManager(flakyRestorer{Restorer: store.New(db), failing: ids[1]}, logger.NewNop(), 2)
	report := m.Restore(context.Background(), ids)

	assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[2]}, report.Restored())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, ids[1], report.Failed()[0].ID)

	var live []uuid.UUID
	require.NoError(t, store.LiveFactories(db).Pluck("id", &live).Error)
	assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[2]}, live)

	var recycled []uuid.UUID
	require.NoError(t, store.RecycledFactories(db).Pluck("id", &recycled).Error)
	assert.Equal(t, []uuid.UUID{ids[1]}, recycled)
}

func TestRestoreIsIdempotent(t *testing.T) {
	db := storetest.NewDB(t)
	f := storetest.CreateFactory(t, db)
	storetest.Recycle(t, db, f.ID, storetest.Now)

	m := lifecycle.NewManager(store.New(db), logger.NewNop(), 0)

	first := m.Restore(context.Background(), []uuid.UUID{f.ID})
	assert.Equal(t, []uuid.UUID{f.ID}, first.Restored())

	second := m.Restore(context.Background(), []uuid.UUID{f.ID})
	assert.Empty(t, second.Restored())
	assert.Equal(t, []uuid.UUID{f.ID}, second.AlreadyLive())
	assert.Empty(t, second.Failed())
}

func TestRestoreDeduplicatesAndKeepsOrder(t *testing.T) {
	db := storetest.NewDB(t)
	a := storetest.CreateFactory(t, db)
	b := storetest.CreateFactory(t, db)
	storetest.Recycle(t, db, a.ID, storetest.Now)
	storetest.Recycle(t, db, b.ID, storetest.Now)

	m := lifecycle.NewManager(store.New(db), logger.NewNop(), 4)
	report := m.Restore(context.Background(), []uuid.UUID{b.ID, a.ID, b.ID})

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, b.ID, report.Outcomes[0].ID)
	assert.Equal(t, a.ID, report.Outcomes[1].ID)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, report.Restored())
}

func TestRestoreUnknownFactory(t *testing.T) {
	db := storetest.NewDB(t)
	m := lifecycle.NewManager(store.New(db), logger.NewNop(), 1)

	missing := uuid.New()
	report := m.Restore(context.Background(), []uuid.UUID{missing})
	require.Len(t, report.Failed(), 1)
	assert.False(t, report.Failed()[0].OK())
}

func TestRestoreEmptySelection(t *testing.T) {
	m := lifecycle.NewManager(store.New(storetest.NewDB(t)), logger.NewNop(), 1)
	report := m.Restore(context.Background(), nil)
	assert.Empty(t, report.Outcomes)
}
