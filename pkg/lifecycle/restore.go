// Package lifecycle moves factories out of the recycle bin.
//
// A factory is either live or recycled. Soft deletion happens elsewhere;
// this package owns the restore transition. Images and report records are
// never partitioned themselves, so restoring the factory restores their
// visibility too.
package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"

	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/store"
)

// DefaultConcurrency bounds how many restores of one bulk action run at once.
const DefaultConcurrency = 4

// Restorer performs the restore of a single factory atomically.
type Restorer interface {
	RestoreFactory(ctx context.Context, id uuid.UUID) (store.RestoreStatus, error)
}

// Outcome is the result for one selected factory.
type Outcome struct {
	ID     uuid.UUID
	Status store.RestoreStatus
	Err    error
}

// OK reports whether the factory is live after the call.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report collects the outcomes of a bulk restore in selection order.
type Report struct {
	Outcomes []Outcome
}

func (r Report) ids(keep func(Outcome) bool) []uuid.UUID {
	return lo.FilterMap(r.Outcomes, func(o Outcome, _ int) (uuid.UUID, bool) {
		return o.ID, keep(o)
	})
}

// Restored lists factories moved from the recycle bin by this call.
func (r Report) Restored() []uuid.UUID {
	return r.ids(func(o Outcome) bool { return o.OK() && o.Status == store.StatusRestored })
}

// AlreadyLive lists factories that needed no change.
func (r Report) AlreadyLive() []uuid.UUID {
	return r.ids(func(o Outcome) bool { return o.OK() && o.Status == store.StatusAlreadyLive })
}

// Failed lists the outcomes that carry an error.
func (r Report) Failed() []Outcome {
	return lo.Filter(r.Outcomes, func(o Outcome, _ int) bool { return !o.OK() })
}

// Manager runs bulk restores.
type Manager struct {
	restorer    Restorer
	log         *logger.Logger
	concurrency int
}

// NewManager builds a Manager. concurrency <= 0 uses DefaultConcurrency.
func NewManager(restorer Restorer, log *logger.Logger, concurrency int) *Manager {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.L
	}
	return &Manager{restorer: restorer, log: log, concurrency: concurrency}
}

// Restore restores every selected factory independently. A failure on one
// id is recorded in its outcome and never stops the others.
func (m *Manager) Restore(ctx context.Context, ids []uuid.UUID) Report {
	ids = lo.Uniq(ids)

	mapper := iter.Mapper[uuid.UUID, Outcome]{MaxGoroutines: m.concurrency}
	outcomes := mapper.Map(ids, func(id *uuid.UUID) Outcome {
		status, err := m.restorer.RestoreFactory(ctx, *id)
		if err != nil {
			m.log.Warnw("restore factory failed", "factory_id", id.String(), "error", err)
			return Outcome{ID: *id, Err: err}
		}
		return Outcome{ID: *id, Status: status}
	})

	report := Report{Outcomes: outcomes}
	m.log.Infow("bulk restore finished",
		"total", len(ids),
		"restored", len(report.Restored()),
		"already_live", len(report.AlreadyLive()),
		"failed", len(report.Failed()),
	)
	return report
}
