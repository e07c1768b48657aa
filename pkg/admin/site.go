package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/metrics"
)

// Site is the table of registered surfaces. It is built once at startup and
// shared read-only by every request.
type Site struct {
	db      *gorm.DB
	clock   func() time.Time
	metrics *metrics.AdminMetrics
	log     *logger.Logger

	entities map[string]Entity
	order    []string
}

// SiteOption customises a Site.
type SiteOption func(*Site)

// WithClock replaces the wall clock used for time-windowed filters and file names.
func WithClock(clock func() time.Time) SiteOption {
	return func(s *Site) { s.clock = clock }
}

func WithMetrics(m *metrics.AdminMetrics) SiteOption {
	return func(s *Site) { s.metrics = m }
}

func WithLogger(l *logger.Logger) SiteOption {
	return func(s *Site) { s.log = l }
}

// NewSite creates an empty site over db.
func NewSite(db *gorm.DB, opts ...SiteOption) *Site {
	s := &Site{
		db:       db,
		clock:    func() time.Time { return time.Now().UTC() },
		log:      logger.L,
		entities: map[string]Entity{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a surface. Names must be unique.
func (s *Site) Register(e Entity) error {
	name := e.Meta().Name
	if _, exists := s.entities[name]; exists {
		return ierr.NewErrorf("admin surface %q registered twice", name).Mark(ierr.ErrInvalidOperation)
	}
	s.entities[name] = e
	s.order = append(s.order, name)
	return nil
}

// Entities describes every surface in registration order.
func (s *Site) Entities() []Meta {
	metas := make([]Meta, 0, len(s.order))
	for _, name := range s.order {
		metas = append(metas, s.entities[name].Meta())
	}
	return metas
}

// Entity looks a surface up by name.
func (s *Site) Entity(name string) (Entity, error) {
	e, ok := s.entities[name]
	if !ok {
		return nil, ierr.NewErrorf("unknown admin surface %q", name).Mark(ierr.ErrNotFound)
	}
	return e, nil
}

func (s *Site) env() Env {
	return Env{DB: s.db, Now: s.clock(), Metrics: s.metrics, Log: s.log}
}

func (s *Site) Lookups(ctx context.Context, name string) ([]FilterLookup, error) {
	e, err := s.Entity(name)
	if err != nil {
		return nil, err
	}
	return e.Lookups(ctx, s.env())
}

func (s *Site) List(ctx context.Context, name string, req ListRequest) (*Listing, error) {
	e, err := s.Entity(name)
	if err != nil {
		return nil, err
	}
	return e.List(ctx, s.env(), req)
}

func (s *Site) Detail(ctx context.Context, name, id string) (*Detail, error) {
	e, err := s.Entity(name)
	if err != nil {
		return nil, err
	}
	return e.Detail(ctx, s.env(), id)
}

func (s *Site) Run(ctx context.Context, name, action string, ids []string) (*ActionResult, error) {
	e, err := s.Entity(name)
	if err != nil {
		return nil, err
	}
	result, err := e.Run(ctx, s.env(), action, ids)
	if err != nil {
		s.log.Warnw("admin action failed", "entity", name, "action", action, "error", err)
		return nil, err
	}
	return result, nil
}
