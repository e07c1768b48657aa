// Package admin declares each back-office surface as a static configuration
// (columns, ordering, filters, actions, inlines) and dispatches listing,
// detail and bulk-action requests against it.
package admin

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"disfactory.tw/backoffice/pkg/csvexport"
	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/pkg/inline"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/pkg/metrics"
	"disfactory.tw/backoffice/pkg/store"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// Env is what one request hands to a surface. Now is read once per request.
type Env struct {
	DB      *gorm.DB
	Now     time.Time
	Metrics *metrics.AdminMetrics
	Log     *logger.Logger
}

// Entity is the type-erased view of a ModelAdmin the Site dispatches to.
type Entity interface {
	Meta() Meta
	Lookups(ctx context.Context, env Env) ([]FilterLookup, error)
	List(ctx context.Context, env Env, req ListRequest) (*Listing, error)
	Detail(ctx context.Context, env Env, id string) (*Detail, error)
	Run(ctx context.Context, env Env, action string, ids []string) (*ActionResult, error)
}

// Meta describes a surface to the rendering layer.
type Meta struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Fields   []string     `json:"fields"`
	Labels   []string     `json:"labels"`
	Ordering []string     `json:"ordering"`
	Filters  []FilterMeta `json:"filters"`
	Actions  []ActionMeta `json:"actions"`
}

type FilterMeta struct {
	Parameter string `json:"parameter"`
	Title     string `json:"title"`
}

type ActionMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListRequest carries the raw filter values and the page window.
type ListRequest struct {
	Params map[string]string
	Page   int
	Limit  int
}

func (r ListRequest) window() (page, limit int) {
	page, limit = r.Page, r.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Listing is one rendered page.
type Listing struct {
	Entity string     `json:"entity"`
	Fields []string   `json:"fields"`
	Labels []string   `json:"labels"`
	IDs    []string   `json:"ids"`
	Rows   [][]string `json:"rows"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}

// Detail is one rendered record with its inline sections.
type Detail struct {
	Entity  string           `json:"entity"`
	ID      string           `json:"id"`
	Record  any              `json:"record"`
	Extras  map[string]any   `json:"extras,omitempty"`
	Inlines []inline.Section `json:"inlines"`
}

// ModelAdmin is the static configuration of one surface over rows of T.
type ModelAdmin[T any] struct {
	Name  string
	Title string
	// Scope selects the partition the surface shows and sets the model.
	Scope func(db *gorm.DB) *gorm.DB
	// ID reads a row's primary key; ParseID parses a selected id.
	ID       func(row T) string
	ParseID  func(raw string) (any, error)
	Columns  []csvexport.Column[T]
	Ordering []string
	Filters  []Filter
	Actions  []Action[T]
	Preload  []string
	Inlines  func(tx *gorm.DB, row T) ([]inline.Section, error)
	Extras   func(row T) map[string]any
}

func (ma *ModelAdmin[T]) Meta() Meta {
	return Meta{
		Name:     ma.Name,
		Title:    ma.Title,
		Fields:   csvexport.Names(ma.Columns),
		Labels:   lo.Map(ma.Columns, func(c csvexport.Column[T], _ int) string { return c.Label }),
		Ordering: ma.Ordering,
		Filters: lo.Map(ma.Filters, func(f Filter, _ int) FilterMeta {
			return FilterMeta{Parameter: f.Parameter(), Title: f.Title()}
		}),
		Actions: lo.Map(ma.Actions, func(a Action[T], _ int) ActionMeta {
			return ActionMeta{Name: a.Name, Description: a.Description}
		}),
	}
}

func (ma *ModelAdmin[T]) base(db *gorm.DB) *gorm.DB {
	q := ma.Scope(db)
	for _, rel := range ma.Preload {
		q = q.Preload(rel)
	}
	return q
}

// Lookups returns the selectable values of every filter.
func (ma *ModelAdmin[T]) Lookups(ctx context.Context, env Env) ([]FilterLookup, error) {
	lookups := make([]FilterLookup, 0, len(ma.Filters))
	err := store.ReadTx(ctx, env.DB, func(tx *gorm.DB) error {
		for _, f := range ma.Filters {
			choices, err := f.Choices(ma.Scope(tx))
			if err != nil {
				return err
			}
			lookups = append(lookups, FilterLookup{Parameter: f.Parameter(), Title: f.Title(), Choices: choices})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lookups, nil
}

// List applies the filters, ordering and page window inside one read
// transaction so the filters and the page read the same snapshot.
func (ma *ModelAdmin[T]) List(ctx context.Context, env Env, req ListRequest) (*Listing, error) {
	page, limit := req.window()

	var (
		rows  []T
		total int64
	)
	err := store.ReadTx(ctx, env.DB, func(tx *gorm.DB) error {
		q := ma.Scope(tx)
		fc := FilterContext{Tx: tx, Now: env.Now}
		for _, f := range ma.Filters {
			value := req.Params[f.Parameter()]
			narrowed, err := f.Apply(fc, q, value)
			if err != nil {
				return err
			}
			q = narrowed
			if value != "" && env.Metrics != nil {
				env.Metrics.FilterApplied(ma.Name, f.Parameter())
			}
		}
		q = q.Session(&gorm.Session{})

		if err := q.Count(&total).Error; err != nil {
			return ierr.WithError(err).WithMessage("count " + ma.Name).Mark(ierr.ErrDatabase)
		}

		q = store.OrderBy(q, ma.Ordering...)
		for _, rel := range ma.Preload {
			q = q.Preload(rel)
		}
		if err := q.Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
			return ierr.WithError(err).WithMessage("list " + ma.Name).Mark(ierr.ErrDatabase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if env.Metrics != nil {
		env.Metrics.ListingServed(ma.Name)
	}
	meta := ma.Meta()
	return &Listing{
		Entity: ma.Name,
		Fields: meta.Fields,
		Labels: meta.Labels,
		IDs:    lo.Map(rows, func(row T, _ int) string { return ma.ID(row) }),
		Rows:   inline.Cells(rows, ma.Columns),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// Detail loads one row of this surface's partition with its inlines.
func (ma *ModelAdmin[T]) Detail(ctx context.Context, env Env, id string) (*Detail, error) {
	pk, err := ma.ParseID(id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Entity: ma.Name, ID: id}
	err = store.ReadTx(ctx, env.DB, func(tx *gorm.DB) error {
		var row T
		err := ma.base(tx).Where(clause.Eq{Column: clause.PrimaryColumn, Value: pk}).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ierr.NewErrorf("%s %s not found", ma.Name, id).Mark(ierr.ErrNotFound)
		}
		if err != nil {
			return ierr.WithError(err).WithMessage("load " + ma.Name).Mark(ierr.ErrDatabase)
		}
		detail.Record = row

		if ma.Extras != nil {
			detail.Extras = ma.Extras(row)
		}
		if ma.Inlines != nil {
			sections, err := ma.Inlines(tx, row)
			if err != nil {
				return err
			}
			detail.Inlines = sections
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Selected loads the selected rows that belong to this surface, in listing order.
// Ids outside the surface's partition are skipped.
func (ma *ModelAdmin[T]) Selected(ctx context.Context, env Env, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	pks := make([]any, 0, len(ids))
	for _, raw := range ids {
		pk, err := ma.ParseID(raw)
		if err != nil {
			return nil, err
		}
		pks = append(pks, pk)
	}

	var rows []T
	err := store.ReadTx(ctx, env.DB, func(tx *gorm.DB) error {
		q := ma.base(tx).Where(clause.IN{Column: clause.PrimaryColumn, Values: pks})
		if err := store.OrderBy(q, ma.Ordering...).Find(&rows).Error; err != nil {
			return ierr.WithError(err).WithMessage("load selected " + ma.Name).Mark(ierr.ErrDatabase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Run dispatches a named bulk action over the selected ids.
func (ma *ModelAdmin[T]) Run(ctx context.Context, env Env, name string, ids []string) (*ActionResult, error) {
	action, ok := lo.Find(ma.Actions, func(a Action[T]) bool { return a.Name == name })
	if !ok {
		return nil, ierr.NewErrorf("action %q is not available on %s", name, ma.Name).
			Mark(ierr.ErrNotFound)
	}

	started := time.Now()
	result, err := action.Run(ctx, env, ma, ids)
	if env.Metrics != nil {
		env.Metrics.ActionDuration(ma.Name, name, time.Since(started).Seconds())
	}
	return result, err
}

// ParseUUID parses uuid primary keys.
func ParseUUID(raw string) (any, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ierr.NewErrorf("invalid id %q", raw).
			WithHint("ids must be UUIDs").
			Mark(ierr.ErrValidation)
	}
	return id, nil
}

// ParseUint parses auto-increment primary keys.
func ParseUint(raw string) (any, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, ierr.NewErrorf("invalid id %q", raw).
			WithHint("ids must be positive integers").
			Mark(ierr.ErrValidation)
	}
	return uint(id), nil
}
