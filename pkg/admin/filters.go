package admin

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"disfactory.tw/backoffice/pkg/activity"
	"disfactory.tw/backoffice/pkg/county"
	ierr "disfactory.tw/backoffice/pkg/errors"
)

// FilterContext is shared by the filters of one listing request.
type FilterContext struct {
	// Tx is the transaction the listing runs in.
	Tx  *gorm.DB
	Now time.Time
}

// Choice is one selectable filter value.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterLookup is a filter with its current choices.
type FilterLookup struct {
	Parameter string   `json:"parameter"`
	Title     string   `json:"title"`
	Choices   []Choice `json:"choices"`
}

// Filter narrows a listing by one query parameter. An empty value never narrows.
type Filter interface {
	Parameter() string
	Title() string
	// Choices lists the values offered to the admin; q is the surface's scoped query.
	Choices(q *gorm.DB) ([]Choice, error)
	Apply(fc FilterContext, q *gorm.DB, value string) (*gorm.DB, error)
}

// FieldFilter is an equality filter on one column; its choices are the
// distinct values present in the surface.
type FieldFilter struct {
	Field string
}

func (f FieldFilter) Parameter() string { return f.Field }
func (f FieldFilter) Title() string     { return f.Field }

func (f FieldFilter) Choices(q *gorm.DB) ([]Choice, error) {
	var values []string
	err := q.Distinct().
		Order(clause.OrderByColumn{Column: clause.Column{Name: f.Field}}).
		Pluck(f.Field, &values).Error
	if err != nil {
		return nil, ierr.WithError(err).WithMessage("lookup " + f.Field).Mark(ierr.ErrDatabase)
	}
	return lo.FilterMap(values, func(v string, _ int) (Choice, bool) {
		return Choice{Value: v, Label: v}, v != ""
	}), nil
}

func (f FieldFilter) Apply(_ FilterContext, q *gorm.DB, value string) (*gorm.DB, error) {
	if value == "" {
		return q, nil
	}
	return q.Where(clause.Eq{Column: clause.Column{Name: f.Field}, Value: value}), nil
}

// ReportActivityFilter keeps factories with report records in a window.
type ReportActivityFilter struct{}

func (ReportActivityFilter) Parameter() string { return activity.Parameter }
func (ReportActivityFilter) Title() string     { return "有舉報紀錄" }

func (ReportActivityFilter) Choices(*gorm.DB) ([]Choice, error) {
	return lo.Map(activity.Choices(), func(c activity.Choice, _ int) Choice {
		return Choice{Value: c.Value, Label: c.Label}
	}), nil
}

func (ReportActivityFilter) Apply(fc FilterContext, q *gorm.DB, value string) (*gorm.DB, error) {
	return activity.Filter(fc.Tx, q, value, fc.Now)
}

// CountyFilter keeps factories whose town name is in a county.
type CountyFilter struct{}

func (CountyFilter) Parameter() string { return county.Parameter }
func (CountyFilter) Title() string     { return "By county" }

func (CountyFilter) Choices(*gorm.DB) ([]Choice, error) {
	return lo.Map(county.All(), func(c county.County, _ int) Choice {
		return Choice{Value: c.Code, Label: c.Name}
	}), nil
}

func (CountyFilter) Apply(_ FilterContext, q *gorm.DB, value string) (*gorm.DB, error) {
	return county.Filter(q, value)
}
