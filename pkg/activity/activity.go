// Package activity narrows factory listings to factories with citizen
// report activity, optionally within a recent time window.
package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
	ierr "disfactory.tw/backoffice/pkg/errors"
)

// Parameter is the query parameter the filter reads.
const Parameter = "has_report_record_within"

// Mode selects which report records count as activity.
type Mode string

const (
	ModeAll   Mode = "all"
	ModeWeek  Mode = "7d"
	ModeMonth Mode = "30d"
	ModeNone  Mode = ""
)

// Choice is one selectable filter value.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var choices = []Choice{
	{string(ModeAll), "不限"},
	{string(ModeWeek), "最近一週"},
	{string(ModeMonth), "最近一個月"},
}

// Choices returns the filter values in presentation order.
func Choices() []Choice {
	out := make([]Choice, len(choices))
	copy(out, choices)
	return out
}

var windows = map[Mode]time.Duration{
	ModeWeek:  7 * 24 * time.Hour,
	ModeMonth: 30 * 24 * time.Hour,
}

// ParseMode maps a raw parameter value to a mode. Anything unrecognised
// means no filtering.
func ParseMode(value string) Mode {
	switch m := Mode(value); m {
	case ModeAll, ModeWeek, ModeMonth:
		return m
	default:
		return ModeNone
	}
}

// reported selects the distinct factory ids with a report record matching
// mode. Window bounds are compared in UTC, the zone records are stored in.
func reported(tx *gorm.DB, mode Mode, now time.Time) *gorm.DB {
	q := tx.Session(&gorm.Session{NewDB: true}).Model(&models.ReportRecord{})
	if window, ok := windows[mode]; ok {
		now = now.UTC()
		q = q.Where("report_records.created_at BETWEEN ? AND ?", now.Add(-window), now)
	}
	return q.Distinct("factory_id")
}

// FactoryIDs returns the distinct factory ids with a report record matching
// mode, evaluated against now. The bool is false when mode does not filter.
func FactoryIDs(tx *gorm.DB, mode Mode, now time.Time) ([]uuid.UUID, bool, error) {
	if mode == ModeNone {
		return nil, false, nil
	}

	var ids []uuid.UUID
	if err := reported(tx, mode, now).Pluck("factory_id", &ids).Error; err != nil {
		return nil, true, ierr.WithError(err).WithMessage("collect reported factory ids").Mark(ierr.ErrDatabase)
	}
	return ids, true, nil
}

// Filter narrows the factory query q to factories with activity. The id set
// is a subquery of q, so both run in tx against one snapshot and the set is
// never bound as parameters.
func Filter(tx, q *gorm.DB, value string, now time.Time) (*gorm.DB, error) {
	mode := ParseMode(value)
	if mode == ModeNone {
		return q, nil
	}
	return q.Where("factories.id IN (?)", reported(tx, mode, now)), nil
}
