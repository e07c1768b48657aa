package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"disfactory.tw/backoffice/models"
	"disfactory.tw/backoffice/pkg/csvexport"
	"disfactory.tw/backoffice/pkg/lifecycle"
)

const (
	ActionExportCSV = "export_as_csv"
	ActionRestore   = "restore"
)

// Action is a named bulk operation over selected ids of one surface.
type Action[T any] struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env Env, ma *ModelAdmin[T], ids []string) (*ActionResult, error)
}

// ActionResult is either a file to download or a summary to show.
type ActionResult struct {
	File    *File `json:"-"`
	Summary any   `json:"summary,omitempty"`
}

// File is a generated download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// ExportAsCSV writes the selected rows using the surface's columns.
// An empty selection yields a header-only document.
func ExportAsCSV[T any]() Action[T] {
	return Action[T]{
		Name:        ActionExportCSV,
		Description: "Export Selected",
		Run: func(ctx context.Context, env Env, ma *ModelAdmin[T], ids []string) (*ActionResult, error) {
			rows, err := ma.Selected(ctx, env, ids)
			if err != nil {
				return nil, err
			}
			body, err := csvexport.Render(rows, ma.Columns)
			if err != nil {
				return nil, err
			}

			if env.Metrics != nil {
				env.Metrics.RowsExported(ma.Name, len(rows))
			}
			return &ActionResult{
				File: &File{
					Name:        fmt.Sprintf("%s_%s.csv", ma.Name, env.Now.Format("20060102_150405")),
					ContentType: "text/csv",
					Body:        body,
				},
				Summary: map[string]int{"exported": len(rows), "total": len(ids)},
			}, nil
		},
	}
}

// ItemError is a per-item failure of a bulk action.
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// RestoreSummary reports a bulk restore item by item.
type RestoreSummary struct {
	Restored    []string    `json:"restored"`
	AlreadyLive []string    `json:"already_live"`
	Failed      []ItemError `json:"failed"`
	Total       int         `json:"total"`
}

// RestoreAction moves the selected recycled factories back to the live listing.
// Unparseable ids fail individually like any other item. Each distinct id is
// counted once.
func RestoreAction(manager *lifecycle.Manager) Action[models.Factory] {
	return Action[models.Factory]{
		Name:        ActionRestore,
		Description: "Restore",
		Run: func(ctx context.Context, env Env, ma *ModelAdmin[models.Factory], ids []string) (*ActionResult, error) {
			summary := RestoreSummary{
				Restored:    []string{},
				AlreadyLive: []string{},
				Failed:      []ItemError{},
			}

			valid := make([]uuid.UUID, 0, len(ids))
			for _, raw := range lo.Uniq(ids) {
				id, err := uuid.Parse(raw)
				if err != nil {
					summary.Failed = append(summary.Failed, ItemError{ID: raw, Error: "invalid id"})
					continue
				}
				valid = append(valid, id)
			}

			report := manager.Restore(ctx, lo.Uniq(valid))
			summary.Restored = append(summary.Restored, lo.Map(report.Restored(), uuidString)...)
			summary.AlreadyLive = append(summary.AlreadyLive, lo.Map(report.AlreadyLive(), uuidString)...)
			for _, o := range report.Failed() {
				summary.Failed = append(summary.Failed, ItemError{ID: o.ID.String(), Error: o.Err.Error()})
			}
			summary.Total = len(summary.Restored) + len(summary.AlreadyLive) + len(summary.Failed)

			if env.Metrics != nil {
				for range summary.Restored {
					env.Metrics.ActionItem(ma.Name, ActionRestore, "restored")
				}
				for range summary.AlreadyLive {
					env.Metrics.ActionItem(ma.Name, ActionRestore, "already_live")
				}
				for range summary.Failed {
					env.Metrics.ActionItem(ma.Name, ActionRestore, "failed")
				}
			}
			return &ActionResult{Summary: summary}, nil
		},
	}
}

func uuidString(id uuid.UUID, _ int) string {
	return id.String()
}
