// Package inline assembles the read-only image and report-record tables
// shown under a factory's detail view, for live and recycled factories alike.
package inline

import (
	"fmt"
	"html"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
	"disfactory.tw/backoffice/pkg/csvexport"
	ierr "disfactory.tw/backoffice/pkg/errors"
)

// DefaultPreviewMaxWidth is the preview width cap in pixels.
const DefaultPreviewMaxWidth = 500

// Section is one rendered inline table. Extra and CanAdd are always zero:
// the back-office cannot add rows here.
type Section struct {
	Name   string     `json:"name"`
	Fields []string   `json:"fields"`
	Labels []string   `json:"labels"`
	Extra  int        `json:"extra"`
	CanAdd bool       `json:"can_add"`
	Rows   [][]string `json:"rows"`
}

// Composer renders the inline sections of a factory.
type Composer struct {
	previewMaxWidth int
}

// NewComposer builds a Composer; previewMaxWidth <= 0 uses DefaultPreviewMaxWidth.
func NewComposer(previewMaxWidth int) *Composer {
	if previewMaxWidth <= 0 {
		previewMaxWidth = DefaultPreviewMaxWidth
	}
	return &Composer{previewMaxWidth: previewMaxWidth}
}

// Preview renders the embed for an image path.
func (c *Composer) Preview(imagePath string) string {
	return fmt.Sprintf(`<img src="%s" style="max-width:%dpx; height:auto"/>`,
		html.EscapeString(imagePath), c.previewMaxWidth)
}

// ImageColumns are the image inline fields in display order. Nickname and
// contact come from the submitting report record and are empty without one.
func (c *Composer) ImageColumns() []csvexport.Column[models.Image] {
	return []csvexport.Column[models.Image]{
		{Name: "image_show", Label: "Image Preview", Value: func(i models.Image) any { return c.Preview(i.ImagePath) }},
		{Name: "created_at", Label: "created at", Value: func(i models.Image) any { return i.CreatedAt }},
		{Name: "get_report_nickname", Label: "Nickname", Value: func(i models.Image) any { return i.ReporterNickname() }},
		{Name: "get_report_contact", Label: "Contact", Value: func(i models.Image) any { return i.ReporterContact() }},
		{Name: "id", Label: "id", Value: func(i models.Image) any { return i.ID }},
		{Name: "image_path", Label: "image path", Value: func(i models.Image) any { return i.ImagePath }},
		{Name: "report_record", Label: "report record", Value: func(i models.Image) any { return i.ReportRecordID }},
	}
}

// ReportRecordColumns are the report-record inline fields in display order.
func ReportRecordColumns() []csvexport.Column[models.ReportRecord] {
	return []csvexport.Column[models.ReportRecord]{
		{Name: "created_at", Label: "created at", Value: func(r models.ReportRecord) any { return r.CreatedAt }},
		{Name: "nickname", Label: "nickname", Value: func(r models.ReportRecord) any { return r.Nickname }},
		{Name: "contact", Label: "contact", Value: func(r models.ReportRecord) any { return r.Contact }},
		{Name: "others", Label: "others", Value: func(r models.ReportRecord) any { return r.Others }},
		{Name: "action_type", Label: "action type", Value: func(r models.ReportRecord) any { return r.ActionType }},
		{Name: "action_body", Label: "action body", Value: func(r models.ReportRecord) any { return r.ActionBody }},
		{Name: "user_ip", Label: "user ip", Value: func(r models.ReportRecord) any { return r.UserIP }},
		{Name: "id", Label: "id", Value: func(r models.ReportRecord) any { return r.ID }},
	}
}

// LoadImages returns a factory's images with their report record, oldest first.
func LoadImages(tx *gorm.DB, factoryID uuid.UUID) ([]models.Image, error) {
	var images []models.Image
	err := tx.Preload("ReportRecord").
		Where("factory_id = ?", factoryID).
		Order("created_at").Order("id").
		Find(&images).Error
	if err != nil {
		return nil, ierr.WithError(err).WithMessage("load images").Mark(ierr.ErrDatabase)
	}
	return images, nil
}

// LoadReportRecords returns a factory's report records in insertion order.
func LoadReportRecords(tx *gorm.DB, factoryID uuid.UUID) ([]models.ReportRecord, error) {
	var records []models.ReportRecord
	if err := tx.Where("factory_id = ?", factoryID).Order("id").Find(&records).Error; err != nil {
		return nil, ierr.WithError(err).WithMessage("load report records").Mark(ierr.ErrDatabase)
	}
	return records, nil
}

// Compose renders both inline sections for a factory.
func (c *Composer) Compose(tx *gorm.DB, factoryID uuid.UUID) ([]Section, error) {
	images, err := LoadImages(tx, factoryID)
	if err != nil {
		return nil, err
	}
	records, err := LoadReportRecords(tx, factoryID)
	if err != nil {
		return nil, err
	}

	return []Section{
		section("images", images, c.ImageColumns()),
		section("report_records", records, ReportRecordColumns()),
	}, nil
}

func section[T any](name string, rows []T, columns []csvexport.Column[T]) Section {
	return Section{
		Name:   name,
		Fields: csvexport.Names(columns),
		Labels: lo.Map(columns, func(c csvexport.Column[T], _ int) string { return c.Label }),
		Rows:   Cells(rows, columns),
	}
}

// Cells renders rows through columns as display strings.
func Cells[T any](rows []T, columns []csvexport.Column[T]) [][]string {
	return lo.Map(rows, func(row T, _ int) []string {
		return lo.Map(columns, func(c csvexport.Column[T], _ int) string {
			return csvexport.Cell(c.Value(row))
		})
	})
}
