package admin

import (
	"strconv"

	"gorm.io/gorm"

	"disfactory.tw/backoffice/models"
	"disfactory.tw/backoffice/pkg/csvexport"
	"disfactory.tw/backoffice/pkg/inline"
	"disfactory.tw/backoffice/pkg/lifecycle"
	"disfactory.tw/backoffice/pkg/store"
	"disfactory.tw/backoffice/utils"
)

// Surface names, used in URLs.
const (
	FactorySurface         = "factory"
	RecycledFactorySurface = "recycled_factory"
	ImageSurface           = "image"
	ReportRecordSurface    = "report_record"
	RecycledImageSurface   = "recycled_image"
	RecycledReportSurface  = "recycled_report_record"
)

func factoryName(f models.Factory) any { return f.DisplayName() }

// FactoryColumns is the live factory listing and export layout.
func FactoryColumns() []csvexport.Column[models.Factory] {
	return []csvexport.Column[models.Factory]{
		{Name: "name", Label: "name", Value: factoryName},
		{Name: "created_at", Label: "created at", Value: func(f models.Factory) any { return f.CreatedAt }},
		{Name: "lat", Label: "lat", Value: func(f models.Factory) any { return f.Lat }},
		{Name: "lng", Label: "lng", Value: func(f models.Factory) any { return f.Lng }},
		{Name: "landcode", Label: "landcode", Value: func(f models.Factory) any { return f.Landcode }},
		{Name: "sectcode", Label: "sectcode", Value: func(f models.Factory) any { return f.Sectcode }},
		{Name: "sectname", Label: "sectname", Value: func(f models.Factory) any { return f.Sectname }},
		{Name: "towncode", Label: "towncode", Value: func(f models.Factory) any { return f.Towncode }},
		{Name: "townname", Label: "townname", Value: func(f models.Factory) any { return f.Townname }},
		{Name: "factory_type", Label: "factory type", Value: func(f models.Factory) any { return f.FactoryType }},
		{Name: "id", Label: "id", Value: func(f models.Factory) any { return f.ID }},
	}
}

// RecycledFactoryColumns is the recycle-bin listing and export layout.
func RecycledFactoryColumns() []csvexport.Column[models.Factory] {
	return []csvexport.Column[models.Factory]{
		{Name: "name", Label: "name", Value: factoryName},
		{Name: "deleted_at", Label: "deleted at", Value: func(f models.Factory) any { return f.DeletedAt }},
		{Name: "id", Label: "id", Value: func(f models.Factory) any { return f.ID }},
	}
}

// ImageColumns is the image listing and export layout.
func ImageColumns() []csvexport.Column[models.Image] {
	return []csvexport.Column[models.Image]{
		{Name: "id", Label: "id", Value: func(i models.Image) any { return i.ID }},
		{Name: "factory", Label: "factory", Value: func(i models.Image) any { return i.FactoryID }},
		{Name: "report_record", Label: "report record", Value: func(i models.Image) any { return i.ReportRecordID }},
		{Name: "image_path", Label: "image path", Value: func(i models.Image) any { return i.ImagePath }},
		{Name: "get_report_nickname", Label: "Nickname", Value: func(i models.Image) any { return i.ReporterNickname() }},
		{Name: "get_report_contact", Label: "Contact", Value: func(i models.Image) any { return i.ReporterContact() }},
		{Name: "created_at", Label: "created at", Value: func(i models.Image) any { return i.CreatedAt }},
	}
}

// ReportRecordColumns is the report-record listing and export layout.
func ReportRecordColumns() []csvexport.Column[models.ReportRecord] {
	return []csvexport.Column[models.ReportRecord]{
		{Name: "id", Label: "id", Value: func(r models.ReportRecord) any { return r.ID }},
		{Name: "factory", Label: "factory", Value: func(r models.ReportRecord) any { return r.FactoryID }},
		{Name: "action_type", Label: "action type", Value: func(r models.ReportRecord) any { return r.ActionType }},
		{Name: "nickname", Label: "nickname", Value: func(r models.ReportRecord) any { return r.Nickname }},
		{Name: "contact", Label: "contact", Value: func(r models.ReportRecord) any { return r.Contact }},
		{Name: "others", Label: "others", Value: func(r models.ReportRecord) any { return r.Others }},
		{Name: "user_ip", Label: "user ip", Value: func(r models.ReportRecord) any { return r.UserIP }},
		{Name: "created_at", Label: "created at", Value: func(r models.ReportRecord) any { return r.CreatedAt }},
	}
}

func factoryID(f models.Factory) string { return f.ID.String() }

func factoryExtras(f models.Factory) map[string]any {
	state := f.State()
	extras := map[string]any{"state": state.Name()}
	if recycled, ok := state.(models.Recycled); ok {
		extras["deleted_at"] = recycled.DeletedAt
	}

	location, err := utils.PointFeature(utils.Coordinate{Lat: f.Lat, Lng: f.Lng})
	if err != nil {
		extras["location_error"] = err.Error()
	} else {
		extras["location"] = location
	}
	return extras
}

// NewFactoryAdmin is the live factory surface.
func NewFactoryAdmin(composer *inline.Composer) *ModelAdmin[models.Factory] {
	return &ModelAdmin[models.Factory]{
		Name:     FactorySurface,
		Title:    "Factories",
		Scope:    store.LiveFactories,
		ID:       factoryID,
		ParseID:  ParseUUID,
		Columns:  FactoryColumns(),
		Ordering: []string{"-created_at"},
		Filters: []Filter{
			FieldFilter{Field: "cet_report_status"},
			FieldFilter{Field: "source"},
			FieldFilter{Field: "factory_type"},
			ReportActivityFilter{},
			CountyFilter{},
		},
		Actions: []Action[models.Factory]{ExportAsCSV[models.Factory]()},
		Inlines: func(tx *gorm.DB, f models.Factory) ([]inline.Section, error) {
			return composer.Compose(tx, f.ID)
		},
		Extras: factoryExtras,
	}
}

// NewRecycledFactoryAdmin is the recycle-bin surface.
func NewRecycledFactoryAdmin(composer *inline.Composer, manager *lifecycle.Manager) *ModelAdmin[models.Factory] {
	return &ModelAdmin[models.Factory]{
		Name:     RecycledFactorySurface,
		Title:    "Recycled factories",
		Scope:    store.RecycledFactories,
		ID:       factoryID,
		ParseID:  ParseUUID,
		Columns:  RecycledFactoryColumns(),
		Ordering: []string{"-deleted_at"},
		Actions: []Action[models.Factory]{
			ExportAsCSV[models.Factory](),
			RestoreAction(manager),
		},
		Inlines: func(tx *gorm.DB, f models.Factory) ([]inline.Section, error) {
			return composer.Compose(tx, f.ID)
		},
		Extras: factoryExtras,
	}
}

// NewImageAdmin is the read-only image surface over one factory partition.
func NewImageAdmin(name, title string, scope func(*gorm.DB) *gorm.DB) *ModelAdmin[models.Image] {
	return &ModelAdmin[models.Image]{
		Name:     name,
		Title:    title,
		Scope:    scope,
		ID:       func(i models.Image) string { return i.ID.String() },
		ParseID:  ParseUUID,
		Columns:  ImageColumns(),
		Ordering: []string{"-created_at"},
		Actions:  []Action[models.Image]{ExportAsCSV[models.Image]()},
		Preload:  []string{"ReportRecord"},
	}
}

// NewReportRecordAdmin is the read-only report-record surface over one factory partition.
func NewReportRecordAdmin(name, title string, scope func(*gorm.DB) *gorm.DB) *ModelAdmin[models.ReportRecord] {
	return &ModelAdmin[models.ReportRecord]{
		Name:     name,
		Title:    title,
		Scope:    scope,
		ID:       func(r models.ReportRecord) string { return strconv.FormatUint(uint64(r.ID), 10) },
		ParseID:  ParseUint,
		Columns:  ReportRecordColumns(),
		Ordering: []string{"-created_at"},
		Filters:  []Filter{FieldFilter{Field: "action_type"}},
		Actions:  []Action[models.ReportRecord]{ExportAsCSV[models.ReportRecord]()},
	}
}

// Build registers every surface on a new Site.
func Build(db *gorm.DB, restorer lifecycle.Restorer, cfg BuildConfig, opts ...SiteOption) (*Site, error) {
	site := NewSite(db, opts...)
	composer := inline.NewComposer(cfg.PreviewMaxWidth)
	manager := lifecycle.NewManager(restorer, site.log, cfg.RestoreConcurrency)

	entities := []Entity{
		NewFactoryAdmin(composer),
		NewRecycledFactoryAdmin(composer, manager),
		NewImageAdmin(ImageSurface, "Images", store.LiveImages),
		NewReportRecordAdmin(ReportRecordSurface, "Report records", store.LiveReportRecords),
		NewImageAdmin(RecycledImageSurface, "Recycled images", store.RecycledImages),
		NewReportRecordAdmin(RecycledReportSurface, "Recycled report records", store.RecycledReportRecords),
	}
	for _, e := range entities {
		if err := site.Register(e); err != nil {
			return nil, err
		}
	}
	return site, nil
}

// BuildConfig tunes the surfaces.
type BuildConfig struct {
	PreviewMaxWidth    int
	RestoreConcurrency int
}
