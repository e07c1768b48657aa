package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"disfactory.tw/backoffice/models"
)

// LiveFactories scopes a query to factories that are not in the recycle bin.
func LiveFactories(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Model(&models.Factory{}).Where("factories.deleted_at IS NULL")
}

// RecycledFactories scopes a query to soft-deleted factories.
func RecycledFactories(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Model(&models.Factory{}).Where("factories.deleted_at IS NOT NULL")
}

// AnyFactory reaches a factory in either partition, for detail views.
func AnyFactory(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Model(&models.Factory{})
}

// ownedBy scopes model rows to those whose factory is selected by owners.
func ownedBy(db *gorm.DB, model interface{}, column string, owners func(*gorm.DB) *gorm.DB) *gorm.DB {
	ids := owners(db.Session(&gorm.Session{NewDB: true})).Select("factories.id")
	return db.Model(model).Where(column+" IN (?)", ids)
}

// LiveImages and the other dependent scopes follow their factory's partition.
func LiveImages(db *gorm.DB) *gorm.DB {
	return ownedBy(db, &models.Image{}, "images.factory_id", LiveFactories)
}

func RecycledImages(db *gorm.DB) *gorm.DB {
	return ownedBy(db, &models.Image{}, "images.factory_id", RecycledFactories)
}

func LiveReportRecords(db *gorm.DB) *gorm.DB {
	return ownedBy(db, &models.ReportRecord{}, "report_records.factory_id", LiveFactories)
}

func RecycledReportRecords(db *gorm.DB) *gorm.DB {
	return ownedBy(db, &models.ReportRecord{}, "report_records.factory_id", RecycledFactories)
}

// MatchRegex narrows q to rows where column contains a match for pattern.
// The match is case-sensitive and unanchored on both dialects.
func MatchRegex(q *gorm.DB, column, pattern string) *gorm.DB {
	op := "REGEXP"
	if q.Dialector.Name() == DriverPostgres {
		op = "~"
	}
	return q.Where(clause.Expr{
		SQL:  "? " + op + " ?",
		Vars: []interface{}{clause.Column{Name: column}, pattern},
	})
}

// OrderBy applies Django-style ordering keys ("-created_at", "id").
func OrderBy(q *gorm.DB, keys ...string) *gorm.DB {
	for _, key := range keys {
		desc := false
		if len(key) > 0 && key[0] == '-' {
			desc = true
			key = key[1:]
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: key}, Desc: desc})
	}
	return q
}
