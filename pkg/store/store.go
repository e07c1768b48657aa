// Package store adapts gorm to the record store the back-office needs:
// explicit live and recycled factory accessors, a case-sensitive regex
// predicate for both supported dialects, read-consistent transactions and
// the single-row restore write.
package store

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store wraps the gorm handle shared by every request.
type Store struct {
	db *gorm.DB
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Open connects to postgres or sqlite. The sqlite connection gets the
// regexp SQL function registered.
func Open(driver, dsn string, log *logger.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		// sqlite compares timestamps as text, so every stored time shares one zone
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(gormWriter{log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Dialector{DriverName: sqliteDriverName, DSN: dsn}
	default:
		return nil, ierr.NewErrorf("unsupported database driver %q", driver).
			WithHint("db.driver must be postgres or sqlite").
			Mark(ierr.ErrValidation)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, ierr.WithError(err).WithMessage("open database").Mark(ierr.ErrDatabase)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		// every :memory: connection is its own database
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Ping checks the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ierr.WithError(err).WithMessage("ping database").Mark(ierr.ErrDatabase)
	}
	return nil
}

// ReadTx runs fn in a read-only transaction. On postgres it is REPEATABLE
// READ so every statement inside fn sees the same snapshot; sqlite
// transactions are serializable already.
func ReadTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if db.Dialector.Name() == DriverPostgres {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	return db.WithContext(ctx).Transaction(fn, opts...)
}

type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	if w.log == nil {
		return
	}
	w.log.Warnf(format, args...)
}
