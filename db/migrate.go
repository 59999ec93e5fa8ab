// ABOUTME: Embedded goose migrations for the asset management schema
// ABOUTME: Serializes access to goose's package-level configuration
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

var gooseMu sync.Mutex

func configureGoose(log logrus.FieldLogger) error {
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	goose.SetLogger(log)
	goose.SetBaseFS(migrations)
	return goose.SetDialect("sqlite3")
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(log); err != nil {
		return fmt.Errorf("configure migrations: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every known migration.
func MigrationStatus(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(log); err != nil {
		return fmt.Errorf("configure migrations: %w", err)
	}
	return goose.StatusContext(ctx, db, "migrations")
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(db *sql.DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(nil); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}
