// ABOUTME: Standalone schema migration utility for the asset database
// ABOUTME: Backs up the SQLite file, then reports or applies pending goose migrations

package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/johanaerens/assetmanagement/config"
	"github.com/johanaerens/assetmanagement/db"
	"github.com/johanaerens/assetmanagement/logging"
)

func main() {
	configFile := flag.String("config", "", "Config file (default: ./config.yaml or $XDG_CONFIG_HOME/assetmanagement/config.yaml)")
	dbPath := flag.String("db", "", "Path to database file (default: database.path from config)")
	dryRun := flag.Bool("dry-run", false, "Show migration status without making changes")
	backup := flag.Bool("backup", true, "Create backup before migration")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	path := cfg.Database.Path
	if *dbPath != "" {
		path = *dbPath
	}

	if err := migrate(context.Background(), log, path, *dryRun, *backup); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if !*dryRun {
		log.Info("migration completed successfully")
	}
}

func migrate(ctx context.Context, log *logrus.Logger, dbPath string, dryRun, createBackup bool) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", dbPath)
	}

	if createBackup && !dryRun {
		backupPath := fmt.Sprintf("%s.backup.%s", dbPath, time.Now().Format("20060102-150405"))
		if err := copyFile(dbPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.WithField("path", backupPath).Info("backup created")
	}

	database, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	version, err := db.SchemaVersion(database)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.WithField("version", version).Info("current schema version")

	if dryRun {
		return db.MigrationStatus(ctx, database, log)
	}
	return db.Migrate(ctx, database, log)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
