// Package db dials the graph store's backing database: SQLite (file path
// or libsql:// URL) or Postgres, chosen by the shape of the DSN, mirroring
// the teacher's two dialector-specific Connect functions merged into one
// switch.
package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/codegraph/graph"
)

// Connect opens a database connection for dsn and runs migrations. dsn
// may be a SQLite file path, ":memory:", a libsql:// (Turso) URL, or a
// postgres:// connection string.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	if isPostgres(dsn) {
		return connectPostgres(dsn, debug)
	}
	return connectSQLite(dsn, debug)
}

func gormConfig(debug bool) *gorm.Config {
	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	return cfg
}

func connectSQLite(dsn string, debug bool) (*gorm.DB, error) {
	if !isURL(dsn) && dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)

	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)

		token := os.Getenv("CODEGRAPH_LIBSQL_AUTH_TOKEN")
		if token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create libsql connector: %w", err)
		}

		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		})
	} else {
		dialector = sqlite.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, gormConfig(debug))
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return gdb, nil
}

func connectPostgres(dsn string, debug bool) (*gorm.DB, error) {
	if err := ensureDatabase(dsn); err != nil && debug {
		fmt.Printf("[WARN] could not ensure database exists: %v\n", err)
	}

	gdb, err := gorm.Open(postgres.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return gdb, nil
}

// ensureDatabase creates the target Postgres database if it doesn't exist
// yet, connecting to the admin "postgres" database to do so.
func ensureDatabase(dsn string) error {
	dbName := extractDBName(dsn)
	if dbName == "" {
		return fmt.Errorf("could not extract database name from DSN")
	}

	adminDSN := strings.Replace(dsn, "/"+dbName, "/postgres", 1)

	gdb, err := gorm.Open(postgres.Open(adminDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres db: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var exists bool
	gdb.Raw("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = ?)", dbName).Scan(&exists)

	if !exists {
		if err := gdb.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName)).Error; err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
	}

	return nil
}

func extractDBName(dsn string) string {
	parts := strings.Split(dsn, "/")
	if len(parts) < 4 {
		return ""
	}

	dbPart := parts[3]
	if idx := strings.Index(dbPart, "?"); idx > 0 {
		dbPart = dbPart[:idx]
	}

	return dbPart
}

// isURL reports whether dsn names a remote database (libsql/http/https)
// rather than a local SQLite file path.
func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql:")
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Migrate runs the graph schema's AutoMigrate across every model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&graph.Container{},
		&graph.Block{},
		&graph.BlockRelationship{},
		&graph.Migration{},
		&graph.SourceCodeBackup{},
		&graph.MigrationLog{},
	)
}
