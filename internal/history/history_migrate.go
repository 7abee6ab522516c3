package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/estimation-reporter/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// LatestVersion is the schema version that opening a store migrates to.
const LatestVersion = 2

// Migrate runs database migrations for the run history.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return migrateTo(os.Stdout, backend, connStr, targetVersion)
}

// migrateTo is Migrate with an explicit progress writer.
func migrateTo(w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for the none backend")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	from, to, err := migrateDB(db, backend, targetVersion)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", from)
		return nil
	case err != nil:
		return err
	}
	_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", from, to)
	return nil
}

// newMigrator wires the embedded migrations for backend to an open database.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "estimation", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateDB moves an open database to targetVersion and reports the versions
// before and after. It returns migrate.ErrNoChange when nothing was applied.
// The migrator is not closed since that would close db.
func migrateDB(db *sql.DB, backend schema.DatabaseBackend, targetVersion int) (uint, uint, error) {
	m, err := newMigrator(db, backend)
	if err != nil {
		return 0, 0, err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return currentVersion, currentVersion, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return currentVersion, currentVersion, err
	}
	if err != nil {
		return currentVersion, currentVersion, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	newVersion, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return currentVersion, 0, nil
	}
	if err != nil {
		return currentVersion, 0, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return currentVersion, newVersion, nil
}

// isNoChange reports whether a migration had nothing to apply.
func isNoChange(err error) bool {
	return errors.Is(err, migrate.ErrNoChange)
}
