package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// PostgreSQL driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	dialect string
	loc     *time.Location
}

// Open connects to the database and runs auto-migration. For SQLite, dsn is
// a file path (or any modernc DSN); the recommended pragmas are added to it
// so that every pooled connection gets them.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var (
		sqlDriver string
		d         string
	)
	switch driver {
	case DriverSQLite, "":
		sqlDriver, d = "sqlite", dialect.SQLite
		dsn = sqliteDSN(dsn)
	case DriverPostgres, "pgx":
		sqlDriver, d = "pgx", dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, dialect: d, loc: time.Local}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(entsql.OpenDB(s.dialect, s.db))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the connection.
func (s *Store) Dialect() string {
	return s.dialect
}

// SetLocation sets the time zone review dates are interpreted in.
func (s *Store) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// ReviewStateRepo returns the review state repository.
func (s *Store) ReviewStateRepo() *ReviewStateRepo {
	return &ReviewStateRepo{s: s}
}

// BatchRepo returns the batch log repository.
func (s *Store) BatchRepo() *BatchRepo {
	return &BatchRepo{s: s}
}

// ItemRepo returns the item repository.
func (s *Store) ItemRepo() *ItemRepo {
	return &ItemRepo{s: s}
}

// NotebookRepo returns the notebook repository.
func (s *Store) NotebookRepo() *NotebookRepo {
	return &NotebookRepo{s: s}
}

// EventRepo returns the event repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// sqliteDSN turns a plain path into a modernc DSN carrying the pragmas.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	b.WriteString("&_time_format=sqlite")
	return b.String()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. WINGLISH_DB environment variable
// 2. $XDG_DATA_HOME/winglish/winglish.db
// 3. ~/.local/share/winglish/winglish.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("WINGLISH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "winglish", "winglish.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
