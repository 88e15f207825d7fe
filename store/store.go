package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/clientdesk/clientdesk/app"
	"github.com/spf13/viper"
)

// DB is the minimal database contract used by the repositories.
// It mirrors the methods we use from *sql.DB and can be backed by *sql.DB or
// a thin wrapper, which lets us add cross-cutting features (SQL logging,
// tracing) without touching the repository code.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
	Close() error
}

// stdDB adapts *sql.DB to the DB interface.
type stdDB struct{ *sql.DB }

func (d stdDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, query, args...)
}

func (d stdDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, query, args...)
}

func (d stdDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.DB.QueryRowContext(ctx, query, args...)
}

func (d stdDB) PingContext(ctx context.Context) error { return d.DB.PingContext(ctx) }

// loggingDB is a thin wrapper around DB that logs SQL statements.
// It does not attempt to pretty-print SQL; enable it in dev/test or when
// observability is needed.
type loggingDB struct {
	inner  DB
	logger *log.Logger
}

func (d loggingDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.inner.ExecContext(ctx, query, args...)
	d.logger.Printf("store exec dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return res, err
}

func (d loggingDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.inner.QueryContext(ctx, query, args...)
	d.logger.Printf("store query dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return rows, err
}

func (d loggingDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.inner.QueryRowContext(ctx, query, args...)
	d.logger.Printf("store query-row dur=%s sql=%q args=%v", time.Since(start), query, args)
	return row
}

func (d loggingDB) PingContext(ctx context.Context) error { return d.inner.PingContext(ctx) }

func (d loggingDB) Close() error { return d.inner.Close() }

// WithSQLLogger wraps db with a SQL logger if logger is not nil.
func WithSQLLogger(db DB, logger *log.Logger) DB {
	if logger == nil {
		return db
	}
	return loggingDB{inner: db, logger: logger}
}

var (
	defaultDS DB
	// dsRegistry holds named datasources keyed by config name.
	dsRegistry = map[string]DB{}
	dsMu       sync.RWMutex

	initOnce sync.Once
	initErr  error

	// sqlLogger, when set, enables SQL logging for all datasources
	// registered after the call.
	sqlLogger *log.Logger
)

// SetSQLLogger enables SQL logging for subsequently registered datasources.
// Call it early, before any DefaultDS/GetDS call.
func SetSQLLogger(l *log.Logger) {
	sqlLogger = l
}

const (
	UserKey       = "${user}"
	PasswordKey   = "${password}"
	HostKey       = "${host}"
	defaultDSName = "default"
)

type dataSource struct {
	Driver   string   `mapstructure:"driver" yaml:"driver"`
	User     string   `mapstructure:"user" yaml:"user"`
	Password string   `mapstructure:"password" yaml:"password"`
	Host     string   `mapstructure:"host" yaml:"host"`
	URL      string   `mapstructure:"url" yaml:"url"`
	Scripts  []string `mapstructure:"scripts" yaml:"scripts"`
}

// DSNChecked returns the final connection string for sql.Open and validates
// placeholder usage.
//
// Go database drivers don't share a single standard DSN format, so the `url`
// field is required and must be a driver-specific DSN/URI, optionally
// containing ${user}, ${password} and ${host} placeholders. A placeholder
// without a corresponding non-empty field is an error; this fail-fast guard
// prevents connecting with blank credentials due to misconfiguration.
func (ds dataSource) DSNChecked() (string, error) {
	if strings.TrimSpace(ds.URL) == "" {
		return "", fmt.Errorf("dsn requires url")
	}
	if strings.Contains(ds.URL, UserKey) && ds.User == "" {
		return "", fmt.Errorf("dsn requires user")
	}
	if strings.Contains(ds.URL, PasswordKey) && ds.Password == "" {
		return "", fmt.Errorf("dsn requires password")
	}
	if strings.Contains(ds.URL, HostKey) && ds.Host == "" {
		return "", fmt.Errorf("dsn requires host")
	}
	return ds.DSN(), nil
}

// DSN substitutes the ${user}, ${password} and ${host} placeholders in
// ds.URL. A URL without placeholders is returned as-is.
func (ds dataSource) DSN() string {
	dsn := strings.ReplaceAll(ds.URL, UserKey, ds.User)
	dsn = strings.ReplaceAll(dsn, PasswordKey, ds.Password)
	return strings.ReplaceAll(dsn, HostKey, ds.Host)
}

// Open opens and pings a database and wraps it in the DB interface,
// honouring the configured SQL logger. Tests and tooling use it directly;
// configured datasources go through the registry instead.
func Open(driver, dsn string) (DB, error) {
	raw, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s datasource: %w", driver, err)
	}
	if err = raw.PingContext(context.Background()); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping %s datasource: %w", driver, err)
	}
	var db DB = stdDB{DB: raw}
	if sqlLogger != nil {
		db = WithSQLLogger(db, sqlLogger)
	}
	return db, nil
}

// registerDataSource opens a connection from cfg, runs its bootstrap scripts
// and registers it under the provided name (empty name means default).
func registerDataSource(name string, cfg dataSource) error {
	if name == "" {
		name = defaultDSName
	}
	if cfg.Driver == "" {
		return fmt.Errorf("driver is required to register datasource %q", name)
	}
	dsn, err := cfg.DSNChecked()
	if err != nil {
		return fmt.Errorf("invalid dsn for datasource %q: %w", name, err)
	}
	db, err := Open(cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("datasource %q: %w", name, err)
	}
	if err = runScripts(db, cfg.Scripts); err != nil {
		_ = db.Close()
		return fmt.Errorf("bootstrap datasource %q: %w", name, err)
	}

	dsMu.Lock()
	defer dsMu.Unlock()
	dsRegistry[name] = db
	if name == defaultDSName && defaultDS == nil {
		defaultDS = db
	}
	return nil
}

// runScripts executes the configured SQL script files in order. Paths are
// resolved against the project root first, then the working directory.
// Statements are split on ';' so the scripts work across drivers that do not
// accept multi-statement Exec calls.
func runScripts(db DB, scripts []string) error {
	for _, script := range scripts {
		body, err := readScript(script)
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(body), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err = db.ExecContext(context.Background(), stmt); err != nil {
				return fmt.Errorf("script %s: %w", script, err)
			}
		}
	}
	return nil
}

func readScript(path string) ([]byte, error) {
	if filepath.IsAbs(path) {
		return os.ReadFile(path)
	}
	if root, ok := app.ProjectRoot(); ok {
		if body, err := os.ReadFile(filepath.Join(root, path)); err == nil {
			return body, nil
		}
	}
	return os.ReadFile(path)
}

func initDataSources() error {
	initOnce.Do(func() {
		res := app.Config()
		if res.IsError() {
			initErr = res.Error()
			return
		}
		raw := res.MustGet().GetStringMap("datasource")
		for name, val := range raw {
			child := viper.New()
			m, ok := val.(map[string]any)
			if !ok {
				initErr = fmt.Errorf("datasource %s: expected a mapping", name)
				return
			}
			if err := child.MergeConfigMap(m); err != nil {
				initErr = fmt.Errorf("merge datasource %s: %w", name, err)
				return
			}
			var ds dataSource
			if err := child.Unmarshal(&ds); err != nil {
				initErr = fmt.Errorf("unmarshal datasource %s: %w", name, err)
				return
			}
			if err := registerDataSource(name, ds); err != nil {
				initErr = err
				return
			}
		}
	})
	return initErr
}

// GetDS returns a registered datasource by name.
func GetDS(name string) (DB, bool) {
	_ = initDataSources()
	if name == "" {
		name = defaultDSName
	}
	dsMu.RLock()
	defer dsMu.RUnlock()
	db, ok := dsRegistry[name]
	return db, ok
}

// DefaultDS returns the default datasource, initializing the registry from
// configuration on first use.
func DefaultDS() (DB, error) {
	if err := initDataSources(); err != nil {
		return nil, err
	}
	dsMu.RLock()
	defer dsMu.RUnlock()
	if defaultDS != nil {
		return defaultDS, nil
	}
	if db, ok := dsRegistry[defaultDSName]; ok {
		return db, nil
	}
	return nil, fmt.Errorf("no default datasource configured")
}

// CloseAllDataSources closes and removes every registered datasource.
// It returns the first error encountered while closing, if any.
func CloseAllDataSources() error {
	dsMu.Lock()
	defer dsMu.Unlock()
	var firstErr error
	for name, db := range dsRegistry {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(dsRegistry, name)
	}
	defaultDS = nil
	return firstErr
}
