// Package database implements the Schema Bootstrapper (SPEC_FULL.md §4.3)
// and the low-level connection the rest of the kernel writes through. It
// follows the teacher's database/sqlite.go shape — a *sql.DB wrapper with an
// idempotent migrate step — generalized from an embedded sqlite file to a
// MySQL server connection, since the persistent store here is spec-mandated
// MySQL (spec.md §4.1 mysql: group), never an embedded file database.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/errs"
)

// DB wraps a single long-lived MySQL connection. The kernel scheduling model
// is strictly sequential (spec.md §5) so a pool of size 1 is sufficient and
// intentional, not an oversight.
type DB struct {
	*sql.DB
	log zerolog.Logger
}

// Open connects to the MySQL server, retrying up to 3 times with
// exponential backoff on ConnectionError (spec.md §4.11, §7), and pins the
// connection pool to size 1 per spec.md §5's single-writer model.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DB, error) {
	dsn := cfg.MySQL.DSN()

	var sqlDB *sql.DB
	operation := func() error {
		var err error
		sqlDB, err = sql.Open("mysql", dsn)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("opening mysql handle: %w", err))
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			sqlDB.Close()
			return err // retryable
		}
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(func() error {
		err := operation()
		if err != nil {
			log.Warn().Err(err).Msg("mysql connection attempt failed, retrying")
		}
		return err
	}, backoff.WithContext(bo, ctx)); err != nil {
		return nil, errs.New(errs.KindConnectionError, 0, fmt.Errorf("connecting to mysql after retries: %w", err))
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{DB: sqlDB, log: log}, nil
}

// EnsureDatabase connects at the server level (no database selected) and
// creates the target database if it is missing, using utf8mb4 (spec.md
// §4.3 ensure_database). It is idempotent: running it twice is a no-op.
func EnsureDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	serverCfg := *cfg
	serverCfg.MySQL.Database = ""
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/", cfg.MySQL.User, cfg.MySQL.Password, cfg.MySQL.Host, portOrDefault(cfg.MySQL.Port))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return errs.New(errs.KindConnectionError, 0, fmt.Errorf("opening server-level mysql handle: %w", err))
	}
	defer db.Close()

	name := cfg.EffectiveDatabase()
	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", name)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return errs.New(errs.KindConnectionError, 0, fmt.Errorf("creating database %s: %w", name, err))
	}
	log.Info().Str("database", name).Msg("database ensured")
	return nil
}

func portOrDefault(p int) int {
	if p == 0 {
		return 3306
	}
	return p
}

// WithRetryOnConstraintViolation retries fn once on a MySQL uniqueness/FK
// violation (spec.md §7 ConstraintViolation: "Retry the offending row once
// ... second failure is fatal for the batch").
func WithRetryOnConstraintViolation(ctx context.Context, fn func() error) error {
	if err := fn(); err != nil {
		if isConstraintViolation(err) {
			if err2 := fn(); err2 != nil {
				return errs.New(errs.KindConstraintViolation, 0, fmt.Errorf("retry failed: %w", err2))
			}
			return nil
		}
		return err
	}
	return nil
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	// go-sql-driver/mysql reports constraint errors with numeric codes
	// (1062 duplicate key, 1452 FK violation) embedded in the error text;
	// matching on that substring avoids importing the driver's internal
	// error type here.
	msg := err.Error()
	for _, code := range []string{"1062", "1452", "1451"} {
		if strings.Contains(msg, "Error "+code) {
			return true
		}
	}
	return false
}
