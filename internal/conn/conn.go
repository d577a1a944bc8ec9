// Package conn opens the target database and keeps retrying with
// exponential backoff until it is reachable or the wait grows past a ceiling.
package conn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/dbfaker/internal/config"
	"github.com/alfredjeanlab/dbfaker/internal/store"
)

// ErrBackoffExceeded is returned when the retry wait passes the ceiling.
var ErrBackoffExceeded = errors.New("giving up on connecting to the database")

// Defaults for a Supervisor.
const (
	DefaultBackoffCount = 5
	DefaultCeiling      = 60
	DefaultUnit         = time.Second
)

// Supervisor establishes the database handle. Each instance owns its own
// attempt counter and wait, so independent supervisors never interfere.
type Supervisor struct {
	// Open makes one connection attempt.
	Open func(ctx context.Context) (*sql.DB, error)
	// Sleep blocks for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error

	// BackoffCount is the failure count from which the wait doubles.
	BackoffCount int
	// Ceiling is the largest wait, in units, before giving up.
	Ceiling int
	// Unit is the length of one wait unit.
	Unit time.Duration

	logger   *slog.Logger
	attempts int
	wait     int
}

// New returns a Supervisor that opens conn with the driver of dialect.
func New(c config.Connection, dialect store.Dialect, logger *slog.Logger) *Supervisor {
	return NewWithOpener(func(ctx context.Context) (*sql.DB, error) {
		return open(ctx, c, dialect)
	}, logger)
}

// NewWithOpener returns a Supervisor using open for each attempt.
func NewWithOpener(open func(ctx context.Context) (*sql.DB, error), logger *slog.Logger) *Supervisor {
	return &Supervisor{
		Open:         open,
		Sleep:        sleep,
		BackoffCount: DefaultBackoffCount,
		Ceiling:      DefaultCeiling,
		Unit:         DefaultUnit,
		logger:       logger,
		wait:         1,
	}
}

// Attempts returns the number of failed attempts so far.
func (s *Supervisor) Attempts() int { return s.attempts }

// Wait returns the current wait in units.
func (s *Supervisor) Wait() int { return s.wait }

// Connect retries Open until it succeeds. After BackoffCount failures the
// wait doubles on every further failure; once it exceeds Ceiling, Connect
// returns ErrBackoffExceeded.
func (s *Supervisor) Connect(ctx context.Context) (*sql.DB, error) {
	for {
		db, err := s.Open(ctx)
		if err == nil {
			s.logger.Info("connected to database", "attempts", s.attempts+1)
			return db, nil
		}

		s.attempts++
		if s.attempts >= s.BackoffCount {
			s.wait *= 2
		}
		if s.wait > s.Ceiling {
			s.logger.Error("giving up on connecting to the database", "attempts", s.attempts, "err", err)
			return nil, fmt.Errorf("%w after %d attempts: %v", ErrBackoffExceeded, s.attempts, err)
		}

		d := time.Duration(s.wait) * s.Unit
		s.logger.Warn("couldn't connect to the database, trying again", "attempt", s.attempts, "wait", d, "err", err)
		if err := s.Sleep(ctx, d); err != nil {
			return nil, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func open(ctx context.Context, c config.Connection, dialect store.Dialect) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), DSN(c, dialect))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One table is processed at a time; a small pool is enough.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// DSN renders the connection parameters for dialect's driver.
func DSN(c config.Connection, dialect store.Dialect) string {
	addr := net.JoinHostPort(c.Host, c.Port)
	if dialect == store.Postgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     addr,
			Path:     "/" + c.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = c.DBName
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
