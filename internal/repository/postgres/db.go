package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/triage-assistant/internal/config"
)

// Connector opens a fresh database handle. The caller closes it.
type Connector func(ctx context.Context) (*sqlx.DB, error)

// DSN builds a lib/pq URL connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// NewDB connects and pings the database described by cfg.
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("failed to connect to database: host is not configured")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

// NewConnector returns a Connector that opens a new handle per call.
func NewConnector(cfg config.DatabaseConfig) Connector {
	return func(ctx context.Context) (*sqlx.DB, error) {
		return NewDB(ctx, cfg)
	}
}
