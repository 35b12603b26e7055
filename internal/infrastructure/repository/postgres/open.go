package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	preparedBinaryParam = "disable_prepared_binary_result"
	maxTracedQueryLen   = 512
	defaultPingTimeout  = 5 * time.Second
)

// ConnConfig is how the api and the migrator reach Postgres.
type ConnConfig struct {
	URL string
	// DisablePreparedBinary asks pq for text results, which poolers in
	// transaction mode need. An explicit value in URL wins.
	DisablePreparedBinary bool
	PingTimeout           time.Duration
}

// ConnString is URL with the prepared-binary switch applied.
func (c ConnConfig) ConnString() string {
	raw := strings.TrimSpace(c.URL)
	if !c.DisablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Get(preparedBinaryParam) != "" {
		return raw
	}
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// DatabaseName reads dbname from a URL or a key=value DSN; "" when absent.
func DatabaseName(raw string) string {
	dsn := strings.TrimSpace(raw)
	if strings.Contains(dsn, "://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return ""
		}
		dsn = converted
	}
	for _, field := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// Open connects through otelsqlx so every query becomes a span, then pings.
func Open(ctx context.Context, cfg ConnConfig) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", cfg.ConnString(),
		otelsql.WithDBName(DatabaseName(cfg.URL)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// traceQuery collapses whitespace and caps the statement recorded on spans.
func traceQuery(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if len(collapsed) <= maxTracedQueryLen {
		return collapsed
	}
	return collapsed[:maxTracedQueryLen] + "..."
}
