package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"zoracoin/internal/adapters/config"
	"zoracoin/pkg/errors"
)

const (
	dialTimeout = 5 * time.Second
	pingTimeout = 2 * time.Second
)

// Client owns the connection pool behind the invocation journal.
// Writes come from the single batch writer goroutine.
type Client struct {
	conn     driver.Conn
	database string
}

// NewClient opens and pings a ClickHouse connection.
// An empty CLICKHOUSE_HOST is a ConfigurationError; callers treat the journal as disabled.
func NewClient(ctx context.Context, cfg config.ClickHouseConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.NewConfigurationError("CLICKHOUSE_HOST", "is empty")
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr()},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 30,
		},
		DialTimeout:     dialTimeout,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open clickhouse %s", cfg.Addr())
	}

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "failed to ping clickhouse %s", cfg.Addr())
	}

	return &Client{conn: conn, database: cfg.Database}, nil
}

// Conn returns the underlying ClickHouse connection
func (c *Client) Conn() driver.Conn {
	return c.conn
}

// Database returns the journal database name
func (c *Client) Database() string {
	return c.database
}

// Ping checks connectivity with a short timeout
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.conn.Ping(ctx); err != nil {
		return errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
