package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"zoracoin/internal/domain/stats"
)

// Compile-time check
var _ stats.Repository = (*StatsRepository)(nil)

const createToolInvocationsTable = `
	CREATE TABLE IF NOT EXISTS tool_invocations (
		invocation_id UUID,
		tool_name LowCardinality(String),
		outcome LowCardinality(String),
		timestamp DateTime64(3, 'UTC'),
		duration_ms UInt32,
		signer String,
		chain_id Int64,
		error_message String
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (tool_name, timestamp)
	TTL toDateTime(timestamp) + INTERVAL 90 DAY`

// StatsRepository implements stats.Repository using ClickHouse
type StatsRepository struct {
	conn driver.Conn
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(conn driver.Conn) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// EnsureSchema creates the journal table when missing
func (r *StatsRepository) EnsureSchema(ctx context.Context) error {
	return r.conn.Exec(ctx, createToolInvocationsTable)
}

// InsertInvocation inserts a single journal row
func (r *StatsRepository) InsertInvocation(ctx context.Context, inv *stats.ToolInvocation) error {
	query := `
		INSERT INTO tool_invocations (
			invocation_id, tool_name, outcome, timestamp,
			duration_ms, signer, chain_id, error_message
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	return r.conn.Exec(ctx, query,
		inv.InvocationID, inv.ToolName, inv.Outcome, inv.Timestamp,
		inv.DurationMs, inv.Signer, inv.ChainID, inv.ErrorMessage,
	)
}

// InsertInvocationBatch inserts multiple journal rows in one block
func (r *StatsRepository) InsertInvocationBatch(ctx context.Context, invocations []stats.ToolInvocation) error {
	if len(invocations) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO tool_invocations (
			invocation_id, tool_name, outcome, timestamp,
			duration_ms, signer, chain_id, error_message
		)
	`)
	if err != nil {
		return err
	}

	for i := range invocations {
		if err := batch.AppendStruct(&invocations[i]); err != nil {
			return err
		}
	}

	return batch.Send()
}

// GetOutcomes aggregates calls per tool and outcome. An empty toolName covers every tool.
func (r *StatsRepository) GetOutcomes(ctx context.Context, toolName string, since time.Time) ([]stats.ToolOutcomeAggregated, error) {
	var rows []stats.ToolOutcomeAggregated

	query := `
		SELECT
			tool_name,
			outcome,
			count() AS call_count,
			avg(duration_ms) AS avg_duration_ms
		FROM tool_invocations
		WHERE timestamp >= $1 AND ($2 = '' OR tool_name = $2)
		GROUP BY tool_name, outcome
		ORDER BY tool_name, outcome`

	err := r.conn.Select(ctx, &rows, query, since, toolName)
	return rows, err
}
