package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/runner"
)

// RunRepository persists batch and gate run summaries
// ⭐ SSOT: 실행 이력 영속화는 여기서만
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run repository
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// RunRecord 저장된 실행 요약 한 건
type RunRecord struct {
	RunID     string          `json:"run_id"`
	Kind      string          `json:"kind"` // metrics | gate
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	RunKindMetrics = "metrics"
	RunKindGate    = "gate"
)

// SaveBatch persists a metrics batch result.
// 종목별 상세는 JSONB로 보관한다 — 조회 축은 run_id와 시각뿐.
func (r *RunRepository) SaveBatch(ctx context.Context, batch runner.BatchResult) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO runs.history (run_id, kind, started_at, duration_ms, payload)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.pool.Exec(ctx, query,
		batch.RunID, RunKindMetrics, batch.StartedAt, batch.Duration.Milliseconds(), payload,
	)
	return err
}

// SaveGateResult persists a quality gate run for one table.
func (r *RunRepository) SaveGateResult(ctx context.Context, runID, table string, startedAt time.Time, result quality.GateResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO runs.gate_history (run_id, table_name, started_at, passed, total_rows, valid_rows, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		runID, table, startedAt, result.Passed, result.TotalRows, result.ValidRows, payload,
	)
	return err
}

// GetRun retrieves one stored run by ID.
func (r *RunRepository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	query := `
		SELECT run_id, kind, started_at, duration_ms, payload
		FROM runs.history
		WHERE run_id = $1
	`

	var rec RunRecord
	var durationMs int64
	err := r.pool.QueryRow(ctx, query, runID).Scan(
		&rec.RunID, &rec.Kind, &rec.StartedAt, &durationMs, &rec.Payload,
	)
	if err != nil {
		return nil, err
	}
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	return &rec, nil
}

// ListRuns retrieves recent runs, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT run_id, kind, started_at, duration_ms, payload
		FROM runs.history
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var durationMs int64
		if err := rows.Scan(&rec.RunID, &rec.Kind, &rec.StartedAt, &durationMs, &rec.Payload); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetGateHistory retrieves recent gate runs for one table, newest first.
func (r *RunRepository) GetGateHistory(ctx context.Context, table string, limit int) ([]quality.GateResult, error) {
	query := `
		SELECT payload
		FROM runs.gate_history
		WHERE table_name = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, table, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []quality.GateResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var gr quality.GateResult
		if err := json.Unmarshal(payload, &gr); err != nil {
			return nil, err
		}
		results = append(results, gr)
	}
	return results, rows.Err()
}
