package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/riskval/internal/risk"
)

// PriceRepository loads price series for the risk engine
// ⭐ SSOT: 가격 시계열 조회는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetSeries retrieves the close-price series for one asset within a date range.
// 엔진 입력 규약: 시간 오름차순 정렬.
func (r *PriceRepository) GetSeries(ctx context.Context, asset string, from, to time.Time) (risk.PriceSeries, error) {
	query := `
		SELECT trade_date, close_price
		FROM data.daily_prices
		WHERE asset_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, asset, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series risk.PriceSeries
	for rows.Next() {
		var p risk.PricePoint
		if err := rows.Scan(&p.Time, &p.Price); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// GetBatch retrieves series for multiple assets in one round trip per asset set.
func (r *PriceRepository) GetBatch(ctx context.Context, assets []string, from, to time.Time) (map[string]risk.PriceSeries, error) {
	query := `
		SELECT asset_code, trade_date, close_price
		FROM data.daily_prices
		WHERE asset_code = ANY($1) AND trade_date BETWEEN $2 AND $3
		ORDER BY asset_code, trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, assets, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batch := make(map[string]risk.PriceSeries, len(assets))
	for rows.Next() {
		var asset string
		var p risk.PricePoint
		if err := rows.Scan(&asset, &p.Time, &p.Price); err != nil {
			return nil, err
		}
		batch[asset] = append(batch[asset], p)
	}
	return batch, rows.Err()
}

// ListAssets returns the distinct asset codes present in the given range.
func (r *PriceRepository) ListAssets(ctx context.Context, from, to time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT asset_code
		FROM data.daily_prices
		WHERE trade_date BETWEEN $1 AND $2
		ORDER BY asset_code
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []string
	for rows.Next() {
		var asset string
		if err := rows.Scan(&asset); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// Save upserts a single price point for an asset.
func (r *PriceRepository) Save(ctx context.Context, asset string, p risk.PricePoint) error {
	query := `
		INSERT INTO data.daily_prices (asset_code, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset_code, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	_, err := r.pool.Exec(ctx, query, asset, p.Time, p.Price)
	return err
}
