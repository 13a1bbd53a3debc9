package search

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teralab/itemdex/dataset"
	"github.com/teralab/itemdex/icon"
	"go.uber.org/zap"
)

// DefaultBatchSize bounds how many records one delivery batch carries.
const DefaultBatchSize = 100

// Engine executes searches against the open dataset. It is read-only and
// safe for concurrent use, except against a store handle mid-switch; dataset
// switches must cancel and await in-flight searches first (see Session).
type Engine struct {
	store     *dataset.Store
	icons     *icon.Loader
	batchSize int
	logger    *zap.Logger
}

// NewEngine creates an Engine. icons may be nil to skip asset attachment.
func NewEngine(store *dataset.Store, icons *icon.Loader, batchSize int, logger *zap.Logger) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Engine{store: store, icons: icons, batchSize: batchSize, logger: logger}
}

// Search runs the request to completion: query, row materialization, icon
// attachment. The row loop checks ctx on every iteration; a cancelled search
// returns ctx.Err(), never a partial result passed off as complete.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	db := e.store.DB()
	if db == nil {
		return nil, dataset.ErrNotOpen
	}

	query, args, limited := buildQuery(req)
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer rows.Close()

	var items []*ItemRecord
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("search: scan: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: rows: %w", err)
	}

	if e.icons != nil {
		e.attachIcons(ctx, items)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return &Result{Items: items, Limited: limited}, nil
}

// SearchBatches runs the request and hands the records to fn in id order in
// bounded batches, re-checking ctx between batches so a cancelled search
// stops emitting promptly. The returned Limited mirrors Result.Limited.
func (e *Engine) SearchBatches(ctx context.Context, req Request, fn func(batch []*ItemRecord) error) (bool, error) {
	res, err := e.Search(ctx, req)
	if err != nil {
		return false, err
	}
	for i := 0; i < len(res.Items); i += e.batchSize {
		if err := ctx.Err(); err != nil {
			return res.Limited, err
		}
		end := i + e.batchSize
		if end > len(res.Items) {
			end = len(res.Items)
		}
		if err := fn(res.Items[i:end]); err != nil {
			return res.Limited, err
		}
	}
	return res.Limited, nil
}

func (e *Engine) attachIcons(ctx context.Context, items []*ItemRecord) {
	refs := make([]string, len(items))
	for i, it := range items {
		refs[i] = it.Icon
	}
	assets := e.icons.Load(ctx, refs)
	for i, a := range assets {
		items[i].Asset = a
	}
}

// rowScanner is the subset of *sql.Rows the materializer needs.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(rows rowScanner) (*ItemRecord, error) {
	var (
		rec       ItemRecord
		linkID    sql.NullInt64
		balance   sql.NullString
		defense   sql.NullInt64
		impact    sql.NullString
		maxAttack sql.NullInt64
	)
	if err := rows.Scan(&rec.ID, &rec.Icon, &rec.Level, &rec.Name, &rec.Tooltip,
		&linkID, &balance, &defense, &impact, &maxAttack, &rec.RareGrade); err != nil {
		return nil, err
	}
	rec.LinkEquipmentID = int(linkID.Int64)
	if balance.Valid {
		rec.HasEquipmentStats = true
		rec.Balance = balance.String
		rec.Defense = int(defense.Int64)
		rec.Impact = impact.String
		rec.MaxAttack = int(maxAttack.Int64)
	}
	return &rec, nil
}
