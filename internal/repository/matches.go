package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/common"
	"github.com/procuredocs/pomatch/internal/extract"
	"github.com/procuredocs/pomatch/internal/match"
	"github.com/procuredocs/pomatch/internal/pipeline/matchpair"
)

// MatchRun is the stored form of one reconciliation run.
type MatchRun struct {
	ID            uuid.UUID
	Status        constants.RunStatus
	Policy        constants.MatchPolicy
	Threshold     int
	IsMatch       bool
	Points        int
	POPath        string
	InvoicePath   string
	POFields      extract.FieldMap
	InvoiceFields extract.FieldMap
	Comparison    match.Comparison
	StartedAt     time.Time
	DurationMS    int64
}

// MatchRunRepository persists and lists match runs.
type MatchRunRepository struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

func NewMatchRunRepository(db *sql.DB, dsn string, logger *slog.Logger) *MatchRunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchRunRepository{db: db, driver: DriverName(dsn), logger: logger}
}

// SaveRun implements matchpair.RunStore. Field maps are backfilled before
// storage so exported rows show the missing-field placeholder.
func (r *MatchRunRepository) SaveRun(ctx context.Context, run *matchpair.RunResult) error {
	poFields, err := json.Marshal(run.PO.Fields.Backfill(constants.PurchaseOrder))
	if err != nil {
		return fmt.Errorf("marshal po fields: %w", err)
	}
	invFields, err := json.Marshal(run.Invoice.Fields.Backfill(constants.Invoice))
	if err != nil {
		return fmt.Errorf("marshal invoice fields: %w", err)
	}
	cmp, err := json.Marshal(run.Comparison)
	if err != nil {
		return fmt.Errorf("marshal comparison: %w", err)
	}

	q := rebind(r.driver, `
INSERT INTO match_run
	(id, status, policy, threshold, is_match, points, po_path, invoice_path,
	 po_fields, invoice_fields, comparison, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	isMatch := 0
	if run.Verdict.IsMatch {
		isMatch = 1
	}
	_, err = r.db.ExecContext(ctx, q,
		run.ID.String(),
		string(run.Status),
		string(run.Verdict.Policy),
		run.Verdict.Threshold,
		isMatch,
		run.Verdict.Points,
		run.PO.Path,
		run.Invoice.Path,
		string(poFields),
		string(invFields),
		string(cmp),
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert match run: %w", err)
	}
	r.logger.Debug("run persisted", "run_id", run.ID, "status", run.Status)
	return nil
}

// GetRun loads one run by ID.
func (r *MatchRunRepository) GetRun(ctx context.Context, id uuid.UUID) (*MatchRun, error) {
	q := rebind(r.driver, `
SELECT id, status, policy, threshold, is_match, points, po_path, invoice_path,
       po_fields, invoice_fields, comparison, started_at, duration_ms
FROM match_run WHERE id = ?`)
	row := r.db.QueryRowContext(ctx, q, id.String())
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, common.NewAppError("RUN_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	return run, err
}

// ListRuns returns runs ordered most recent first.
func (r *MatchRunRepository) ListRuns(ctx context.Context, limit int) ([]*MatchRun, error) {
	if limit <= 0 {
		limit = 100
	}
	q := rebind(r.driver, `
SELECT id, status, policy, threshold, is_match, points, po_path, invoice_path,
       po_fields, invoice_fields, comparison, started_at, duration_ms
FROM match_run ORDER BY started_at DESC LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*MatchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*MatchRun, error) {
	var run MatchRun
	var idStr, status, policy, poFields, invFields, comparison string
	var isMatch int
	err := s.Scan(&idStr, &status, &policy, &run.Threshold, &isMatch, &run.Points,
		&run.POPath, &run.InvoicePath, &poFields, &invFields, &comparison,
		&run.StartedAt, &run.DurationMS)
	if err != nil {
		return nil, err
	}
	run.IsMatch = isMatch != 0
	run.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse run id: %w", err)
	}
	run.Status = constants.RunStatus(status)
	run.Policy = constants.MatchPolicy(policy)
	if err := json.Unmarshal([]byte(poFields), &run.POFields); err != nil {
		return nil, fmt.Errorf("decode po fields: %w", err)
	}
	if err := json.Unmarshal([]byte(invFields), &run.InvoiceFields); err != nil {
		return nil, fmt.Errorf("decode invoice fields: %w", err)
	}
	if err := json.Unmarshal([]byte(comparison), &run.Comparison); err != nil {
		return nil, fmt.Errorf("decode comparison: %w", err)
	}
	return &run, nil
}
