package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/repository"
)

// Service produces CSV and XLSX exports of stored match runs.
type Service struct {
	repo   *repository.MatchRunRepository
	logger *slog.Logger
}

func NewService(repo *repository.MatchRunRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// header is the legacy matches.csv column layout: file names first, then the
// PO-side values and the invoice-side values per field in declared order.
func header() []string {
	cols := []string{"PO File", "Invoice File", "Match"}
	for _, f := range constants.FieldOrder {
		cols = append(cols, "PO_"+f)
	}
	for _, f := range constants.FieldOrder {
		cols = append(cols, "INV_"+f)
	}
	return cols
}

func runRow(r *repository.MatchRun) []string {
	row := []string{
		filepath.Base(r.POPath),
		filepath.Base(r.InvoicePath),
		fmt.Sprintf("%t", r.IsMatch),
	}
	for _, f := range constants.FieldOrder {
		row = append(row, r.POFields.Get(f))
	}
	for _, f := range constants.FieldOrder {
		row = append(row, r.InvoiceFields.Get(f))
	}
	return row
}

// ExportCSV returns all stored runs (most recent first) as CSV bytes.
func (s *Service) ExportCSV(ctx context.Context, limit int) ([]byte, error) {
	runs, err := s.repo.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header()); err != nil {
		return nil, err
	}
	for _, r := range runs {
		if err := w.Write(runRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	s.logger.Debug("csv export built", "runs", len(runs), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// ExportXLSX returns an XLSX workbook of stored runs with per-field scores on
// a second sheet.
func (s *Service) ExportXLSX(ctx context.Context, limit int) ([]byte, error) {
	runs, err := s.repo.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Matches"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range header() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for rowIdx, r := range runs {
		for colIdx, v := range runRow(r) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	const scoreSheet = "Scores"
	if _, err := f.NewSheet(scoreSheet); err != nil {
		return nil, err
	}
	scoreHeader := []string{"Run ID", "Status", "Policy", "Points"}
	for _, field := range constants.FieldOrder {
		scoreHeader = append(scoreHeader, field)
	}
	for i, h := range scoreHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(scoreSheet, cell, h)
	}
	for rowIdx, r := range runs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx+2)
			_ = f.SetCellValue(scoreSheet, cell, v)
		}
		write(1, r.ID.String())
		write(2, string(r.Status))
		write(3, string(r.Policy))
		write(4, r.Points)
		for i, field := range constants.FieldOrder {
			if fc, ok := r.Comparison[field]; ok {
				write(5+i, fc.Score)
			}
		}
	}

	// widen the file name columns
	_ = f.SetColWidth(sheet, "A", "B", 28)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Debug("xlsx export built", "runs", len(runs), "bytes", buf.Len())
	return buf.Bytes(), nil
}
