package matchpair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/common"
	"github.com/procuredocs/pomatch/internal/extract"
	"github.com/procuredocs/pomatch/internal/match"
	"github.com/procuredocs/pomatch/internal/ocr"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// RunStore persists finished runs. The pipeline works without one (nil store).
type RunStore interface {
	SaveRun(ctx context.Context, run *RunResult) error
}

// Config holds behavior flags for the match stage.
type Config struct {
	Policy    constants.MatchPolicy
	Threshold int // default 70
}

// DocumentResult is the per-side acquisition and extraction outcome.
type DocumentResult struct {
	Path       string            `json:"path"`
	DocType    constants.DocType `json:"doc_type"`
	Method     string            `json:"method"`
	Pages      int               `json:"pages"`
	Confidence float32           `json:"confidence"`
	Warnings   []string          `json:"warnings,omitempty"`
	Fields     extract.FieldMap  `json:"fields"`
}

// RunResult is the full outcome of one document pair run.
type RunResult struct {
	ID         uuid.UUID           `json:"id"`
	PO         DocumentResult      `json:"po"`
	Invoice    DocumentResult      `json:"invoice"`
	Verdict    match.Verdict       `json:"verdict"`
	Comparison match.Comparison    `json:"comparison"`
	Status     constants.RunStatus `json:"status"`
	StartedAt  time.Time           `json:"started_at"`
	Duration   time.Duration       `json:"duration"`
}

type Pipeline struct {
	Logger *slog.Logger
	Cfg    Config
	Text   TextExtractor
	Fields *extract.Extractor
	Store  RunStore
}

func NewPipeline(logger *slog.Logger, cfg Config, text TextExtractor, fields *extract.Extractor, store RunStore) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = match.DefaultThreshold
	}
	if cfg.Policy == "" {
		cfg.Policy = constants.PolicyThresholdGate
	}
	if fields == nil {
		fields = extract.NewExtractor()
	}
	return &Pipeline{Logger: logger, Cfg: cfg, Text: text, Fields: fields, Store: store}
}

// Run executes one reconciliation: acquire text for both sides, extract
// fields independently per side, match, persist. An insufficient extraction
// on either side short-circuits matching and reports INSUFFICIENT rather
// than a misleading low-confidence comparison.
func (p *Pipeline) Run(ctx context.Context, poPath, invPath string) (*RunResult, error) {
	start := time.Now()
	run := &RunResult{
		ID:        uuid.New(),
		Status:    constants.RunStatusRunning,
		StartedAt: start,
	}
	ctx = common.WithRunID(ctx, run.ID.String())

	po, poInsufficient, err := p.processDocument(ctx, poPath, constants.PurchaseOrder)
	if err != nil {
		run.Status = constants.RunStatusFailed
		return run, fmt.Errorf("purchase order: %w", err)
	}
	run.PO = po

	inv, invInsufficient, err := p.processDocument(ctx, invPath, constants.Invoice)
	if err != nil {
		run.Status = constants.RunStatusFailed
		return run, fmt.Errorf("invoice: %w", err)
	}
	run.Invoice = inv

	if poInsufficient || invInsufficient {
		run.Status = constants.RunStatusInsufficient
		run.Duration = time.Since(start)
		p.Logger.Warn("extraction insufficient, skipping match",
			"run_id", run.ID, "po_insufficient", poInsufficient, "invoice_insufficient", invInsufficient)
		p.save(ctx, run)
		return run, nil
	}

	verdict, cmp := match.Match(po.Fields, inv.Fields, match.Options{
		Policy:    p.Cfg.Policy,
		Threshold: p.Cfg.Threshold,
	})
	run.Verdict = verdict
	run.Comparison = cmp
	if verdict.IsMatch {
		run.Status = constants.RunStatusMatched
	} else {
		run.Status = constants.RunStatusNotMatched
	}
	run.Duration = time.Since(start)

	p.Logger.Info("match complete",
		"run_id", run.ID,
		"is_match", verdict.IsMatch,
		"policy", verdict.Policy,
		"duration_ms", run.Duration.Milliseconds(),
	)
	p.save(ctx, run)
	return run, nil
}

func (p *Pipeline) processDocument(ctx context.Context, path string, docType constants.DocType) (DocumentResult, bool, error) {
	res, err := p.Text.Extract(ctx, path)
	if err != nil {
		return DocumentResult{Path: path, DocType: docType}, false, common.WrapError(err, "acquire text")
	}
	doc := DocumentResult{
		Path:       path,
		DocType:    docType,
		Method:     res.Method,
		Pages:      res.Pages,
		Confidence: res.Confidence,
		Warnings:   res.Warnings,
	}
	p.Logger.Debug("text acquired",
		"run_id", common.RunIDFromContext(ctx),
		"request_id", common.RequestIDFromContext(ctx),
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
	)

	fields, err := p.Fields.Extract(res.Text, docType)
	insufficient := errors.Is(err, extract.ErrInsufficientFields)
	if err != nil && !insufficient {
		return doc, false, common.WrapError(err, "extract fields")
	}
	if verr := extract.ValidateFieldMap(docType, fields); verr != nil {
		// A shape violation means a pattern captured garbage. Not fatal:
		// the matcher normalizes malformed values to empty/zero.
		p.Logger.Warn("field map failed schema validation",
			"doc_type", docType, "path", path, "error", verr)
	}
	doc.Fields = fields
	return doc, insufficient, nil
}

func (p *Pipeline) save(ctx context.Context, run *RunResult) {
	if p.Store == nil {
		return
	}
	if err := p.Store.SaveRun(ctx, run); err != nil {
		p.Logger.Error("failed to persist run", "run_id", run.ID, "error", err)
	}
}
