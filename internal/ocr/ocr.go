package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/procuredocs/pomatch/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr" | "plain-text"
	Duration time.Duration
	Warnings []string
	// Confidence is a heuristic 0..1 estimate that the text looks like a
	// PO/invoice (identifier, date and amount shaped tokens present).
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on file extension. PDFs go through the text
// layer first and fall back to per-page OCR when the layer is empty.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text acquisition", "path", path, "ext", ext)
	switch ext {
	case "pdf":
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case "txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return ExtractionResult{}, fmt.Errorf("read text file: %w", err)
		}
		txt := Normalize(string(b))
		return ExtractionResult{
			Text:       txt,
			Pages:      1,
			Method:     "plain-text",
			Duration:   time.Since(start),
			Confidence: heuristicConfidence(txt),
		}, nil
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && strings.TrimSpace(text) != "" {
		txt := Normalize(text)
		return ExtractionResult{
			Text:       txt,
			Pages:      pages,
			Method:     "pdf-text",
			Warnings:   warns,
			Confidence: heuristicConfidence(txt),
		}, nil
	}
	if err != nil {
		warns = append(warns, fmt.Sprintf("pdftotext: %v", err))
	} else {
		warns = append(warns, "pdf text layer empty, falling back to ocr")
	}
	e.logger.Info("falling back to pdf ocr", "path", path)

	text, pages, w2, err := e.pdfToOCR(ctx, path)
	warns = append(warns, w2...)
	if err != nil {
		return ExtractionResult{Warnings: warns}, fmt.Errorf("pdf ocr: %w", err)
	}
	txt := Normalize(text)
	return ExtractionResult{
		Text:       txt,
		Pages:      pages,
		Method:     "pdf-ocr",
		Warnings:   warns,
		Confidence: heuristicConfidence(txt),
	}, nil
}
