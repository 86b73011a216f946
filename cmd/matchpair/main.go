package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/common"
	"github.com/procuredocs/pomatch/internal/extract"
	"github.com/procuredocs/pomatch/internal/ocr"
	"github.com/procuredocs/pomatch/internal/pipeline/matchpair"
	"github.com/procuredocs/pomatch/internal/repository"
)

// matchpair runs one PO/invoice reconciliation from the command line and
// prints the result as JSON. Logs go to stderr so stdout stays parseable.
func main() {
	policy := flag.String("policy", string(constants.PolicyThresholdGate), "match policy: threshold | weighted")
	threshold := flag.Int("threshold", 70, "fuzzy score pass bar for text fields")
	save := flag.Bool("save", false, "persist the run to the store at DB_URL")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() != 2 {
		logger.Error("usage", "cmd", "matchpair [flags] <po.pdf> <invoice.pdf>")
		os.Exit(2)
	}
	poPath, invPath := flag.Arg(0), flag.Arg(1)

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var store matchpair.RunStore
	if *save {
		db, err := repository.Open(ctx, repository.Config{
			DSN:         cfg.Database.DSN,
			DialTimeout: cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("open run store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = repository.NewMatchRunRepository(db, cfg.Database.DSN, logger)
	}

	textExtractor := ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger)

	var opts []extract.Option
	opts = append(opts, extract.WithObserver(extract.SlogObserver(logger)))
	if cfg.Match.BuyerName != "" {
		opts = append(opts, extract.WithBuyerName(cfg.Match.BuyerName))
	}

	pol, ok := parsePolicy(*policy)
	if !ok {
		logger.Error("invalid policy", "policy", *policy)
		os.Exit(2)
	}

	p := matchpair.NewPipeline(logger, matchpair.Config{
		Policy:    pol,
		Threshold: *threshold,
	}, textExtractor, extract.NewExtractor(opts...), store)

	start := time.Now()
	run, err := p.Run(ctx, poPath, invPath)
	if err != nil {
		logger.Error("match run failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	out, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if run.Status == constants.RunStatusInsufficient {
		os.Exit(3)
	}
	if !run.Verdict.IsMatch {
		os.Exit(4)
	}
}

func parsePolicy(s string) (constants.MatchPolicy, bool) {
	switch constants.MatchPolicy(s) {
	case constants.PolicyThresholdGate:
		return constants.PolicyThresholdGate, true
	case constants.PolicyWeightedPoints:
		return constants.PolicyWeightedPoints, true
	}
	return "", false
}
