package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/procuredocs/pomatch/internal/common"
	"github.com/procuredocs/pomatch/internal/export"
	"github.com/procuredocs/pomatch/internal/extract"
	"github.com/procuredocs/pomatch/internal/ocr"
	"github.com/procuredocs/pomatch/internal/pipeline/matchpair"
	"github.com/procuredocs/pomatch/internal/repository"
	"github.com/procuredocs/pomatch/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open run store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close run store", "error", cerr)
		}
	}()

	runsRepo := repository.NewMatchRunRepository(db, cfg.Database.DSN, logger)

	textExtractor := ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger)

	var extractOpts []extract.Option
	extractOpts = append(extractOpts, extract.WithObserver(extract.SlogObserver(logger)))
	if cfg.Match.BuyerName != "" {
		extractOpts = append(extractOpts, extract.WithBuyerName(cfg.Match.BuyerName))
	}
	fieldExtractor := extract.NewExtractor(extractOpts...)

	p := matchpair.NewPipeline(logger, matchpair.Config{
		Policy:    cfg.Match.Policy,
		Threshold: cfg.Match.Threshold,
	}, textExtractor, fieldExtractor, runsRepo)

	exports := export.NewService(runsRepo, logger)

	srv := server.New(cfg.Server, p, runsRepo, exports, logger)
	if err := srv.Run(); err != nil {
		logger.Error("http server exited", "error", err)
		os.Exit(1)
	}
}
