package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"tarifario/internal/config"
	"tarifario/internal/extract"
	"tarifario/internal/handler"
	"tarifario/internal/logging"
	"tarifario/internal/repository/postgres"
	"tarifario/internal/router"
	"tarifario/internal/service"
	s3storage "tarifario/internal/storage/s3"
	"tarifario/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(&cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewDocumentRepo(db)

	s3Client, err := s3storage.NewClient(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Extraction pipeline
	accountsRules := extract.AccountsRules()
	accountsRules.Detector.MinDataRows = cfg.Extraction.MinTableRows
	loansRules := extract.LoansRules()
	loansRules.Detector.MinDataRows = cfg.Extraction.MinTableRows
	selector := extract.NewSelector(
		extract.NewAccountsStrategyWith(accountsRules),
		extract.NewLoansStrategyWith(loansRules),
	)
	processor := extract.NewProcessor(selector, logger)

	vcfg := validator.DefaultConfig()
	vcfg.MaxDescriptionLength = cfg.Validation.MaxDescriptionLength
	vcfg.PercentWarnThreshold = decimal.NewFromInt(int64(cfg.Validation.PercentWarnThreshold))
	vcfg.MaxServicesPerTable = cfg.Validation.MaxServicesPerTable
	engine := validator.NewDefaultEngine(vcfg)

	// Services and handlers
	processSvc := service.NewProcessService(processor, engine, repo, s3Client, logger)
	querySvc := service.NewQueryService(repo)

	docH := handler.NewDocumentHandler(querySvc, processSvc, cfg.S3.MaxFileSizeMB)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(docH, healthH, logger)

	logger.Infof("server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
