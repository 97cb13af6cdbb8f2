// Command backfill re-runs the validation engine over every persisted
// document and rewrites its stored report. Run it after validation rules
// change so stored reports reflect the current rule set.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"tarifario/internal/config"
	"tarifario/internal/repository/postgres"
	"tarifario/internal/validator"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := postgres.NewDocumentRepo(db)

	vcfg := validator.DefaultConfig()
	vcfg.MaxDescriptionLength = cfg.Validation.MaxDescriptionLength
	vcfg.PercentWarnThreshold = decimal.NewFromInt(int64(cfg.Validation.PercentWarnThreshold))
	vcfg.MaxServicesPerTable = cfg.Validation.MaxServicesPerTable
	engine := validator.NewDefaultEngine(vcfg)

	ctx := context.Background()
	offset := 0
	total := 0

	for {
		var ids []string
		err := db.SelectContext(ctx, &ids,
			`SELECT document_id FROM documents
			 ORDER BY created_at
			 LIMIT $1 OFFSET $2`, batchSize, offset)
		if err != nil {
			return fmt.Errorf("querying documents at offset %d: %w", offset, err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			doc, err := repo.GetDocument(ctx, id)
			if err != nil {
				log.Printf("WARN: skipping document %s: %v", id, err)
				continue
			}

			report := engine.Validate(doc)
			if err := repo.SaveDocument(ctx, doc, report); err != nil {
				log.Printf("WARN: failed to save report for document %s: %v", id, err)
				continue
			}
			total++
		}

		if total > 0 && total%batchSize == 0 {
			log.Printf("Progress: %d documents revalidated", total)
		}

		offset += len(ids)
	}

	log.Printf("Backfill complete: %d documents revalidated", total)
	return nil
}
