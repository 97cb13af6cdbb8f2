// Command tarifas processes rate/fee workbooks from the command line:
// extraction, validation and JSON artifacts, with optional persistence.
//
// Exit codes: 0 on a clean pass, 2 when validation passed with
// warnings, 1 when validation failed or processing errored.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tarifario/internal/config"
	"tarifario/internal/csvexport"
	"tarifario/internal/domain"
	"tarifario/internal/extract"
	"tarifario/internal/jsonout"
	"tarifario/internal/logging"
	"tarifario/internal/port"
	"tarifario/internal/repository/postgres"
	"tarifario/internal/service"
	s3storage "tarifario/internal/storage/s3"
	"tarifario/internal/validator"
)

const (
	exitWarnings = 2
	exitFailed   = 1
)

var (
	log = logrus.New()

	outDir       string
	fromS3       string
	businessLine string
	persist      bool
	exportCSV    bool

	exitCode int

	rootCmd = &cobra.Command{
		Use:   "tarifas",
		Short: "Extract and validate financial rate/fee workbooks",
		Long: `tarifas discovers rate tables inside xlsx workbooks, extracts the
service records they describe and validates them against the business
rules. Each run writes the document, its validation report and the raw
extraction result as JSON artifacts.`,
	}

	processCmd = &cobra.Command{
		Use:   "process <workbook.xlsx>",
		Short: "Process one workbook into JSON artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProcess,
	}
)

func init() {
	processCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for JSON artifacts")
	processCmd.Flags().StringVarP(&businessLine, "business-line", "b", "", "force a business line (accounts, loans) instead of auto-detecting")
	processCmd.Flags().StringVar(&fromS3, "from-s3", "", "process an object from storage (s3://bucket/key) instead of a local file")
	processCmd.Flags().BoolVar(&persist, "save", false, "persist the document to the configured database")
	processCmd.Flags().BoolVar(&exportCSV, "csv", false, "also write the extracted services as services.csv")
	rootCmd.AddCommand(processCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(&cfg.Log)

	if fromS3 == "" && len(args) == 0 {
		return fmt.Errorf("a workbook path or --from-s3 is required")
	}

	svc, cleanup, err := buildProcessService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	var result *service.ProcessResult
	if fromS3 != "" {
		bucket, key, parseErr := parseS3URL(fromS3)
		if parseErr != nil {
			return parseErr
		}
		result, err = svc.ProcessFromStorage(ctx, bucket, key)
	} else {
		data, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return fmt.Errorf("reading workbook: %w", readErr)
		}
		result, err = svc.ProcessBytes(ctx, data, filepath.Base(args[0]))
	}
	if err != nil {
		return err
	}

	report := result.Report.WithStatus()
	for _, artifact := range []struct {
		name string
		v    any
	}{
		{"document.json", result.Document},
		{"report.json", report},
		{"extraction.json", result.Raw},
	} {
		path := filepath.Join(outDir, artifact.name)
		if err := jsonout.Write(path, artifact.v); err != nil {
			return err
		}
		log.WithField("path", path).Info("artifact written")
	}

	if exportCSV {
		path := filepath.Join(outDir, "services.csv")
		if err := writeCSV(path, result.Document); err != nil {
			return err
		}
		log.WithField("path", path).Info("artifact written")
	}

	if persist {
		// Critical errors block persistence. That policy lives here,
		// not in the validation engine.
		if hasCriticalIssues(result.Report) {
			log.Error("critical validation issues, document not persisted")
		} else {
			if err := svc.Persist(ctx, result); err != nil {
				return fmt.Errorf("persisting document: %w", err)
			}
			log.WithField("document_id", result.Document.DocumentID).Info("document persisted")
		}
	}

	log.WithFields(logrus.Fields{
		"status":   report.Status,
		"services": result.Document.ServiceCount(),
		"errors":   result.Report.Stats.Errors,
		"warnings": result.Report.Stats.Warnings,
	}).Info("processing complete")

	switch report.Status {
	case domain.ReportStatusFailed:
		exitCode = exitFailed
	case domain.ReportStatusWarnings:
		exitCode = exitWarnings
	}
	return nil
}

// buildProcessService wires the extraction pipeline. The database and
// object storage are only connected when the flags actually need them,
// so a plain local run works without either configured.
func buildProcessService(cfg *config.Config) (service.ProcessService, func(), error) {
	strategies, err := selectStrategies(businessLine, cfg.Extraction.MinTableRows)
	if err != nil {
		return nil, func() {}, err
	}
	selector := extract.NewSelector(strategies...)
	processor := extract.NewProcessor(selector, log)

	vcfg := validator.DefaultConfig()
	vcfg.MaxDescriptionLength = cfg.Validation.MaxDescriptionLength
	vcfg.PercentWarnThreshold = decimal.NewFromInt(int64(cfg.Validation.PercentWarnThreshold))
	vcfg.MaxServicesPerTable = cfg.Validation.MaxServicesPerTable
	engine := validator.NewDefaultEngine(vcfg)

	cleanup := func() {}

	var repo port.DocumentRepository
	if persist {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connecting to database: %w", err)
		}
		cleanup = func() { db.Close() }
		repo = postgres.NewDocumentRepo(db)
	}

	var storage port.ObjectStorage
	if fromS3 != "" {
		s3Client, err := s3storage.NewClient(&cfg.S3)
		if err != nil {
			return nil, cleanup, fmt.Errorf("initializing S3 client: %w", err)
		}
		storage = s3Client
	}

	return service.NewProcessService(processor, engine, repo, storage, log), cleanup, nil
}

// selectStrategies returns every registered strategy, or only the one
// named by --business-line when set.
func selectStrategies(line string, minTableRows int) ([]extract.Strategy, error) {
	accountsRules := extract.AccountsRules()
	accountsRules.Detector.MinDataRows = minTableRows
	loansRules := extract.LoansRules()
	loansRules.Detector.MinDataRows = minTableRows

	all := []extract.Strategy{
		extract.NewAccountsStrategyWith(accountsRules),
		extract.NewLoansStrategyWith(loansRules),
	}
	if line == "" {
		return all, nil
	}
	for _, s := range all {
		if s.BusinessLine() == line {
			return []extract.Strategy{s}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBusiness, line)
}

// criticalKeywords are the error fragments the orchestration layer
// treats as blocking.
var criticalKeywords = []string{"missing", "empty", "invalid", "no rates"}

func hasCriticalIssues(report *domain.ValidationReport) bool {
	for _, issue := range report.Issues {
		if issue.Level != domain.ValidationLevelError {
			continue
		}
		lower := strings.ToLower(issue.Message)
		for _, kw := range criticalKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func writeCSV(path string, doc *domain.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteDocument(doc); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseS3URL(raw string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(raw, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 url %q, expected s3://bucket/key", raw)
	}
	return parts[0], parts[1], nil
}
