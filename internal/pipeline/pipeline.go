// Package pipeline orchestrates the statement processing flow: parse raw
// statement files, normalize and validate them, persist the results, and
// hand categorization to the rule engine.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"dkhurana/bankledger/internal/config"
	"dkhurana/bankledger/internal/engine"
	"dkhurana/bankledger/internal/fileutils"
	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/normalize"
	"dkhurana/bankledger/internal/parsererror"
	"dkhurana/bankledger/internal/statement"
	"dkhurana/bankledger/internal/store"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Pipeline wires the parser, normalizer, store, and engine together under
// one configuration.
type Pipeline struct {
	cfg        *config.Config
	store      *store.Store
	parser     *statement.Parser
	normalizer *normalize.Normalizer
	logger     logging.Logger
}

// New builds a pipeline. The caller owns the store and closes it.
func New(cfg *config.Config, st *store.Store, parser *statement.Parser, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		parser:     parser,
		normalizer: normalize.NewNormalizer(logger),
		logger:     logger,
	}
}

// FileResult records the outcome for one statement file.
type FileResult struct {
	Path       string
	Err        error
	Parsed     int
	Inserted   int
	Duplicates int
	Report     normalize.ValidationReport
}

// ProcessResult summarizes one processing run.
type ProcessResult struct {
	Files      []FileResult
	Inserted   int
	Duplicates int
	Failed     int
}

// Process parses every statement file in the raw directory, persists the
// transactions, writes the combined output CSV, and moves handled files to
// the processed directory. A failure in one file never aborts the others.
func (p *Pipeline) Process() (ProcessResult, error) {
	var result ProcessResult

	if !fileutils.DirectoryExists(p.cfg.Data.RawDir) {
		return result, fmt.Errorf("raw data directory does not exist: %s", p.cfg.Data.RawDir)
	}
	if err := fileutils.EnsureDirectoryExists(p.cfg.Data.ProcessedDir); err != nil {
		return result, err
	}

	files, err := fileutils.ListFilesWithExtensions(p.cfg.Data.RawDir, ".pdf", ".csv")
	if err != nil {
		return result, err
	}
	if len(files) == 0 {
		p.logger.Info("No statement files to process",
			logging.Field{Key: logging.FieldDir, Value: p.cfg.Data.RawDir})
		return result, nil
	}

	accountID, err := p.store.EnsureAccount(p.cfg.Account.Name, p.cfg.Account.Type)
	if err != nil {
		return result, err
	}

	for _, file := range files {
		fr := p.processFile(file, accountID)
		result.Files = append(result.Files, fr)
		if fr.Err != nil {
			result.Failed++
			p.logger.WithError(fr.Err).Error("Failed to process statement file",
				logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}
		result.Inserted += fr.Inserted
		result.Duplicates += fr.Duplicates
	}

	if err := p.WriteOutputCSV(); err != nil {
		return result, err
	}
	return result, nil
}

func (p *Pipeline) processFile(path string, accountID int64) FileResult {
	fr := FileResult{Path: path}

	candidates, _, err := p.parser.ParseFile(path)
	if err != nil {
		fr.Err = err
		return fr
	}

	candidates = p.normalizer.Clean(candidates)
	fr.Parsed = len(candidates)
	fr.Report = p.normalizer.Validate(candidates)

	insert, err := p.store.InsertTransactions(p.normalizer.ToTransactions(candidates), &accountID)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Inserted = insert.Inserted
	fr.Duplicates = insert.Duplicates

	if _, err := fileutils.MoveFile(path, p.cfg.Data.ProcessedDir); err != nil {
		fr.Err = err
		return fr
	}

	p.logger.Info("Processed statement file",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldInserted, Value: insert.Inserted},
		logging.Field{Key: logging.FieldDuplicate, Value: insert.Duplicates})
	return fr
}

// outputRow is the combined CSV export row.
type outputRow struct {
	TransDate       string `csv:"trans_date"`
	ValueDate       string `csv:"value_date"`
	Description     string `csv:"transaction_details"`
	Debit           string `csv:"debit"`
	Credit          string `csv:"credit"`
	Balance         string `csv:"balance"`
	ReferenceNumber string `csv:"reference_number"`
	Category        string `csv:"category"`
}

// WriteOutputCSV writes every stored transaction to the configured output
// file, overwriting any previous export.
func (p *Pipeline) WriteOutputCSV() error {
	txns, err := p.store.ListTransactions()
	if err != nil {
		return err
	}

	names, err := p.categoryNames()
	if err != nil {
		return err
	}

	rows := make([]outputRow, 0, len(txns))
	for _, t := range txns {
		row := outputRow{
			TransDate:       models.FormatDate(t.TransactionDate),
			ValueDate:       models.FormatDate(t.ValueDate),
			Description:     t.Description,
			Balance:         t.Balance.String(),
			ReferenceNumber: t.ReferenceNumber,
		}
		if t.Debit.Valid {
			row.Debit = t.Debit.Decimal.String()
		}
		if t.Credit.Valid {
			row.Credit = t.Credit.Decimal.String()
		}
		if t.CategoryID != nil {
			row.Category = names[*t.CategoryID]
		}
		rows = append(rows, row)
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(p.cfg.Data.OutputFile)); err != nil {
		return err
	}
	f, err := os.Create(p.cfg.Data.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write output CSV: %w", err)
	}

	p.logger.Info("Wrote combined transactions file",
		logging.Field{Key: logging.FieldFile, Value: p.cfg.Data.OutputFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

// CategorizeResult summarizes a categorization run.
type CategorizeResult struct {
	Total       int
	Categorized int
	PerCategory map[string]int
}

// Categorize runs the rule engine over every uncategorized transaction and
// persists the assignments.
func (p *Pipeline) Categorize() (CategorizeResult, error) {
	result := CategorizeResult{PerCategory: make(map[string]int)}

	rules, err := p.store.ListRules()
	if err != nil {
		return result, err
	}

	var strategies []engine.Strategy
	if p.cfg.Categorization.MLEnabled {
		strategies = append(strategies,
			engine.NewMLStrategy(p.cfg.Categorization.MLModelPath, p.logger))
	}
	eng := engine.New(rules, p.logger, strategies...)

	txns, err := p.store.ListUncategorized()
	if err != nil {
		return result, err
	}
	result.Total = len(txns)

	names, err := p.categoryNames()
	if err != nil {
		return result, err
	}

	var assignments []store.CategoryAssignment
	for _, t := range txns {
		id, err := eng.Categorize(t)
		if err != nil {
			return result, err
		}
		if id == nil {
			continue
		}
		assignments = append(assignments, store.CategoryAssignment{
			TransactionID: t.ID,
			CategoryID:    *id,
		})
		result.PerCategory[names[*id]]++
		result.Categorized++
	}

	if err := p.store.ApplyCategoryAssignments(assignments); err != nil {
		return result, err
	}

	p.logger.Info("Categorization run complete",
		logging.Field{Key: logging.FieldCount, Value: result.Total},
		logging.Field{Key: logging.FieldCategory, Value: result.Categorized})
	return result, nil
}

func (p *Pipeline) categoryNames() (map[int64]string, error) {
	categories, err := p.store.ListCategories()
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// SeedCategories loads the configured taxonomy file, or the built-in
// default set when none is configured, and seeds the store with it.
func (p *Pipeline) SeedCategories() error {
	taxonomy := models.DefaultTaxonomy

	if path := p.cfg.Categorization.TaxonomyFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read taxonomy file: %w", err)
		}
		var cfg models.TaxonomyConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return &parsererror.ParseError{
				Parser: "taxonomy", Field: "file", Value: path, Err: err,
			}
		}
		if len(cfg.Categories) > 0 {
			taxonomy = cfg.Categories
		}
	}

	return p.store.SeedTaxonomy(taxonomy)
}
