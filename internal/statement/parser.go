// Package statement turns raw statement documents (PDF or CSV) into
// candidate transaction rows.
package statement

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var (
	// Strict DD/MM/YYYY tokens. A line qualifies as a transaction row only
	// when it contains exactly two of these (transaction date, value date).
	datePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

	// Amount tokens: optional sign, optional comma grouping, exactly two
	// decimals. Plain ungrouped amounts ("1200.00") are accepted too; the
	// two-decimal requirement is what separates amounts from other numbers.
	amountPattern = regexp.MustCompile(`-?\d+(?:,\d{3})*\.\d{2}`)

	// Bank reference token embedded in the transaction details.
	referencePattern = regexp.MustCompile(`FT\d+[A-Z0-9]+\\BNK`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Statement table header terms. A line is a column header only when it
// carries several of these at once; single terms appear in ordinary
// transaction details ("CREDIT INTEREST").
var headerTerms = []string{
	"TRANS DATE", "VALUE DATE", "TRANSACTION DETAILS",
	"DEBIT", "CREDIT", "BALANCE",
}

// Page furniture that repeats on every statement page.
var pageNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)STATEMENT Page`),
	regexp.MustCompile(`(?i)Swift Code:`),
	regexp.MustCompile(`(?i)Website:`),
	regexp.MustCompile(`(?i)IBAN:`),
	regexp.MustCompile(`(?i)Account Number`),
	regexp.MustCompile(`(?i)Statement Date`),
	regexp.MustCompile(`(?i)Despatch Code`),
}

// ParseStats carries per-document parsing diagnostics. Skipped counts lines
// that failed the date-count or amount-count precondition; those are
// expected noise from text extraction, not errors.
type ParseStats struct {
	Lines   int
	Parsed  int
	Skipped int
}

// Parser extracts candidate transactions from statement documents.
type Parser struct {
	extractor TextExtractor
	logger    logging.Logger
}

// NewParser creates a Parser using the given text extractor. A nil logger
// falls back to a default adapter.
func NewParser(extractor TextExtractor, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{
		extractor: extractor,
		logger:    logger,
	}
}

// ParseFile parses a statement document, dispatching on the file extension.
// Only .pdf and .csv are accepted.
func (p *Parser) ParseFile(path string) ([]models.Candidate, ParseStats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return p.parsePDF(path)
	case ".csv":
		rows, err := p.ParseCSV(path)
		if err != nil {
			return nil, ParseStats{}, err
		}
		return rows, ParseStats{}, nil
	default:
		return nil, ParseStats{}, &parsererror.UnsupportedFileTypeError{
			FilePath:  path,
			Extension: filepath.Ext(path),
		}
	}
}

func (p *Parser) parsePDF(path string) ([]models.Candidate, ParseStats, error) {
	text, err := p.extractor.ExtractText(path)
	if err != nil {
		return nil, ParseStats{}, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            err.Error(),
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil, ParseStats{}, &parsererror.DataExtractionError{
			FilePath: path,
			Reason:   "no extractable text",
		}
	}

	candidates, stats := p.ParseText(text)
	p.logger.Info("Parsed PDF statement",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: stats.Parsed},
		logging.Field{Key: logging.FieldSkipped, Value: stats.Skipped})
	return candidates, stats, nil
}

// ParseText parses extracted statement text line by line. Malformed lines
// are skipped, never fatal: statement text extraction is inherently lossy
// and ambiguous lines are treated as noise.
func (p *Parser) ParseText(text string) ([]models.Candidate, ParseStats) {
	var candidates []models.Candidate
	var stats ParseStats
	openingSeen := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stats.Lines++

		if isHeaderLine(line) || isPageNoise(line) {
			continue
		}

		// The opening balance row has no dates and a single amount; it is
		// recognized by its label so the running balance has an anchor.
		if !openingSeen && strings.Contains(strings.ToUpper(line), "OPENING BALANCE") {
			if amount := amountPattern.FindString(line); amount != "" {
				candidates = append(candidates, models.Candidate{
					Description: "OPENING BALANCE",
					Balance:     decimal.NewNullDecimal(models.ParseAmount(amount)),
				})
				openingSeen = true
				continue
			}
		}

		candidate, ok := parseLine(line)
		if !ok {
			stats.Skipped++
			continue
		}
		candidates = append(candidates, candidate)
		stats.Parsed++
	}

	return candidates, stats
}

// parseLine applies the precision-over-recall line policy: exactly two date
// tokens and at least two amount tokens, or the line is discarded.
func parseLine(line string) (models.Candidate, bool) {
	dates := datePattern.FindAllString(line, -1)
	if len(dates) != 2 {
		return models.Candidate{}, false
	}

	rest := datePattern.ReplaceAllString(line, "")

	amounts := amountPattern.FindAllString(rest, -1)
	if len(amounts) < 2 {
		return models.Candidate{}, false
	}

	// The last amount token is always the running balance; the first is the
	// transaction amount. A positive amount is a debit, a negative one a
	// credit stored as its absolute value.
	balance := models.ParseAmount(amounts[len(amounts)-1])
	amount := models.ParseAmount(amounts[0])

	candidate := models.Candidate{
		TransDate: models.ParseDate(dates[0]),
		ValueDate: models.ParseDate(dates[1]),
		Balance:   decimal.NewNullDecimal(balance),
	}
	if amount.IsNegative() {
		candidate.Credit = decimal.NewNullDecimal(amount.Abs())
	} else {
		candidate.Debit = decimal.NewNullDecimal(amount)
	}

	details := amountPattern.ReplaceAllString(rest, "")
	if ref := referencePattern.FindString(details); ref != "" {
		candidate.ReferenceNumber = ref
		details = referencePattern.ReplaceAllString(details, "")
	}
	candidate.Description = collapseWhitespace(details)

	return candidate, true
}

// ParseCSV reads an already-tabular statement export. Column names are left
// as-is here; the normalizer owns column standardization.
func (p *Parser) ParseCSV(path string) ([]models.Candidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "CSV",
			Msg:            err.Error(),
		}
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file",
				logging.Field{Key: logging.FieldFile, Value: path})
		}
	}()

	rows, err := gocsv.CSVToMaps(file)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "CSV",
			Msg:            err.Error(),
		}
	}

	candidates := RowsToCandidates(rows)
	p.logger.Info("Parsed CSV statement",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(candidates)})
	return candidates, nil
}

// RowsToCandidates maps header-keyed CSV rows onto candidates. Header names
// are standardized (lower case, spaces to underscores) and missing values
// become the null markers downstream validation reports on.
func RowsToCandidates(rows []map[string]string) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(rows))
	for _, row := range rows {
		normalized := make(map[string]string, len(row))
		for key, value := range row {
			normalized[standardizeColumn(key)] = strings.TrimSpace(value)
		}

		candidate := models.Candidate{
			TransDate:       models.ParseDate(normalized["trans_date"]),
			ValueDate:       models.ParseDate(normalized["value_date"]),
			Description:     normalized["transaction_details"],
			ReferenceNumber: normalized["reference_number"],
		}
		if v := normalized["debit"]; v != "" {
			candidate.Debit = decimal.NewNullDecimal(models.ParseAmount(v))
		}
		if v := normalized["credit"]; v != "" {
			candidate.Credit = decimal.NewNullDecimal(models.ParseAmount(v))
		}
		if v := normalized["balance"]; v != "" {
			candidate.Balance = decimal.NewNullDecimal(models.ParseAmount(v))
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

func standardizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func isHeaderLine(line string) bool {
	upper := strings.ToUpper(line)
	hits := 0
	for _, term := range headerTerms {
		if strings.Contains(upper, term) {
			hits++
		}
	}
	return hits >= 3
}

func isPageNoise(line string) bool {
	for _, pattern := range pageNoisePatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
