package statement_test

import (
	"errors"
	"testing"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"
	"dkhurana/bankledger/internal/statement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(text string) *statement.Parser {
	return statement.NewParser(statement.NewMockTextExtractor(text, nil), &logging.MockLogger{})
}

func TestParseTextTransactionLine(t *testing.T) {
	p := newTestParser("")
	candidates, stats := p.ParseText("01/03/2024 03/03/2024 SALARY PAYMENT 1,200.00 5,400.00")

	require.Len(t, candidates, 1)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 0, stats.Skipped)

	c := candidates[0]
	assert.Equal(t, "01/03/2024", models.FormatDate(c.TransDate))
	assert.Equal(t, "03/03/2024", models.FormatDate(c.ValueDate))
	assert.Equal(t, "SALARY PAYMENT", c.Description)
	require.True(t, c.Debit.Valid)
	assert.True(t, c.Debit.Decimal.Equal(decimal.RequireFromString("1200.00")))
	assert.False(t, c.Credit.Valid)
	require.True(t, c.Balance.Valid)
	assert.True(t, c.Balance.Decimal.Equal(decimal.RequireFromString("5400.00")))
}

func TestParseTextSignMapping(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantDebit  string
		wantCredit string
	}{
		{
			name:      "positive amount is a debit",
			line:      "05/01/2024 05/01/2024 CARD PURCHASE 45.50 954.50",
			wantDebit: "45.50",
		},
		{
			name:       "negative amount is a credit stored absolute",
			line:       "06/01/2024 06/01/2024 REFUND -45.50 1,000.00",
			wantCredit: "45.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser("")
			candidates, _ := p.ParseText(tt.line)
			require.Len(t, candidates, 1)

			c := candidates[0]
			if tt.wantDebit != "" {
				require.True(t, c.Debit.Valid)
				assert.True(t, c.Debit.Decimal.Equal(decimal.RequireFromString(tt.wantDebit)))
				assert.False(t, c.Credit.Valid)
			}
			if tt.wantCredit != "" {
				require.True(t, c.Credit.Valid)
				assert.True(t, c.Credit.Decimal.Equal(decimal.RequireFromString(tt.wantCredit)))
				assert.False(t, c.Debit.Valid)
			}
		})
	}
}

func TestParseTextSkipsAmbiguousLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no dates", "SOME RANDOM TEXT 100.00 200.00"},
		{"one date", "01/01/2024 PARTIAL LINE 100.00 200.00"},
		{"three dates", "01/01/2024 02/01/2024 03/01/2024 X 100.00 200.00"},
		{"only one amount", "01/01/2024 02/01/2024 MISSING BALANCE 100.00"},
		{"no amounts", "01/01/2024 02/01/2024 JUST WORDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser("")
			candidates, stats := p.ParseText(tt.line)
			assert.Empty(t, candidates)
			assert.Equal(t, 1, stats.Skipped)
		})
	}
}

func TestParseTextUngroupedAmounts(t *testing.T) {
	p := newTestParser("")
	candidates, _ := p.ParseText("01/03/2024 03/03/2024 TRANSFER 1200.00 5400.00")

	require.Len(t, candidates, 1)
	require.True(t, candidates[0].Debit.Valid)
	assert.True(t, candidates[0].Debit.Decimal.Equal(decimal.RequireFromString("1200.00")))
}

func TestParseTextExtractsReference(t *testing.T) {
	p := newTestParser("")
	candidates, _ := p.ParseText(`02/04/2024 02/04/2024 TRANSFER FT24095ABC123\BNK TO SAVINGS 500.00 4,900.00`)

	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, `FT24095ABC123\BNK`, c.ReferenceNumber)
	assert.Equal(t, "TRANSFER TO SAVINGS", c.Description)
}

func TestParseTextOpeningBalance(t *testing.T) {
	text := "OPENING BALANCE 4,200.00\n" +
		"01/03/2024 03/03/2024 SALARY PAYMENT 1,200.00 5,400.00"

	p := newTestParser("")
	candidates, stats := p.ParseText(text)

	require.Len(t, candidates, 2)
	assert.Equal(t, 1, stats.Parsed)

	ob := candidates[0]
	assert.Equal(t, "OPENING BALANCE", ob.Description)
	assert.False(t, ob.Debit.Valid)
	assert.False(t, ob.Credit.Valid)
	require.True(t, ob.Balance.Valid)
	assert.True(t, ob.Balance.Decimal.Equal(decimal.RequireFromString("4200.00")))
}

func TestParseTextFiltersHeadersAndNoise(t *testing.T) {
	text := "TRANS DATE VALUE DATE TRANSACTION DETAILS DEBIT CREDIT BALANCE\n" +
		"STATEMENT Page 1 of 3\n" +
		"Swift Code: ABCDUS33\n" +
		"01/03/2024 03/03/2024 SALARY PAYMENT 1,200.00 5,400.00"

	p := newTestParser("")
	candidates, stats := p.ParseText(text)

	require.Len(t, candidates, 1)
	assert.Equal(t, "SALARY PAYMENT", candidates[0].Description)
	// header and noise lines are filtered, not counted as skipped
	assert.Equal(t, 0, stats.Skipped)
}

func TestParseTextKeepsCreditInterestLine(t *testing.T) {
	p := newTestParser("")
	candidates, _ := p.ParseText("31/03/2024 31/03/2024 CREDIT INTEREST -2.50 5,402.50")

	require.Len(t, candidates, 1)
	assert.Equal(t, "CREDIT INTEREST", candidates[0].Description)
	assert.True(t, candidates[0].Credit.Valid)
}

func TestParseTextCollapsesWhitespace(t *testing.T) {
	p := newTestParser("")
	candidates, _ := p.ParseText("01/03/2024  03/03/2024   GROCERY    STORE   88.20  5,311.80")

	require.Len(t, candidates, 1)
	assert.Equal(t, "GROCERY STORE", candidates[0].Description)
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	p := newTestParser("")
	_, _, err := p.ParseFile("statement.xlsx")

	var unsupported *parsererror.UnsupportedFileTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ".xlsx", unsupported.Extension)
}

func TestParseFilePDFUsesExtractor(t *testing.T) {
	extractor := statement.NewMockTextExtractor(
		"01/03/2024 03/03/2024 SALARY PAYMENT 1,200.00 5,400.00", nil)
	p := statement.NewParser(extractor, &logging.MockLogger{})

	candidates, stats, err := p.ParseFile("statement.pdf")
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 1, stats.Parsed)
}

func TestParseFilePDFWithoutText(t *testing.T) {
	extractor := statement.NewMockTextExtractor("   \n  ", nil)
	p := statement.NewParser(extractor, &logging.MockLogger{})

	_, _, err := p.ParseFile("scanned.pdf")
	var extraction *parsererror.DataExtractionError
	require.True(t, errors.As(err, &extraction))
}

func TestParseFilePDFExtractionError(t *testing.T) {
	extractor := statement.NewMockTextExtractor("", errors.New("corrupted xref table"))
	p := statement.NewParser(extractor, &logging.MockLogger{})

	_, _, err := p.ParseFile("statement.pdf")
	var invalid *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &invalid))
}

func TestRowsToCandidates(t *testing.T) {
	rows := []map[string]string{
		{
			"Trans Date":          "01/03/2024",
			"Value Date":          "03/03/2024",
			"Transaction Details": "SALARY PAYMENT",
			"Debit":               "1,200.00",
			"Credit":              "",
			"Balance":             "5,400.00",
		},
		{
			"Trans Date":          "bogus",
			"Value Date":          "",
			"Transaction Details": "BROKEN ROW",
			"Debit":               "",
			"Credit":              "10.00",
			"Balance":             "5,390.00",
		},
	}

	candidates := statement.RowsToCandidates(rows)
	require.Len(t, candidates, 2)

	assert.Equal(t, "SALARY PAYMENT", candidates[0].Description)
	require.True(t, candidates[0].Debit.Valid)
	assert.True(t, candidates[0].Debit.Decimal.Equal(decimal.RequireFromString("1200.00")))

	// unparseable dates become the zero time, never an error
	assert.True(t, candidates[1].TransDate.IsZero())
	assert.True(t, candidates[1].ValueDate.IsZero())
	assert.True(t, candidates[1].Credit.Valid)
}
