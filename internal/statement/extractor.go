package statement

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// TextExtractor extracts the raw text of a statement document. The interface
// exists so the parser can be tested without real PDF fixtures.
type TextExtractor interface {
	// ExtractText returns the full text of the document at the given path,
	// pages concatenated in order.
	ExtractText(path string) (string, error)
}

// PDFTextExtractor is the production TextExtractor, backed by the pure-Go
// pdf library.
type PDFTextExtractor struct{}

// NewPDFTextExtractor creates a new PDFTextExtractor.
func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractText extracts text from every page and concatenates the results.
func (e *PDFTextExtractor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var buf bytes.Buffer
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("error extracting text from page %d: %w", pageIndex, err)
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return buf.String(), nil
}

// MockTextExtractor implements TextExtractor for tests, returning predefined
// text or a predefined error.
type MockTextExtractor struct {
	Text string
	Err  error
}

// NewMockTextExtractor creates a MockTextExtractor with the given mock data.
func NewMockTextExtractor(text string, err error) *MockTextExtractor {
	return &MockTextExtractor{Text: text, Err: err}
}

// ExtractText returns the predefined mock text or error.
func (e *MockTextExtractor) ExtractText(path string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Text, nil
}
