// Package engine assigns categories to transactions by evaluating the
// stored rule set against normalized vendor descriptions.
package engine

import (
	"strings"
	"unicode"
)

// Corporate suffixes stripped during vendor normalization so "ACME INC" and
// "ACME LLC" match the same rules.
var corporateSuffixes = []string{
	"INCORPORATED", "CORPORATION", "COMPANY", "LIMITED",
	"CORP", "INC", "LLC", "LTD", "CO",
}

// NormalizeVendor canonicalizes a transaction description for rule
// matching: upper case, punctuation removed (the payment-processor '*'
// separator survives), whitespace collapsed, corporate suffixes dropped.
// Processor-prefixed descriptions like "PAYPAL *NETFLIX" keep the part
// after the separator as well, so substring rules see the real vendor.
func NormalizeVendor(description string) string {
	s := strings.ToUpper(strings.TrimSpace(description))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '*':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	fields = stripSuffixes(fields)
	return strings.Join(fields, " ")
}

// VendorTokens splits a normalized vendor on the processor separator,
// yielding each segment normalized on its own.
func VendorTokens(normalized string) []string {
	if !strings.Contains(normalized, "*") {
		return []string{normalized}
	}
	var tokens []string
	for _, part := range strings.Split(normalized, "*") {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	if len(tokens) == 0 {
		return []string{normalized}
	}
	return tokens
}

func stripSuffixes(fields []string) []string {
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		stripped := false
		for _, suffix := range corporateSuffixes {
			if last == suffix {
				fields = fields[:len(fields)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return fields
}
