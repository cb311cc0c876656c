package engine_test

import (
	"testing"

	"dkhurana/bankledger/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVendor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase input", "netflix.com", "NETFLIX COM"},
		{"strips corporate suffix", "ACME INC", "ACME"},
		{"strips stacked suffixes", "ACME HOLDINGS CO LTD", "ACME HOLDINGS"},
		{"suffix alone survives", "LLC", "LLC"},
		{"keeps processor separator", "PAYPAL *NETFLIX", "PAYPAL *NETFLIX"},
		{"strips punctuation", "AMZN-MKTPLACE, PMTS.", "AMZN MKTPLACE PMTS"},
		{"collapses whitespace", "  GROCERY    STORE  ", "GROCERY STORE"},
		{"word containing suffix is kept", "COSTCO WHOLESALE", "COSTCO WHOLESALE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.NormalizeVendor(tt.input))
		})
	}
}

func TestVendorTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"no separator", "NETFLIX COM", []string{"NETFLIX COM"}},
		{"processor prefix", "PAYPAL *NETFLIX", []string{"PAYPAL", "NETFLIX"}},
		{"trailing separator", "SQ *", []string{"SQ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.VendorTokens(engine.NormalizeVendor(tt.input)))
		})
	}
}
