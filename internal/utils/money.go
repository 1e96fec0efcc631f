package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses the canonical serialized form of a monetary amount.
// It tolerates the legacy stored forms found in old category documents:
// surrounding whitespace, thin/non-breaking space group separators and a
// comma decimal separator. An empty string parses as zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	replacer := strings.NewReplacer(" ", "", " ", "", " ", "", ",", ".")
	cleaned = replacer.Replace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount serializes a monetary amount to its canonical string form.
// The output always round-trips through ParseAmount without precision drift.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}

// NormalizeAmount runs an amount through the format/parse round-trip so that
// values computed by arithmetic carry the same representation as values read
// back from storage.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	normalized, err := ParseAmount(FormatAmount(d))
	if err != nil {
		// FormatAmount output is always parseable; reaching here is a bug.
		panic(fmt.Sprintf("amount %s did not round-trip: %v", d, err))
	}
	return normalized
}
