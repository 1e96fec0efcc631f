package utils_test

import (
	"testing"

	"github.com/hotwellkz/app66/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain integer", input: "1000", want: "1000"},
		{name: "fractional", input: "123.45", want: "123.45"},
		{name: "negative", input: "-300", want: "-300"},
		{name: "zero", input: "0", want: "0"},
		{name: "empty string is zero", input: "", want: "0"},
		{name: "surrounding whitespace", input: "  250.5 ", want: "250.5"},
		{name: "comma decimal separator", input: "99,90", want: "99.9"},
		{name: "non-breaking space separator", input: "1 500", want: "1500"},
		{name: "large integer", input: "900719925474099", want: "900719925474099"},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := utils.ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatAmountRoundTrip(t *testing.T) {
	values := []string{"0", "1000", "-300", "0.01", "123.45", "900719925474099", "0.000001"}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			d, err := decimal.NewFromString(v)
			require.NoError(t, err)

			parsed, err := utils.ParseAmount(utils.FormatAmount(d))
			require.NoError(t, err)
			assert.True(t, d.Equal(parsed), "round-trip changed value: %s != %s", d, parsed)
		})
	}
}

func TestNormalizeAmountNoDriftAcrossRepeatedTransfers(t *testing.T) {
	// Simulate many transfers worth of add/subtract cycles; the balance must
	// come back to its starting point exactly.
	start, err := utils.ParseAmount("1000.55")
	require.NoError(t, err)
	step, err := utils.ParseAmount("0.1")
	require.NoError(t, err)

	balance := start
	for i := 0; i < 1000; i++ {
		balance = utils.NormalizeAmount(balance.Sub(step))
		balance = utils.NormalizeAmount(balance.Add(step))
	}
	assert.True(t, start.Equal(balance), "expected %s, got %s", start, balance)
}
