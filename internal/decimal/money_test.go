package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cfdi-processor/internal/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"116.00", "116"},
		{"0", "0"},
		{"0.000001", "0.000001"},
		{"123456789012345678.99", "123456789012345678.99"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := decimal.ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)), "got %s", d)
		})
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"1e3",
		"1.5E+2",
		"-1.00",
		"+1.00",
		" 1.00",
		"1.00 ",
		"1,000.00",
		".5",
		"5.",
		"NaN",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := decimal.ParseAmount(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, decimal.ErrNotPlainDecimal)
		})
	}
}

func TestNet(t *testing.T) {
	result := decimal.Net(dec.RequireFromString("100.00"), dec.RequireFromString("10.555"))
	assert.True(t, result.Equal(dec.RequireFromString("89.45")), "got %s", result)
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestRoundMXN(t *testing.T) {
	d := dec.RequireFromString("123456.789")
	result := decimal.RoundMXN(d)
	assert.True(t, result.Equal(dec.RequireFromString("123456.79")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "116.00", decimal.Format(dec.RequireFromString("116")))
	assert.Equal(t, "0.50", decimal.Format(dec.RequireFromString("0.5")))
}
