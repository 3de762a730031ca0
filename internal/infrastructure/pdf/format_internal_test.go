package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"0":          "0",
		"950":        "950",
		"25000":      "25.000",
		"4500.5":     "4.500,50",
		"1000000.25": "1.000.000,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatPrice(decimal.RequireFromString(in)), in)
	}
}
