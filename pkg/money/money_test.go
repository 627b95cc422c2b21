package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	price := decimal.RequireFromString("10.00")
	assert.True(t, LineTotal(price, 2).Equal(decimal.RequireFromString("20.00")))

	price = decimal.RequireFromString("5.50")
	assert.True(t, LineTotal(price, 3).Equal(decimal.RequireFromString("16.50")))
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"25.50", 2550},
		{"0", 0},
		{"10.005", 1001}, // half rounds up
		{"10.004", 1000},
		{"199.99", 19999},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, FromMinorUnits(2550).Equal(decimal.RequireFromString("25.50")))
	assert.True(t, FromMinorUnits(0).Equal(decimal.Zero))
}

func TestRound(t *testing.T) {
	assert.Equal(t, "10.01", Round(decimal.RequireFromString("10.005")).StringFixed(2))
}

func TestNoFloatDrift(t *testing.T) {
	// 0.1 added ten times must be exactly 1.00
	sum := decimal.Zero
	tenth := decimal.RequireFromString("0.10")
	for i := 0; i < 10; i++ {
		sum = sum.Add(tenth)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1)))
}
