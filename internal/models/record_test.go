package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	amount := decimal.NewFromFloat(45.99)

	record := NewRecord("  Staples  ", &amount, " 2024-01-15 ", []string{" paper ", "", "  ", "pens"}, "receipt text", 0.95)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Staples", record.Vendor)
	assert.Equal(t, "2024-01-15", record.Date)
	assert.Equal(t, []string{"paper", "pens"}, record.Items)
	assert.Equal(t, "receipt text", record.Text)
	assert.Equal(t, 0.95, record.Confidence)
	require.NotNil(t, record.Amount)
	assert.True(t, record.Amount.Equal(amount))
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	a := NewRecord("Acme", nil, "", nil, "", 0)
	b := NewRecord("Acme", nil, "", nil, "", 0)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewRecord_KeepsNegativeAmount(t *testing.T) {
	amount := decimal.NewFromFloat(-5.00)
	record := NewRecord("Acme", &amount, "2024-01-15", nil, "", 0.9)

	require.NotNil(t, record.Amount)
	assert.True(t, record.Amount.IsNegative())
}

func TestRecord_KnownAmount(t *testing.T) {
	positive := decimal.NewFromFloat(20.00)
	zero := decimal.Zero
	negative := decimal.NewFromFloat(-3.50)

	tests := []struct {
		name   string
		amount *decimal.Decimal
		want   bool
	}{
		{name: "nil amount", amount: nil, want: false},
		{name: "zero amount", amount: &zero, want: false},
		{name: "positive amount", amount: &positive, want: true},
		{name: "negative amount", amount: &negative, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Record{Amount: tt.amount}
			assert.Equal(t, tt.want, record.KnownAmount())
		})
	}
}
