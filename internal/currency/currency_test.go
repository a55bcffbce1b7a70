package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToReference(t *testing.T) {
	t.Parallel()

	c := NewDefaultConverter()

	tests := []struct {
		name   string
		amount float64
		symbol string
		want   float64
	}{
		{"casablanca symbol divides", 1000, "IAM", 100},
		{"casablanca loss divides", -5000, "ATW", -500},
		{"usd symbol unchanged", 1000, "AAPL", 1000},
		{"crypto unchanged", -250, "BTC", -250},
		{"unknown symbol treated as reference", 42, "XYZ", 42},
		{"zero", 0, "IAM", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, c.ToReference(tt.amount, tt.symbol), 1e-12)
		})
	}
}

func TestToDisplay(t *testing.T) {
	t.Parallel()

	c := NewDefaultConverter()

	assert.InDelta(t, 1000.0, c.ToDisplay(100, "IAM"), 1e-12)
	assert.InDelta(t, 100.0, c.ToDisplay(100, "AAPL"), 1e-12)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	c := NewDefaultConverter()

	for _, sym := range []string{"IAM", "ATW", "BCP", "LHM", "CIH", "TQM"} {
		got := c.ToDisplay(c.ToReference(1234.56, sym), sym)
		assert.InDelta(t, 1234.56, got, 1e-9, "round trip for %s", sym)
	}

	// Reference-currency symbols are the identity both ways.
	assert.Equal(t, 1234.56, c.ToReference(1234.56, "MSFT"))
	assert.Equal(t, 1234.56, c.ToDisplay(1234.56, "MSFT"))
}

func TestInjectedRateTable(t *testing.T) {
	t.Parallel()

	c := NewConverter(NewFixedRateTable(2, []string{"FOO"}))

	assert.InDelta(t, 50.0, c.ToReference(100, "FOO"), 1e-12)
	assert.InDelta(t, 100.0, c.ToReference(100, "BAR"), 1e-12)
}
