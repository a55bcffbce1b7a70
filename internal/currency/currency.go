// Package currency converts amounts between an instrument's native currency
// and the ledger's reference currency (USD). Trade prices and P&L are stored
// in whatever currency the instrument trades in; the challenge ledger tracks
// everything in the reference currency so percentage limits stay comparable
// across a mixed portfolio.
package currency

// RateTable resolves the conversion rate for a symbol: the factor a
// native-currency amount is divided by to reach the reference currency.
// Symbols whose native currency already is the reference currency return 1.
type RateTable interface {
	RateFor(symbol string) float64
}

// FixedRateTable is a RateTable with one constant rate applied to a fixed
// set of foreign-denominated symbols. Anything not listed is assumed to
// trade in the reference currency.
type FixedRateTable struct {
	rate    float64
	foreign map[string]bool
}

// NewFixedRateTable creates a rate table that applies rate to the listed
// symbols and 1 to everything else.
func NewFixedRateTable(rate float64, foreignSymbols []string) *FixedRateTable {
	foreign := make(map[string]bool, len(foreignSymbols))
	for _, s := range foreignSymbols {
		foreign[s] = true
	}
	return &FixedRateTable{rate: rate, foreign: foreign}
}

// RateFor returns the fixed rate for listed symbols and 1 otherwise.
// Unknown symbols fall into the reference-currency branch.
func (t *FixedRateTable) RateFor(symbol string) float64 {
	if t.foreign[symbol] {
		return t.rate
	}
	return 1
}

// Converter translates amounts using a RateTable.
type Converter struct {
	rates RateTable
}

// NewConverter creates a converter over the given rate table.
func NewConverter(rates RateTable) *Converter {
	return &Converter{rates: rates}
}

// ToReference converts a native-currency amount into the reference currency.
// No rounding is done here; callers format for display.
func (c *Converter) ToReference(amount float64, symbol string) float64 {
	return amount / c.rates.RateFor(symbol)
}

// ToDisplay converts a reference-currency amount back into the symbol's
// native currency.
func (c *Converter) ToDisplay(amount float64, symbol string) float64 {
	return amount * c.rates.RateFor(symbol)
}

// MADRate is the fixed USD/MAD conversion factor for Casablanca bourse
// instruments, which trade in dirhams.
const MADRate = 10.0

// CasablancaSymbols lists the instruments quoted in dirhams on the
// Casablanca bourse.
var CasablancaSymbols = []string{"IAM", "ATW", "BCP", "LHM", "CIH", "TQM"}

// NewDefaultConverter returns the converter used in production: Casablanca
// bourse symbols convert at MADRate, everything else is already quoted in
// the reference currency.
func NewDefaultConverter() *Converter {
	return NewConverter(NewFixedRateTable(MADRate, CasablancaSymbols))
}
