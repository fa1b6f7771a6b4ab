package folium

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownRatePair is returned when a conversion is requested for a
// directed currency pair that has no configured rate.
var ErrUnknownRatePair = errors.New("unknown rate pair")

type ratePair struct{ from, to string }

// Rates is a table of directed pairwise conversion rates.
//
// There is no transitive chaining through a third currency: a conversion
// succeeds only if the exact directed pair is configured. All monetary
// aggregation in the engine funnels through Convert so a rate update affects
// every computation uniformly. The table is assumed static for the duration
// of one valuation query.
type Rates struct {
	rates map[ratePair]decimal.Decimal
}

// NewRates creates an empty rate table.
func NewRates() *Rates {
	return &Rates{rates: make(map[ratePair]decimal.Decimal)}
}

// Set configures the rate for the directed pair from→to.
func (r *Rates) Set(from, to string, rate float64) *Rates {
	r.rates[ratePair{from, to}] = decimal.NewFromFloat(rate)
	return r
}

// Convert converts m into the target currency.
// Converting into the same currency is the identity.
func (r *Rates) Convert(m Money, target string) (Money, error) {
	if m.Currency() == target || m.Currency() == "" {
		return M(m.Decimal(), target), nil
	}
	rate, ok := r.rates[ratePair{m.Currency(), target}]
	if !ok {
		return Money{}, fmt.Errorf("%w: %s to %s", ErrUnknownRatePair, m.Currency(), target)
	}
	return M(m.Decimal().Mul(rate), target), nil
}

// Validate eagerly checks that every ordered pair of the given currencies has
// a configured rate, so a missing pair is found at configuration time rather
// than mid-aggregation.
func (r *Rates) Validate(currencies ...string) error {
	var errs error
	for _, code := range currencies {
		if err := ValidateCurrency(code); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	for _, from := range currencies {
		for _, to := range currencies {
			if from == to {
				continue
			}
			if _, ok := r.rates[ratePair{from, to}]; !ok {
				errs = errors.Join(errs, fmt.Errorf("%w: %s to %s", ErrUnknownRatePair, from, to))
			}
		}
	}
	return errs
}
