package folium

import (
	"github.com/amori/folium/date"
)

// Position is a read-only view over one instrument's event sequence, exposing
// the range-scoped aggregate queries. Every query filters events to the
// inclusive [from, to] calendar-date range before folding.
type Position struct {
	ISIN   string
	events []Event
}

// NewPosition creates a position view over an instrument's events.
func NewPosition(isin string, events []Event) *Position {
	return &Position{ISIN: isin, events: events}
}

// Position returns the aggregate view for one instrument in the store.
func (s *Store) Position(isin string) *Position {
	return NewPosition(isin, s.Events(isin))
}

// inRange yields the events falling inside the window.
func (p *Position) inRange(r date.Range) []Event {
	out := make([]Event, 0, len(p.events))
	for _, e := range p.events {
		if r.Contains(e.Day()) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the signed running total of units held over the window:
// Buy adds its quantity, Sell subtracts it, all other kinds are ignored.
func (p *Position) Count(r date.Range) int64 {
	var total int64
	for _, e := range p.inRange(r) {
		switch e.Kind {
		case KindBuy:
			total += e.Quantity
		case KindSell:
			total -= e.Quantity
		}
	}
	return total
}

// Cost returns the absolute sum of unit price times quantity over Buy and
// Sell events, converted into the target currency. Buys and sells both
// contribute magnitude; direction is the caller's business via Count.
func (p *Position) Cost(r date.Range, rates *Rates, target string) (Money, error) {
	total := M(0, target)
	for _, e := range p.inRange(r) {
		if !e.Kind.IsTrade() {
			continue
		}
		unit, err := rates.Convert(e.Price, target)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(unit.Mul(e.Quantity))
	}
	return total.Abs(), nil
}

// Fees returns the absolute sum of associated fees over Buy and Sell events,
// converted into the target currency.
func (p *Position) Fees(r date.Range, rates *Rates, target string) (Money, error) {
	total := M(0, target)
	for _, e := range p.inRange(r) {
		if !e.Kind.IsTrade() {
			continue
		}
		fee, err := rates.Convert(e.Fee, target)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(fee)
	}
	return total.Abs(), nil
}

// Dividends returns the gross dividends received over the window: the
// dividend amount plus its associated tax, both reported as positive gross
// figures, converted into the target currency.
func (p *Position) Dividends(r date.Range, rates *Rates, target string) (Money, error) {
	total := M(0, target)
	for _, e := range p.inRange(r) {
		if e.Kind != KindDividend {
			continue
		}
		amount, err := rates.Convert(e.Price, target)
		if err != nil {
			return Money{}, err
		}
		tax, err := rates.Convert(e.Fee, target)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(amount).Add(tax)
	}
	return total, nil
}

// AverageCost returns the average cost per held unit. A position with no
// units bought has no average cost: the result is zero, not an error.
func (p *Position) AverageCost(r date.Range, rates *Rates, target string) (Money, error) {
	count := p.Count(r)
	if count == 0 {
		return M(0, target), nil
	}
	cost, err := p.Cost(r, rates, target)
	if err != nil {
		return Money{}, err
	}
	return cost.Div(count), nil
}

// Name returns the display name carried by the most recent event.
func (p *Position) Name() string {
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Name != "" {
			return p.events[i].Name
		}
	}
	return ""
}

// Symbol returns the display symbol carried by the most recent event.
func (p *Position) Symbol() string {
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Symbol != "" {
			return p.events[i].Symbol
		}
	}
	return ""
}

// Currency returns the currency of the most recent event, which prices for
// this instrument are assumed to be quoted in.
func (p *Position) Currency() string {
	if len(p.events) == 0 {
		return ""
	}
	return p.events[len(p.events)-1].Currency()
}
