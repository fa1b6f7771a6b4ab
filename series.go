package folium

import (
	"slices"
	"strings"

	"github.com/amori/folium/date"
)

// Point is one bucket of a monetary time series, keyed by a sortable label
// such as "2023-06" or "2023".
type Point struct {
	Key   string
	Value Money
}

// WeightPoint is one slice of a weight distribution.
type WeightPoint struct {
	Key    string
	Weight Percent
}

// sortedPoints flattens a bucket map into points sorted by key. Accumulation
// follows event-store iteration order, which is unordered, so sorting is a
// required post-processing step.
func sortedPoints(buckets map[string]Money) []Point {
	points := make([]Point, 0, len(buckets))
	for key, value := range buckets {
		points = append(points, Point{Key: key, Value: value})
	}
	slices.SortFunc(points, func(a, b Point) int { return strings.Compare(a.Key, b.Key) })
	return points
}

// cumulative rewrites a sorted series so each point carries the running total.
func cumulative(points []Point) []Point {
	var total Money
	for i, p := range points {
		total = total.Add(p.Value)
		points[i].Value = total
	}
	return points
}

// kindSeries buckets the display-converted absolute amounts of one event kind
// by the given key function.
func (v *Valuation) kindSeries(r date.Range, kind Kind, key func(date.Date) string, only ...string) ([]Point, error) {
	buckets := make(map[string]Money)
	for isin, events := range v.store.All() {
		if !selected(only, isin) {
			continue
		}
		for _, e := range events {
			if e.Kind != kind || !r.Contains(e.Day()) {
				continue
			}
			amount, err := v.rates.Convert(e.Amount(), v.cfg.DisplayCurrency)
			if err != nil {
				return nil, err
			}
			k := key(e.Day())
			buckets[k] = buckets[k].Add(amount.Abs())
		}
	}
	return sortedPoints(buckets), nil
}

// DepositSeries returns cumulative deposits over time, bucketed by month.
func (v *Valuation) DepositSeries(r date.Range, only ...string) ([]Point, error) {
	points, err := v.kindSeries(r, KindDeposit, date.Date.MonthKey, only...)
	if err != nil {
		return nil, err
	}
	return cumulative(points), nil
}

// InvestedSeries returns cumulative invested capital over time, bucketed by
// month.
func (v *Valuation) InvestedSeries(r date.Range, only ...string) ([]Point, error) {
	points, err := v.kindSeries(r, KindBuy, date.Date.MonthKey, only...)
	if err != nil {
		return nil, err
	}
	return cumulative(points), nil
}

// dividendSeries buckets gross dividends (amount plus associated tax) by key.
func (v *Valuation) dividendSeries(r date.Range, key func(date.Date) string, only ...string) ([]Point, error) {
	buckets := make(map[string]Money)
	for isin, events := range v.store.All() {
		if !selected(only, isin) {
			continue
		}
		for _, e := range events {
			if e.Kind != KindDividend || !r.Contains(e.Day()) {
				continue
			}
			amount, err := v.rates.Convert(e.Price, v.cfg.DisplayCurrency)
			if err != nil {
				return nil, err
			}
			tax, err := v.rates.Convert(e.Fee, v.cfg.DisplayCurrency)
			if err != nil {
				return nil, err
			}
			k := key(e.Day())
			buckets[k] = buckets[k].Add(amount).Add(tax)
		}
	}
	return sortedPoints(buckets), nil
}

// DividendsByMonth returns gross dividends received per calendar month.
func (v *Valuation) DividendsByMonth(r date.Range, only ...string) ([]Point, error) {
	return v.dividendSeries(r, date.Date.MonthKey, only...)
}

// DividendsByYear returns gross dividends received per calendar year.
func (v *Valuation) DividendsByYear(r date.Range, only ...string) ([]Point, error) {
	return v.dividendSeries(r, date.Date.YearKey, only...)
}

// weights turns per-key online values into percentage-of-portfolio weights.
func weights(buckets map[string]Money, portfolio Money) []WeightPoint {
	points := make([]WeightPoint, 0, len(buckets))
	for key, value := range buckets {
		var w Percent
		if !portfolio.IsZero() {
			w = Percent(value.AsFloat() / portfolio.AsFloat() * 100)
		}
		points = append(points, WeightPoint{Key: key, Weight: w})
	}
	slices.SortFunc(points, func(a, b WeightPoint) int { return strings.Compare(a.Key, b.Key) })
	return points
}

// groupedValues sums instrument online values grouped by the given key.
func (v *Valuation) groupedValues(r date.Range, group func(*Position) string, only ...string) (map[string]Money, Money, error) {
	portfolio := M(0, v.cfg.DisplayCurrency)
	buckets := make(map[string]Money)
	for isin, events := range v.store.All() {
		if !selected(only, isin) {
			continue
		}
		p := NewPosition(isin, events)
		if v.excluded(p) {
			continue
		}
		if v.held(p, r) <= 0 && !v.cfg.IncludeClosed {
			continue
		}
		value, err := v.instrumentValue(p, r)
		if err != nil {
			return nil, Money{}, err
		}
		key := group(p)
		buckets[key] = buckets[key].Add(value)
		portfolio = portfolio.Add(value)
	}
	return buckets, portfolio, nil
}

// SectorWeights returns each sector's share of the portfolio value, sorted by
// sector name.
func (v *Valuation) SectorWeights(r date.Range, only ...string) ([]WeightPoint, error) {
	buckets, portfolio, err := v.groupedValues(r, func(p *Position) string {
		return v.ref.Sector(p.ISIN)
	}, only...)
	if err != nil {
		return nil, err
	}
	return weights(buckets, portfolio), nil
}

// InstrumentWeights returns each instrument's share of the portfolio value,
// sorted by symbol.
func (v *Valuation) InstrumentWeights(r date.Range, only ...string) ([]WeightPoint, error) {
	buckets, portfolio, err := v.groupedValues(r, (*Position).Symbol, only...)
	if err != nil {
		return nil, err
	}
	return weights(buckets, portfolio), nil
}
