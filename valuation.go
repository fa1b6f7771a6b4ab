package folium

import (
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/amori/folium/date"
)

// Config carries the explicit query configuration: the configured currencies,
// display preferences, and filters. It is passed into every query rather than
// read from ambient state, keeping valuation pure and testable.
type Config struct {
	DisplayCurrency   string        // currency all aggregates are reported in
	ReportingCurrency string        // currency of the account balance snapshot
	ExclusionMarker   string        // name marker of non-tradable wrappers, e.g. fund share-class placeholders
	IncludeClosed     bool          // include instruments with net holdings <= 0
	FeeTolerance      time.Duration // reconciler timestamp matching window
}

// Valuation combines the event store with reference data, cached quotes, and
// the rate table, and computes the portfolio-wide aggregates. Every query is
// a pure function of the snapshots and its parameters.
type Valuation struct {
	store  *Store
	ref    *Reference
	quotes *Quotes
	rates  *Rates
	cfg    Config
	log    zerolog.Logger
}

// NewValuation creates a valuation engine over the given snapshots.
func NewValuation(store *Store, ref *Reference, quotes *Quotes, rates *Rates, cfg Config, log zerolog.Logger) *Valuation {
	return &Valuation{store: store, ref: ref, quotes: quotes, rates: rates, cfg: cfg, log: log}
}

// selected reports whether an instrument passes the optional filter.
func selected(only []string, isin string) bool {
	return len(only) == 0 || slices.Contains(only, isin)
}

// excluded reports whether the instrument is a non-tradable wrapper that
// never contributes to valuation.
func (v *Valuation) excluded(p *Position) bool {
	return v.cfg.ExclusionMarker != "" && strings.Contains(p.Name(), v.cfg.ExclusionMarker)
}

// instrumentValue resolves the online value of one instrument: current cached
// price, else previous close, else zero (a defined degraded state, not an
// error), times net held quantity, in the display currency.
func (v *Valuation) instrumentValue(p *Position, r date.Range) (Money, error) {
	count := v.held(p, r)
	if count <= 0 {
		return M(0, v.cfg.DisplayCurrency), nil
	}
	price, ok := v.quotes.CurrentPrice(p.ISIN)
	if !ok {
		v.log.Debug().Str("isin", p.ISIN).Msg("no cached quote, instrument contributes zero")
		return M(0, v.cfg.DisplayCurrency), nil
	}
	return v.rates.Convert(M(price, p.Currency()).Mul(count), v.cfg.DisplayCurrency)
}

// held returns the net held quantity over the window, never negative for
// valuation purposes.
func (v *Valuation) held(p *Position, r date.Range) int64 {
	return p.Count(r)
}

// PortfolioValue computes the total portfolio value over the window: the sum
// of current price times net held quantity across tradable instruments,
// converted into the display currency. Instruments with net holdings <= 0 are
// skipped unless closed positions were requested.
func (v *Valuation) PortfolioValue(r date.Range, only ...string) (Money, error) {
	total := M(0, v.cfg.DisplayCurrency)
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
			return Money{}, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// Overview holds the portfolio-wide metrics over one window. Every monetary
// figure is an absolute gross amount in the display currency.
type Overview struct {
	Range           date.Range
	Deposited       Money
	Withdrawn       Money
	Invested        Money // capital spent on buys
	Proceeds        Money // proceeds from sells
	Dividends       Money // gross dividends
	DividendTax     Money
	Fees            Money
	TransactionFees Money
	PortfolioValue  Money
	DividendYield   Percent // zero when invested equals proceeds
	Performance     Percent // zero when nothing was deposited
	Balance         *Money  // most recent running balance in the reporting currency
}

// Overview accumulates the window's metrics across all events, bucketed by
// event kind. Unlike PortfolioValue it is not filtered by holding count.
func (v *Valuation) Overview(r date.Range, only ...string) (*Overview, error) {
	o := &Overview{
		Range:           r,
		Deposited:       M(0, v.cfg.DisplayCurrency),
		Withdrawn:       M(0, v.cfg.DisplayCurrency),
		Invested:        M(0, v.cfg.DisplayCurrency),
		Proceeds:        M(0, v.cfg.DisplayCurrency),
		Dividends:       M(0, v.cfg.DisplayCurrency),
		DividendTax:     M(0, v.cfg.DisplayCurrency),
		Fees:            M(0, v.cfg.DisplayCurrency),
		TransactionFees: M(0, v.cfg.DisplayCurrency),
	}

	var balanceAt time.Time
	for isin, events := range v.store.All() {
		if !selected(only, isin) {
			continue
		}
		for _, e := range events {
			if !r.Contains(e.Day()) {
				continue
			}
			if err := v.accumulate(o, e); err != nil {
				return nil, err
			}
			if e.Balance != nil && e.Balance.Currency() == v.cfg.ReportingCurrency && e.Time.After(balanceAt) {
				b := *e.Balance
				o.Balance = &b
				balanceAt = e.Time
			}
		}
	}

	value, err := v.PortfolioValue(r, only...)
	if err != nil {
		return nil, err
	}
	o.PortfolioValue = value

	// Dividend yield over net invested capital, defined only when the
	// denominator is non-zero.
	if denom := o.Invested.Sub(o.Proceeds); !denom.IsZero() {
		o.DividendYield = Percent(o.Dividends.Sub(o.DividendTax).AsFloat() / denom.AsFloat() * 100)
	}
	// Overall performance against gross deposits, defined only when anything
	// was deposited.
	if !o.Deposited.IsZero() {
		num := o.PortfolioValue.Add(o.Dividends).Sub(o.DividendTax).Sub(o.Fees).Sub(o.TransactionFees)
		o.Performance = Percent(num.AsFloat() / o.Deposited.AsFloat() * 100)
	}
	return o, nil
}

// accumulate adds one event into the overview buckets, converting through the
// single conversion point.
func (v *Valuation) accumulate(o *Overview, e Event) error {
	display := func(m Money) (Money, error) {
		converted, err := v.rates.Convert(m, v.cfg.DisplayCurrency)
		if err != nil {
			return Money{}, err
		}
		return converted.Abs(), nil
	}

	amount, err := display(e.Amount())
	if err != nil {
		return err
	}
	fee, err := display(e.Fee)
	if err != nil {
		return err
	}

	switch e.Kind {
	case KindDeposit:
		o.Deposited = o.Deposited.Add(amount)
	case KindWithdrawal:
		o.Withdrawn = o.Withdrawn.Add(amount)
	case KindBuy:
		o.Invested = o.Invested.Add(amount)
		o.Fees = o.Fees.Add(fee)
	case KindSell:
		o.Proceeds = o.Proceeds.Add(amount)
		o.Fees = o.Fees.Add(fee)
	case KindDividend:
		o.Dividends = o.Dividends.Add(amount)
		o.DividendTax = o.DividendTax.Add(fee)
	case KindTax:
		o.DividendTax = o.DividendTax.Add(amount)
	case KindFee:
		o.Fees = o.Fees.Add(amount)
	case KindTransactionFee:
		o.TransactionFees = o.TransactionFees.Add(amount)
	case KindCurrencyExchange:
		// cash moved between currency accounts, no bucket
	}
	return nil
}

// TableRow is one per-instrument line of the overview table.
type TableRow struct {
	ISIN      string
	Symbol    string
	Name      string
	Sector    string
	Count     int64
	Cost      Money
	Fees      Money
	Dividends Money
	Value     Money
	Weight    Percent // share of the portfolio value
}

// OverviewTable computes the per-instrument rows over the window: count, cost
// basis, fees, dividends, online value, and the instrument's weight in the
// portfolio. The weight needs the portfolio value, so the table is a two-pass
// computation. Rows are sorted by symbol.
func (v *Valuation) OverviewTable(r date.Range, only ...string) ([]TableRow, error) {
	portfolio, err := v.PortfolioValue(r, only...)
	if err != nil {
		return nil, err
	}

	var rows []TableRow
	for isin, events := range v.store.All() {
		if !selected(only, isin) {
			continue
		}
		p := NewPosition(isin, events)
		if v.excluded(p) {
			continue
		}
		count := v.held(p, r)
		if count <= 0 && !v.cfg.IncludeClosed {
			continue
		}

		cost, err := p.Cost(r, v.rates, v.cfg.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		fees, err := p.Fees(r, v.rates, v.cfg.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		dividends, err := p.Dividends(r, v.rates, v.cfg.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		value, err := v.instrumentValue(p, r)
		if err != nil {
			return nil, err
		}

		row := TableRow{
			ISIN:      isin,
			Symbol:    p.Symbol(),
			Name:      p.Name(),
			Sector:    v.ref.Sector(isin),
			Count:     count,
			Cost:      cost,
			Fees:      fees,
			Dividends: dividends,
			Value:     value,
		}
		if !portfolio.IsZero() {
			row.Weight = Percent(value.AsFloat() / portfolio.AsFloat() * 100)
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b TableRow) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return rows, nil
}
