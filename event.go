package folium

import (
	"fmt"
	"time"

	"github.com/amori/folium/date"
)

// Kind is a typed string identifying the economic nature of an event.
type Kind string

// Event kinds produced by the normalizer.
const (
	KindDeposit          Kind = "deposit"
	KindWithdrawal       Kind = "withdrawal"
	KindBuy              Kind = "buy"
	KindSell             Kind = "sell"
	KindDividend         Kind = "dividend"
	KindTax              Kind = "tax"
	KindFee              Kind = "fee"
	KindTransactionFee   Kind = "transaction-fee"
	KindCurrencyExchange Kind = "currency-exchange"
)

// IsFeeLike reports whether the kind is a fee/tax line item that the
// reconciler may absorb into a parent event.
func (k Kind) IsFeeLike() bool {
	return k == KindFee || k == KindTax || k == KindTransactionFee
}

// IsTrade reports whether the kind moves a security position.
func (k Kind) IsTrade() bool { return k == KindBuy || k == KindSell }

// IsParent reports whether the kind can absorb fee-like siblings.
func (k Kind) IsParent() bool { return k.IsTrade() || k == KindDividend }

// Event is the canonical, broker-agnostic transaction record.
//
// Quantity is always non-negative; direction (buy adds, sell removes) is
// carried by Kind, never by sign. UnitPrice is per-share for Buy and Sell and
// an absolute amount for every other kind.
type Event struct {
	Time     time.Time
	Kind     Kind
	Symbol   string // display symbol
	ISIN     string // stable instrument identifier
	Name     string // product display name
	Quantity int64  // zero for non-position events
	Price    Money  // unit price (Buy/Sell) or absolute amount
	Fee      Money  // associated fee, absolute, in the event's currency
	Balance  *Money // latest known account balance at this point, if reported
	Source   string // broker/import path that produced the event
}

// Currency returns the currency the event amounts are expressed in.
func (e Event) Currency() string { return e.Price.Currency() }

// Day returns the calendar date the event occurred on.
func (e Event) Day() date.Date { return date.Of(e.Time) }

// Amount returns the total economic amount of the event: price times quantity
// for trades, the absolute price for everything else.
func (e Event) Amount() Money {
	if e.Kind.IsTrade() && e.Quantity != 0 {
		return e.Price.Mul(e.Quantity)
	}
	return e.Price
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s %s x%d %s", e.Time.Format(time.DateTime), e.Kind, e.Symbol, e.Quantity, e.Price)
}

// sortEvents orders a sequence by time, stable for same-instant records.
func sortEvents(events []Event) {
	// insertion sort keeps the original relative order of equal timestamps,
	// which matters for balance tracking and same-day merges.
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Time.Before(events[j-1].Time); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
