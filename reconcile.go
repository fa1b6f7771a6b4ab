package folium

import (
	"fmt"
	"time"
)

// Reconcile absorbs fee and tax line items into the economic event they
// belong to.
//
// For every Buy, Sell, or Dividend event, every fee-like event (Fee, Tax,
// TransactionFee) of the same instrument recorded within tolerance of the
// parent's timestamp is converted into the parent's currency and added to the
// parent's Fee; the absorbed event is then removed from the sequence. A
// single parent may absorb more than one sibling recorded at the same
// instant.
//
// The input slice is never mutated: events in, corrected events out. A zero
// tolerance requires exact timestamp equality; broker exports that stamp fee
// lines a little off their parent need a small window.
func Reconcile(events []Event, rates *Rates, tolerance time.Duration) ([]Event, error) {
	corrected := make([]Event, len(events))
	copy(corrected, events)
	absorbed := make([]bool, len(corrected))

	for i := range corrected {
		parent := corrected[i]
		if absorbed[i] || !parent.Kind.IsParent() {
			continue
		}
		for j, sibling := range corrected {
			if j == i || absorbed[j] || !sibling.Kind.IsFeeLike() {
				continue
			}
			if sibling.ISIN != parent.ISIN || !within(parent.Time, sibling.Time, tolerance) {
				continue
			}
			amount, err := rates.Convert(sibling.Price.Abs(), parent.Currency())
			if err != nil {
				return nil, fmt.Errorf("could not absorb %s into %s on %s: %w",
					sibling.Kind, parent.Kind, parent.Day(), err)
			}
			parent.Fee = parent.Fee.Add(amount)
			absorbed[j] = true
		}
		corrected[i] = parent
	}

	out := make([]Event, 0, len(corrected))
	for i, e := range corrected {
		if !absorbed[i] {
			out = append(out, e)
		}
	}
	return out, nil
}

func within(a, b time.Time, tolerance time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// ReconcileStore runs Reconcile over every instrument sequence in the store
// and replaces each corrected sequence.
func ReconcileStore(store *Store, rates *Rates, tolerance time.Duration) error {
	for _, isin := range store.Instruments() {
		corrected, err := Reconcile(store.Events(isin), rates, tolerance)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", isin, err)
		}
		store.Replace(isin, corrected)
	}
	return nil
}
