package folium

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/amori/folium/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

/// ts parses a "2006-01-02 15:04" timestamp for event fixtures.
func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// year2023 is the default test window.
var year2023 = date.NewRange(date.MustParse("2023-01-01"), date.MustParse("2023-12-31"))

// usdEur is a complete two-currency rate table used across tests.
func usdEur() *Rates {
	return NewRates().Set("USD", "EUR", 0.5).Set("EUR", "USD", 2)
}

func buyEvent(when, isin string, qty int64, price Money) Event {
	return Event{Time: ts(when), Kind: KindBuy, ISIN: isin, Symbol: isin, Name: isin, Quantity: qty, Price: price, Fee: M(0, price.Currency()), Source: "test"}
}

func sellEvent(when, isin string, qty int64, price Money) Event {
	return Event{Time: ts(when), Kind: KindSell, ISIN: isin, Symbol: isin, Name: isin, Quantity: qty, Price: price, Fee: M(0, price.Currency()), Source: "test"}
}

func dividendEvent(when, isin string, amount Money) Event {
	return Event{Time: ts(when), Kind: KindDividend, ISIN: isin, Symbol: isin, Name: isin, Price: amount, Fee: M(0, amount.Currency()), Source: "test"}
}

func feeEvent(when, isin string, kind Kind, amount Money) Event {
	return Event{Time: ts(when), Kind: kind, ISIN: isin, Symbol: isin, Name: isin, Price: amount, Fee: M(0, amount.Currency()), Source: "test"}
}

func cashEvent(when string, kind Kind, amount Money) Event {
	return Event{Time: ts(when), Kind: kind, Price: amount, Fee: M(0, amount.Currency()), Source: "test"}
}

// testLogger discards all output.
func testLogger() zerolog.Logger { return zerolog.Nop() }
