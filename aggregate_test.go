package folium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amori/folium/date"
)

// acmePosition is the reconciled sequence of a small round trip: buy ten at
// 100 with a 5 fee, take a dividend, sell four at 120.
func acmePosition() *Position {
	buy := buyEvent("2023-01-02 09:30", acme, 10, USD(100))
	buy.Fee = USD(5)
	div := dividendEvent("2023-03-15 08:00", acme, USD(50))
	div.Fee = USD(7.50)
	sell := sellEvent("2023-06-01 10:00", acme, 4, USD(120))
	return NewPosition(acme, []Event{buy, div, sell})
}

func TestPosition_Count(t *testing.T) {
	p := acmePosition()
	assert.Equal(t, int64(6), p.Count(year2023))

	// Before the sell only the buy counts.
	q1 := date.NewRange(date.MustParse("2023-01-01"), date.MustParse("2023-03-31"))
	assert.Equal(t, int64(10), p.Count(q1))

	// The window end is inclusive.
	toSell := date.NewRange(date.MustParse("2023-01-01"), date.MustParse("2023-06-01"))
	assert.Equal(t, int64(6), p.Count(toSell))
	beforeSell := date.NewRange(date.MustParse("2023-01-01"), date.MustParse("2023-05-31"))
	assert.Equal(t, int64(10), p.Count(beforeSell))
}

func TestPosition_Cost(t *testing.T) {
	p := acmePosition()

	cost, err := p.Cost(year2023, usdEur(), "USD")
	require.NoError(t, err)
	assert.True(t, cost.Equal(USD(1480)), "10x100 + 4x120, got %v", cost)

	// Converted into the reporting currency at the configured rate.
	cost, err = p.Cost(year2023, usdEur(), "EUR")
	require.NoError(t, err)
	assert.True(t, cost.Equal(EUR(740)), "got %v", cost)
}

func TestPosition_Fees(t *testing.T) {
	p := acmePosition()

	fees, err := p.Fees(year2023, usdEur(), "USD")
	require.NoError(t, err)
	assert.True(t, fees.Equal(USD(5)), "dividend tax is not a trade fee, got %v", fees)
}

func TestPosition_Dividends(t *testing.T) {
	p := acmePosition()

	div, err := p.Dividends(year2023, usdEur(), "USD")
	require.NoError(t, err)
	assert.True(t, div.Equal(USD(57.50)), "gross of withheld tax, got %v", div)
}

func TestPosition_AverageCost(t *testing.T) {
	p := acmePosition()

	avg, err := p.AverageCost(year2023, usdEur(), "USD")
	require.NoError(t, err)
	// 1480 over the 6 units still held.
	assert.True(t, avg.Decimal().Equal(USD(1480).Div(6).Decimal()), "got %v", avg)
}

func TestPosition_AverageCost_Closed(t *testing.T) {
	p := NewPosition(acme, []Event{
		buyEvent("2023-01-02 09:30", acme, 4, USD(100)),
		sellEvent("2023-06-01 10:00", acme, 4, USD(120)),
	})

	avg, err := p.AverageCost(year2023, usdEur(), "USD")
	require.NoError(t, err)
	assert.True(t, avg.IsZero(), "closed position has no average cost, got %v", avg)
}

func TestPosition_UnknownRate(t *testing.T) {
	p := acmePosition()

	_, err := p.Cost(year2023, usdEur(), "GBP")
	require.ErrorIs(t, err, ErrUnknownRatePair)
}

func TestPosition_EmptyWindow(t *testing.T) {
	p := acmePosition()
	window := date.NewRange(date.MustParse("2024-01-01"), date.MustParse("2024-12-31"))

	assert.Zero(t, p.Count(window))
	cost, err := p.Cost(window, usdEur(), "USD")
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestPosition_Metadata(t *testing.T) {
	p := acmePosition()
	assert.Equal(t, acme, p.Symbol())
	assert.Equal(t, acme, p.Name())
	assert.Equal(t, "USD", p.Currency())

	empty := NewPosition(acme, nil)
	assert.Empty(t, empty.Currency())
	assert.Empty(t, empty.Symbol())
}
