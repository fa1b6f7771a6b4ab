package folium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuation_DepositSeries(t *testing.T) {
	store := NewStore()
	store.Append(
		cashEvent("2023-03-10 09:00", KindDeposit, USD(500)),
		cashEvent("2023-01-05 09:00", KindDeposit, USD(1000)),
		cashEvent("2023-01-20 09:00", KindDeposit, USD(250)),
		cashEvent("2023-02-01 09:00", KindWithdrawal, USD(100)),
	)
	v := NewValuation(store, NewReference(), emptyQuotes(t), usdEur(), usdConfig(), testLogger())

	points, err := v.DepositSeries(year2023)
	require.NoError(t, err)
	require.Len(t, points, 2, "withdrawals are a different series")

	// Sorted months, each carrying the running total.
	assert.Equal(t, "2023-01", points[0].Key)
	assert.True(t, points[0].Value.Equal(USD(1250)), "got %v", points[0].Value)
	assert.Equal(t, "2023-03", points[1].Key)
	assert.True(t, points[1].Value.Equal(USD(1750)), "got %v", points[1].Value)
}

func TestValuation_InvestedSeries(t *testing.T) {
	store := NewStore()
	store.Append(
		buyEvent("2023-01-02 09:30", acme, 10, USD(100)),
		buyEvent("2023-06-01 09:30", acme, 5, USD(110)),
		sellEvent("2023-03-01 09:30", acme, 2, USD(105)),
	)
	v := NewValuation(store, NewReference(), emptyQuotes(t), usdEur(), usdConfig(), testLogger())

	points, err := v.InvestedSeries(year2023)
	require.NoError(t, err)
	require.Len(t, points, 2, "sells do not reduce invested capital")
	assert.Equal(t, "2023-01", points[0].Key)
	assert.True(t, points[0].Value.Equal(USD(1000)))
	assert.Equal(t, "2023-06", points[1].Key)
	assert.True(t, points[1].Value.Equal(USD(1550)))
}

func TestValuation_DividendsByMonthAndYear(t *testing.T) {
	store := NewStore()
	marchA := dividendEvent("2023-03-15 08:00", acme, USD(30))
	marchA.Fee = USD(4.50)
	store.Append(
		marchA,
		dividendEvent("2023-03-20 08:00", beta, USD(10)),
		dividendEvent("2023-09-15 08:00", acme, USD(35)),
	)
	v := NewValuation(store, NewReference(), emptyQuotes(t), usdEur(), usdConfig(), testLogger())

	months, err := v.DividendsByMonth(year2023)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2023-03", months[0].Key)
	assert.True(t, months[0].Value.Equal(USD(44.50)), "gross of tax, got %v", months[0].Value)
	assert.Equal(t, "2023-09", months[1].Key)
	assert.True(t, months[1].Value.Equal(USD(35)))

	years, err := v.DividendsByYear(year2023)
	require.NoError(t, err)
	require.Len(t, years, 1)
	assert.Equal(t, "2023", years[0].Key)
	assert.True(t, years[0].Value.Equal(USD(79.50)), "got %v", years[0].Value)
}

func TestValuation_SeriesWindowAndFilter(t *testing.T) {
	store := NewStore()
	store.Append(
		dividendEvent("2022-12-31 08:00", acme, USD(99)),
		dividendEvent("2023-03-15 08:00", acme, USD(30)),
		dividendEvent("2023-03-20 08:00", beta, USD(10)),
	)
	v := NewValuation(store, NewReference(), emptyQuotes(t), usdEur(), usdConfig(), testLogger())

	months, err := v.DividendsByMonth(year2023, acme)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.True(t, months[0].Value.Equal(USD(30)), "out-of-window and filtered instruments drop, got %v", months[0].Value)
}

func TestValuation_InstrumentWeights(t *testing.T) {
	store := NewStore()
	a := buyEvent("2023-01-02 09:30", acme, 6, USD(100))
	a.Symbol = "ACME"
	b := buyEvent("2023-01-02 09:30", beta, 10, USD(10))
	b.Symbol = "BETA"
	store.Append(a, b)

	quotes := testQuotes(t, `{"US0000000001": {"Price": 110}, "US0000000002": {"Price": 22}}`)
	v := NewValuation(store, NewReference(), quotes, usdEur(), usdConfig(), testLogger())

	points, err := v.InstrumentWeights(year2023)
	require.NoError(t, err)
	require.Len(t, points, 2)
	// 660 and 220 of an 880 portfolio.
	assert.Equal(t, "ACME", points[0].Key)
	assert.True(t, points[0].Weight.Equal(75), "got %v", points[0].Weight)
	assert.Equal(t, "BETA", points[1].Key)
	assert.True(t, points[1].Weight.Equal(25), "got %v", points[1].Weight)
}

func TestValuation_SectorWeights(t *testing.T) {
	store := NewStore()
	store.Append(
		buyEvent("2023-01-02 09:30", acme, 6, USD(100)),
		buyEvent("2023-01-02 09:30", beta, 10, USD(10)),
	)
	ref := NewReference()
	ref.Put(Instrument{ISIN: acme, Sector: "Technology"})

	quotes := testQuotes(t, `{"US0000000001": {"Price": 110}, "US0000000002": {"Price": 22}}`)
	v := NewValuation(store, ref, quotes, usdEur(), usdConfig(), testLogger())

	points, err := v.SectorWeights(year2023)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "Technology", points[0].Key)
	assert.True(t, points[0].Weight.Equal(75), "got %v", points[0].Weight)
	assert.Equal(t, "Unknown", points[1].Key)
	assert.True(t, points[1].Weight.Equal(25), "got %v", points[1].Weight)
}

func TestValuation_WeightsEmptyPortfolio(t *testing.T) {
	store := NewStore()
	store.Append(buyEvent("2023-01-02 09:30", acme, 6, USD(100)))
	v := NewValuation(store, NewReference(), emptyQuotes(t), usdEur(), usdConfig(), testLogger())

	points, err := v.InstrumentWeights(year2023)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, points[0].Weight.Equal(0), "unquoted portfolio values zero, weights stay zero")
}
