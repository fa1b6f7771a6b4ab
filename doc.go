// Package folium is a transaction reconciliation, aggregation and valuation
// engine for personal securities portfolios spread over multiple currencies
// and broker accounts.
//
// The core functionalities include:
//   - Broker Normalization: Parsing delimited broker exports into canonical,
//     broker-agnostic transaction events via an ordered keyword rule table.
//   - Event Reconciliation: Absorbing split fee and tax ledger lines into the
//     buy, sell, or dividend event they economically belong to.
//   - Per-Instrument Aggregation: Range-scoped counts, cost basis, fees, and
//     dividends for one instrument, all funneled through a single currency
//     conversion point.
//   - Portfolio Valuation: Combining aggregates with cached market quotes to
//     compute the portfolio value, overview metrics, per-instrument weights,
//     and time-bucketed report series.
//   - Data Persistence: Opaque binary stores for canonical events, raw import
//     logs, and instrument reference data, replaced atomically as a whole.
//
// Every aggregation query is a pure function of the store snapshot, the
// reference data, the cached quotes, and the query parameters; results are
// recomputed per query window and never cached as source of truth.
//
// This package serves as the foundational logic for the `folium`
// command-line tool.
package folium
