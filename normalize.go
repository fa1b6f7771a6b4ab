package folium

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RawRecord holds the direct string values of a single broker export row,
// before normalization. Raw records are append-only: they are kept verbatim
// in the store so canonical events can be re-derived at any time.
type RawRecord struct {
	Date        string
	Time        string
	Product     string
	ISIN        string
	Description string
	CurrencyA   string // transaction currency column
	AmountA     string // transaction amount column
	CurrencyB   string // balance currency column
	AmountB     string // balance amount column
}

// rule maps a set of description keywords to an event kind.
type rule struct {
	kind     Kind
	keywords []string
}

// classification is the ordered rule table: the first rule whose keyword
// appears in the lower-cased description wins. Order matters: "transaction
// fee" must be recognized before the broader fee patterns.
var classification = []rule{
	{KindDeposit, []string{"deposit"}},
	{KindWithdrawal, []string{"withdrawal", "withdraw"}},
	{KindTransactionFee, []string{"transaction fee", "transaction cost", "transaction commission"}},
	{KindFee, []string{"fee", "commission", "connectivity cost"}},
	{KindTax, []string{"tax", "withholding"}},
	{KindDividend, []string{"dividend"}},
	{KindBuy, []string{"buy", "purchase"}},
	{KindSell, []string{"sell", "sale"}},
	{KindCurrencyExchange, []string{"currency exchange", "fx credit", "fx debit"}},
}

// Classify matches a raw description against the classification table and
// returns the event kind of the first matching rule.
func Classify(description string) (Kind, bool) {
	desc := strings.ToLower(strings.ReplaceAll(description, " ", " "))
	for _, r := range classification {
		for _, kw := range r.keywords {
			if strings.Contains(desc, kw) {
				return r.kind, true
			}
		}
	}
	return "", false
}

// Normalizer parses one broker's raw export into canonical events.
type Normalizer struct {
	Source     string // broker/import path tag recorded on every event
	Delimiter  rune   // field delimiter, ',' when zero
	DateLayout string // defaults to "02-01-2006"
	TimeLayout string // defaults to "15:04"

	log     zerolog.Logger
	skipped int
}

// NewNormalizer creates a normalizer for one broker source.
func NewNormalizer(source string, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		Source:     source,
		Delimiter:  ',',
		DateLayout: "02-01-2006",
		TimeLayout: "15:04",
		log:        log.With().Str("source", source).Logger(),
	}
}

// Skipped returns the number of raw lines dropped because no classification
// rule matched or the row was malformed. Skips are non-fatal.
func (n *Normalizer) Skipped() int { return n.skipped }

// ReadRecords reads all raw rows from a delimited export. Quoted fields are
// honored. The first row is discarded as the column header. Any read error is
// fatal and happens before the store is touched.
func (n *Normalizer) ReadRecords(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = n.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("could not read export header: %w", err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read export rows: %w", err)
	}

	records := make([]RawRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 11 {
			n.skipped++
			n.log.Warn().Int("columns", len(row)).Msg("skipping short row")
			continue
		}
		records = append(records, RawRecord{
			Date:        row[0],
			Time:        row[1],
			Product:     row[3],
			ISIN:        strings.TrimSpace(row[4]),
			Description: row[5],
			CurrencyA:   row[7],
			AmountA:     row[8],
			CurrencyB:   row[9],
			AmountB:     row[10],
		})
	}
	return records, nil
}

// Normalize converts raw records into zero or more canonical events.
//
// Same-day duplicate suppression: brokers sometimes split one economic
// dividend or tax event across two ledger lines, so a Dividend or Tax amount
// for an instrument that already has an event of that kind on the same
// calendar date is added into the existing event's price instead of creating
// a second event.
func (n *Normalizer) Normalize(records []RawRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		e, ok := n.normalizeOne(rec)
		if !ok {
			continue
		}
		if e.Kind == KindDividend || e.Kind == KindTax {
			if i := sameDayIndex(events, e); i >= 0 {
				events[i].Price = events[i].Price.Add(e.Price)
				n.log.Debug().Str("isin", e.ISIN).Str("kind", string(e.Kind)).
					Stringer("day", e.Day()).Msg("merged split ledger line")
				continue
			}
		}
		events = append(events, e)
	}
	sortEvents(events)
	return events
}

// sameDayIndex finds an existing event of the same kind, instrument, and
// calendar date.
func sameDayIndex(events []Event, e Event) int {
	for i, x := range events {
		if x.Kind == e.Kind && x.ISIN == e.ISIN && x.Day() == e.Day() {
			return i
		}
	}
	return -1
}

func (n *Normalizer) normalizeOne(rec RawRecord) (Event, bool) {
	kind, ok := Classify(rec.Description)
	if !ok {
		n.skipped++
		n.log.Warn().Str("description", rec.Description).Msg("unclassifiable line")
		return Event{}, false
	}

	ts, err := n.parseTimestamp(rec.Date, rec.Time)
	if err != nil {
		n.skipped++
		n.log.Warn().Err(err).Msg("skipping row with invalid timestamp")
		return Event{}, false
	}

	currency := detectCurrency(rec.CurrencyA, rec.CurrencyB)
	amount, ok := detectAmount(rec.AmountA, rec.AmountB)
	if !ok {
		n.skipped++
		n.log.Warn().Str("description", rec.Description).Msg("skipping row with no numeric amount")
		return Event{}, false
	}

	var quantity int64
	if kind.IsTrade() {
		quantity = extractQuantity(rec.Description)
	}

	// Per-share price for trades, absolute amount otherwise.
	price := M(amount, currency).Abs()
	if quantity != 0 {
		price = price.Div(quantity)
	}

	e := Event{
		Time:     ts,
		Kind:     kind,
		Symbol:   symbolOf(rec.Product),
		ISIN:     rec.ISIN,
		Name:     strings.TrimSpace(rec.Product),
		Quantity: quantity,
		Price:    price,
		Fee:      M(0, currency),
		Source:   n.Source,
	}

	if bal, ok := parseAmount(rec.AmountB); ok && rec.CurrencyB != "" {
		b := M(bal, strings.TrimSpace(rec.CurrencyB))
		e.Balance = &b
	}
	return e, true
}

func (n *Normalizer) parseTimestamp(d, t string) (time.Time, error) {
	day, err := time.Parse(n.DateLayout, strings.TrimSpace(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", d, err)
	}
	if t = strings.TrimSpace(t); t != "" {
		clock, err := time.Parse(n.TimeLayout, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: %w", t, err)
		}
		day = day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	}
	return day, nil
}

// detectCurrency scans the two known currency columns and returns the first
// 3-letter code found.
func detectCurrency(columns ...string) string {
	for _, c := range columns {
		c = strings.TrimSpace(c)
		if len(c) == 3 && isLetters(c) {
			return strings.ToUpper(c)
		}
	}
	return ""
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// detectAmount returns the first parseable numeric amount among the candidate
// columns; broker layouts vary in which column holds the signed amount.
func detectAmount(columns ...string) (float64, bool) {
	for _, c := range columns {
		if v, ok := parseAmount(c); ok {
			return v, true
		}
	}
	return 0, false
}

// parseAmount parses a broker numeric field, accepting a decimal comma.
func parseAmount(s string) (float64, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractQuantity takes the token immediately following the first
// whitespace-delimited word of the description ("Buy 10 Acme Corp ...").
func extractQuantity(description string) int64 {
	fields := strings.Fields(description)
	if len(fields) < 2 {
		return 0
	}
	tok := strings.ReplaceAll(fields[1], ",", "")
	q, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || q < 0 {
		return 0
	}
	return q
}

// symbolOf derives a display symbol from the product name: its first word,
// upper-cased.
func symbolOf(product string) string {
	fields := strings.Fields(product)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// Import reads a broker export and appends the derived canonical events and
// raw records to the store. It is all-or-nothing: a read failure leaves the
// store unchanged. Raw records already present in the source's log are not
// re-imported, so importing the same file twice does not duplicate events.
func (n *Normalizer) Import(r io.Reader, store *Store) error {
	records, err := n.ReadRecords(r)
	if err != nil {
		return err
	}

	existing := store.RawRecords(n.Source)
	fresh := make([]RawRecord, 0, len(records))
	for _, rec := range records {
		if slices.Contains(existing, rec) {
			continue
		}
		fresh = append(fresh, rec)
	}

	events := n.Normalize(fresh)
	store.AppendRaw(n.Source, fresh...)
	store.Append(events...)
	n.log.Info().Int("records", len(fresh)).Int("events", len(events)).
		Int("skipped", n.skipped).Msg("import complete")
	return nil
}
