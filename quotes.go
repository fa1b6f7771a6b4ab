package folium

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	cache "github.com/patrickmn/go-cache"
)

// Named quote parameters the valuation engine reads.
const (
	ParamPrice         = "Price"
	ParamPreviousClose = "Previous Close"
)

// Quotes is a read-only view over the externally supplied market data cache:
// a per-instrument bag of named textual parameters. A missing instrument or
// parameter is absent data, never an error; valuation degrades to a zero
// contribution for that instrument.
type Quotes struct {
	doc    any          // decoded provider document
	parsed *cache.Cache // parsed parameter values, keyed isin/name
}

// DecodeQuotes decodes the provider's JSON quote document from r.
func DecodeQuotes(r io.Reader) (*Quotes, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode quote cache: %w", err)
	}
	return &Quotes{
		doc:    doc,
		parsed: cache.New(15*time.Minute, 30*time.Minute),
	}, nil
}

// OpenQuotes loads the on-disk quote cache. A missing file yields an empty
// quote set: every lookup degrades to absent data.
func OpenQuotes(path string) (*Quotes, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Quotes{doc: map[string]any{}, parsed: cache.New(15*time.Minute, 30*time.Minute)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open quote cache %q: %w", path, err)
	}
	defer f.Close()
	return DecodeQuotes(f)
}

// Parameter returns the named parameter for an instrument.
func (q *Quotes) Parameter(isin, name string) (float64, bool) {
	key := isin + "/" + name
	if v, ok := q.parsed.Get(key); ok {
		return v.(float64), true
	}

	path := fmt.Sprintf("$[%q][%q]", isin, name)
	jval, err := jsonpath.Get(path, q.doc)
	if err != nil {
		return 0, false
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var val float64
	switch v := jval.(type) {
	case float64:
		val = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		val = parsed
	default:
		return 0, false
	}
	q.parsed.Set(key, val, cache.DefaultExpiration)
	return val, true
}

// CurrentPrice resolves the price used for valuation: the live cached price,
// falling back to the previous close.
func (q *Quotes) CurrentPrice(isin string) (float64, bool) {
	if v, ok := q.Parameter(isin, ParamPrice); ok {
		return v, true
	}
	return q.Parameter(isin, ParamPreviousClose)
}
