// Package cmd implements the CLI application to import broker exports and
// query portfolio aggregates.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/amori/folium"
	"github.com/amori/folium/date"
	"github.com/amori/folium/logger"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "import")

	c.Register(&valueCmd{}, "reports")
	c.Register(&overviewCmd{}, "reports")
	c.Register(&tableCmd{}, "reports")
	c.Register(&seriesCmd{}, "reports")
	c.Register(&quotesCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFile = flag.String("store-file", "events.bin", "Path to the binary event store")
var referenceFile = flag.String("reference-file", "reference.bin", "Path to the binary instrument reference store")
var quoteFile = flag.String("quote-file", "quotes.json", "Path to the on-disk market quote cache")
var logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")

// Log is the application logger, configured from flags and environment.
func Log() zerolog.Logger {
	return logger.New(logger.Config{Level: *logLevel, Pretty: true})
}

// LoadConfig builds the query configuration from the environment. A .env
// file in the working directory is honored.
func LoadConfig() (folium.Config, *folium.Rates, error) {
	_ = godotenv.Load()

	cfg := folium.Config{
		DisplayCurrency:   envOr("FOLIUM_DISPLAY_CURRENCY", "EUR"),
		ReportingCurrency: envOr("FOLIUM_REPORTING_CURRENCY", "EUR"),
		ExclusionMarker:   os.Getenv("FOLIUM_EXCLUSION_MARKER"),
	}
	if tol := os.Getenv("FOLIUM_FEE_TOLERANCE"); tol != "" {
		d, err := time.ParseDuration(tol)
		if err != nil {
			return folium.Config{}, nil, fmt.Errorf("invalid FOLIUM_FEE_TOLERANCE %q: %w", tol, err)
		}
		cfg.FeeTolerance = d
	}

	rates, currencies, err := loadRates()
	if err != nil {
		return folium.Config{}, nil, err
	}
	if len(currencies) > 0 {
		if err := rates.Validate(currencies...); err != nil {
			return folium.Config{}, nil, fmt.Errorf("incomplete rate table: %w", err)
		}
	}
	return cfg, rates, nil
}

// loadRates reads FOLIUM_RATES, a comma-separated list of directed pairs like
// "USD:EUR=0.92,EUR:USD=1.09".
func loadRates() (*folium.Rates, []string, error) {
	rates := folium.NewRates()
	spec := os.Getenv("FOLIUM_RATES")
	if spec == "" {
		return rates, nil, nil
	}
	seen := make(map[string]struct{})
	var currencies []string
	for _, entry := range strings.Split(spec, ",") {
		pair, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid rate entry %q, want FROM:TO=rate", entry)
		}
		from, to, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid rate pair %q, want FROM:TO", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid rate value %q: %w", value, err)
		}
		rates.Set(from, to, rate)
		for _, c := range []string{from, to} {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				currencies = append(currencies, c)
			}
		}
	}
	return rates, currencies, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadValuation assembles the valuation engine from the on-disk stores.
func LoadValuation(includeClosed bool) (*folium.Valuation, *folium.Store, error) {
	cfg, rates, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.IncludeClosed = includeClosed

	store, err := folium.LoadStore(*storeFile)
	if err != nil {
		return nil, nil, err
	}
	ref, err := folium.LoadReference(*referenceFile)
	if err != nil {
		return nil, nil, err
	}
	quotes, err := folium.OpenQuotes(*quoteFile)
	if err != nil {
		return nil, nil, err
	}
	return folium.NewValuation(store, ref, quotes, rates, cfg, Log()), store, nil
}

// parseRange parses the -from and -to flags into an inclusive range.
// Empty boundaries default to the epoch of the data and today.
func parseRange(from, to string) (date.Range, error) {
	r := date.Range{From: date.New(1970, 1, 1), To: date.Today()}
	var err error
	if from != "" {
		if r.From, err = date.Parse(from); err != nil {
			return date.Range{}, err
		}
	}
	if to != "" {
		if r.To, err = date.Parse(to); err != nil {
			return date.Range{}, err
		}
	}
	return r, nil
}
