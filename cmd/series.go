package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/amori/folium"
)

// seriesCmd holds the flags for the 'series' subcommand.
type seriesCmd struct {
	from          string
	to            string
	kind          string
	includeClosed bool
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "display a time-bucketed report series" }
func (*seriesCmd) Usage() string {
	return `folium series -k <kind> [-from <date>] [-to <date>] [isin...]

  Kinds: deposits, invested, dividends-month, dividends-year,
  sector-weights, instrument-weights.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "deposits", "Series kind")
	f.StringVar(&c.from, "from", "", "Start of the window (inclusive)")
	f.StringVar(&c.to, "to", "", "End of the window (inclusive), defaults to today")
	f.BoolVar(&c.includeClosed, "closed", false, "Include closed/sold positions in weight series")
}

func (c *seriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing range: %v\n", err)
		return subcommands.ExitUsageError
	}

	v, _, err := LoadValuation(c.includeClosed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	only := f.Args()
	switch c.kind {
	case "deposits":
		return printPoints(v.DepositSeries(r, only...))
	case "invested":
		return printPoints(v.InvestedSeries(r, only...))
	case "dividends-month":
		return printPoints(v.DividendsByMonth(r, only...))
	case "dividends-year":
		return printPoints(v.DividendsByYear(r, only...))
	case "sector-weights":
		return printWeights(v.SectorWeights(r, only...))
	case "instrument-weights":
		return printWeights(v.InstrumentWeights(r, only...))
	default:
		fmt.Fprintf(os.Stderr, "Unknown series kind %q\n", c.kind)
		return subcommands.ExitUsageError
	}
}

func printPoints(points []folium.Point, err error) subcommands.ExitStatus {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, p := range points {
		fmt.Printf("%s\t%s\n", p.Key, p.Value)
	}
	return subcommands.ExitSuccess
}

func printWeights(points []folium.WeightPoint, err error) subcommands.ExitStatus {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, p := range points {
		fmt.Printf("%s\t%s\n", p.Key, p.Weight)
	}
	return subcommands.ExitSuccess
}
