package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

// tableCmd holds the flags for the 'table' subcommand.
type tableCmd struct {
	from          string
	to            string
	includeClosed bool
}

func (*tableCmd) Name() string     { return "table" }
func (*tableCmd) Synopsis() string { return "display the per-instrument overview table" }
func (*tableCmd) Usage() string {
	return `folium table [-from <date>] [-to <date>] [-closed] [isin...]

  Displays one row per instrument: count, cost basis, fees, dividends,
  online value and weight in the portfolio.
`
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the window (inclusive)")
	f.StringVar(&c.to, "to", "", "End of the window (inclusive), defaults to today")
	f.BoolVar(&c.includeClosed, "closed", false, "Include closed/sold positions")
}

func (c *tableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	rows, err := v.OverviewTable(r, f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing table: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tSECTOR\tCOUNT\tCOST\tFEES\tDIVIDENDS\tVALUE\tWEIGHT")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			row.Symbol, row.Sector, row.Count, row.Cost, row.Fees, row.Dividends, row.Value, row.Weight)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
