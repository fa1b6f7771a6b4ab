package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// overviewCmd holds the flags for the 'overview' subcommand.
type overviewCmd struct {
	from          string
	to            string
	includeClosed bool
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display portfolio overview metrics" }
func (*overviewCmd) Usage() string {
	return `folium overview [-from <date>] [-to <date>] [-closed] [isin...]

  Displays deposits, withdrawals, invested capital, proceeds, dividends,
  taxes, fees, dividend yield and overall performance for the window.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the window (inclusive)")
	f.StringVar(&c.to, "to", "", "End of the window (inclusive), defaults to today")
	f.BoolVar(&c.includeClosed, "closed", false, "Include closed/sold positions in the portfolio value")
}

func (c *overviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	o, err := v.Overview(r, f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing overview: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Overview %s\n", o.Range)
	fmt.Printf("  Deposited:        %s\n", o.Deposited)
	fmt.Printf("  Withdrawn:        %s\n", o.Withdrawn)
	fmt.Printf("  Invested:         %s\n", o.Invested)
	fmt.Printf("  Proceeds:         %s\n", o.Proceeds)
	fmt.Printf("  Dividends:        %s\n", o.Dividends)
	fmt.Printf("  Dividend tax:     %s\n", o.DividendTax)
	fmt.Printf("  Fees:             %s\n", o.Fees)
	fmt.Printf("  Transaction fees: %s\n", o.TransactionFees)
	fmt.Printf("  Portfolio value:  %s\n", o.PortfolioValue)
	fmt.Printf("  Dividend yield:   %s\n", o.DividendYield)
	fmt.Printf("  Performance:      %s\n", o.Performance)
	if o.Balance != nil {
		fmt.Printf("  Account balance:  %s\n", *o.Balance)
	}
	return subcommands.ExitSuccess
}
