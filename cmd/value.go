package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	from          string
	to            string
	includeClosed bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "compute the portfolio value over a date range" }
func (*valueCmd) Usage() string {
	return `folium value [-from <date>] [-to <date>] [-closed]

  Computes the total portfolio value in the display currency.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the valuation window (inclusive)")
	f.StringVar(&c.to, "to", "", "End of the valuation window (inclusive), defaults to today")
	f.BoolVar(&c.includeClosed, "closed", false, "Include closed/sold positions")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	value, err := v.PortfolioValue(r, f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing portfolio value: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Portfolio value %s: %s\n", r, value)
	return subcommands.ExitSuccess
}
