package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/amori/folium"
)

// quotesCmd holds the flags for the 'quotes' subcommand.
type quotesCmd struct{}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "display cached market quotes for held instruments" }
func (*quotesCmd) Usage() string {
	return `folium quotes [isin...]

  Displays the cached price and previous close for every instrument in the
  store, or for the given instruments only. Absent quotes show as "-".
`
}

func (*quotesCmd) SetFlags(*flag.FlagSet) {}

func (c *quotesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := folium.LoadStore(*storeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading store: %v\n", err)
		return subcommands.ExitFailure
	}
	quotes, err := folium.OpenQuotes(*quoteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quote cache: %v\n", err)
		return subcommands.ExitFailure
	}

	isins := f.Args()
	if len(isins) == 0 {
		isins = store.Instruments()
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ISIN\tSYMBOL\tPRICE\tPREV CLOSE")
	for _, isin := range isins {
		p := store.Position(isin)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			isin, p.Symbol(),
			formatQuote(quotes.Parameter(isin, folium.ParamPrice)),
			formatQuote(quotes.Parameter(isin, folium.ParamPreviousClose)))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

func formatQuote(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
