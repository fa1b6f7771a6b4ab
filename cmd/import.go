package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/amori/folium"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file      string
	source    string
	delimiter string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a broker export into the event store" }
func (*importCmd) Usage() string {
	return `folium import -f <export.csv> -s <broker> [-delim <char>]

  Normalizes a delimited broker export into canonical events, reconciles
  fee/tax lines into their parent events, and saves the store.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Broker export file to import")
	f.StringVar(&c.source, "s", "default", "Broker source tag recorded on imported events")
	f.StringVar(&c.delimiter, "delim", ",", "Field delimiter: ',', ';' or a custom character")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f <export file> is required")
		return subcommands.ExitUsageError
	}
	if len(c.delimiter) != 1 {
		fmt.Fprintf(os.Stderr, "Error: delimiter must be a single character, got %q\n", c.delimiter)
		return subcommands.ExitUsageError
	}

	cfg, rates, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	store, err := folium.LoadStore(*storeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading store: %v\n", err)
		return subcommands.ExitFailure
	}

	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	normalizer := folium.NewNormalizer(c.source, Log())
	normalizer.Delimiter = rune(c.delimiter[0])
	if err := normalizer.Import(in, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	if err := folium.ReconcileStore(store, rates, cfg.FeeTolerance); err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling events: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := folium.SaveStore(*storeFile, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving store: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %s: %d events in store, %d lines skipped\n", c.file, store.Len(), normalizer.Skipped())
	return subcommands.ExitSuccess
}
