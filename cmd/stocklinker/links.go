package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	quickadapters "stocklinker/internal/feature/quicklink/adapters"
	quickusecase "stocklinker/internal/feature/quicklink/usecase"
)

type linksCmd struct {
	table  string
	master string
	market bool
}

func (*linksCmd) Name() string     { return "links" }
func (*linksCmd) Synopsis() string { return "print the quick links for a stock code" }
func (*linksCmd) Usage() string {
	return `links [-table <file>] [-master <file>] <code>
links -market

  Prints the site links for a stock code, or the market-wide links with -market.
  - table: site table YAML. The bundled table is used when omitted.
`
}

func (c *linksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.table, "table", "", "site table YAML file (default: bundled)")
	f.StringVar(&c.master, "master", "", "master JSON file used to resolve names (default: bundled)")
	f.BoolVar(&c.market, "market", false, "print market-wide links instead")
}

func (c *linksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.market && f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one stock code is required.")
		return subcommands.ExitUsageError
	}

	table, err := quickadapters.LoadTable(c.table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading site table: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.market {
		links := quickusecase.NewLinksUsecase(table, nil, nil, nil)
		for _, l := range links.MarketLinks() {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", l.Key, l.Name, l.URL)
		}
		return subcommands.ExitSuccess
	}

	catalog, err := loadCatalog(ctx, c.master)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	links, err := quickusecase.NewLinksUsecase(table, nil, nil, catalog).LinksFor(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	for _, l := range links {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", l.Key, l.Name, l.URL)
	}
	return subcommands.ExitSuccess
}
