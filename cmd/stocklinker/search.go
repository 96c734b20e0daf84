package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	catalogusecase "stocklinker/internal/feature/catalog/usecase"
)

type searchCmd struct {
	master string
	limit  int
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search the master list by code, name or reading" }
func (*searchCmd) Usage() string {
	return `search [-master <file>] [-limit <n>] <query>

  Searches the master list the same way the app does:
  - code, name or reading substring (hiragana and katakana are equivalent), sector or theme.
  - master: JSON master file. The bundled list is used when omitted.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.master, "master", "", "master JSON file (default: bundled)")
	f.IntVar(&c.limit, "limit", catalogusecase.DefaultSearchLimit, "maximum number of results")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(os.Stderr, "Error: a query is required.")
		return subcommands.ExitUsageError
	}

	catalog, err := loadCatalog(ctx, c.master)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, s := range catalog.Search(query, c.limit) {
		fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", s.Code, s.Name, s.Market, s.Sector)
	}
	return subcommands.ExitSuccess
}
