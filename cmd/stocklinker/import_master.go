package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	catalogadapters "stocklinker/internal/feature/catalog/adapters"
	"stocklinker/internal/platform/config"
	"stocklinker/internal/platform/db"
)

// importTimeout はマスター取り込み全体のタイムアウトです。
const importTimeout = 5 * time.Minute

type importMasterCmd struct {
	file string
}

func (*importMasterCmd) Name() string { return "import-master" }
func (*importMasterCmd) Synopsis() string {
	return "replace the master table in the database with a JSON master file"
}
func (*importMasterCmd) Usage() string {
	return `import-master [-file <file>]

  Loads a JSON master file and replaces the master_securities table with it.
  The database is selected by STORE_BACKEND (sqlite or postgres) and the DB_* variables.
  The bundled master list is imported when -file is omitted.
`
}

func (c *importMasterCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "master JSON file (default: bundled)")
}

func (c *importMasterCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.StoreBackend != config.BackendSQLite && cfg.StoreBackend != config.BackendPostgres {
		fmt.Fprintf(os.Stderr, "Error: STORE_BACKEND must be sqlite or postgres, got %q\n", cfg.StoreBackend)
		return subcommands.ExitUsageError
	}

	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	data, err := catalogadapters.NewJSONFileSource(c.file).LoadMaster(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", displayPath(c.file), err)
		return subcommands.ExitFailure
	}

	dbCfg := cfg.DB
	dbCfg.Driver = cfg.StoreBackend
	gdb, err := db.OpenDB(dbCfg, &catalogadapters.SecurityModel{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	n, err := catalogadapters.NewSecurityRepository(gdb).ReplaceAll(ctx, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing master: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "imported %d securities (version %s)\n", n, data.Version)
	return subcommands.ExitSuccess
}
