// Command stocklinker はマスターデータの取り込みや検索などの運用作業を行うCLIです。
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"stocklinker/internal/platform/config"
	"stocklinker/internal/platform/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Setup(logger.LoadConfigFromEnv())
	} else {
		logger.Setup(cfg.Log)
	}
	os.Exit(int(commander.Execute(context.Background())))
}
