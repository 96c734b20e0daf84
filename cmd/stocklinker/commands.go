package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	catalogadapters "stocklinker/internal/feature/catalog/adapters"
	catalogusecase "stocklinker/internal/feature/catalog/usecase"
)

// commands はCLIに登録するサブコマンドの一覧です。
var commands = []subcommands.Command{
	&searchCmd{},
	&linksCmd{},
	&priceCmd{},
	&importMasterCmd{},
	&tokenCmd{},
}

// stdout はコマンドの出力先です。テストで差し替えます。
var stdout io.Writer = os.Stdout

// loadCatalog はJSONのマスターデータを読み込んだカタログを返します。pathが空の場合は同梱データを使用します。
func loadCatalog(ctx context.Context, path string) (*catalogusecase.Catalog, error) {
	catalog := catalogusecase.NewCatalog(catalogadapters.NewJSONFileSource(path))
	catalog.Load(ctx)
	if !catalog.Loaded() {
		return nil, fmt.Errorf("master data could not be loaded from %q", displayPath(path))
	}
	return catalog, nil
}

func displayPath(path string) string {
	if path == "" {
		return "bundled master"
	}
	return path
}
