// Package adapters はcatalogフィーチャーのマスターデータ読み込み実装を提供します。
package adapters

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/catalog/usecase"
)

//go:embed data/stock_master.json
var bundledMaster []byte

// jsonFileSource はJSONファイルからマスターデータを読み込むMasterSource実装です。
type jsonFileSource struct {
	path string
}

// JSONFileSourceがMasterSourceを実装していることをコンパイル時に検証します。
var _ usecase.MasterSource = (*jsonFileSource)(nil)

// NewJSONFileSource は指定パスのJSONを読むMasterSourceを生成します。
// pathが空の場合はバイナリに同梱されたマスターデータを使用します。
func NewJSONFileSource(path string) *jsonFileSource {
	return &jsonFileSource{path: path}
}

// LoadMaster はマスターデータを読み込み、デコードして返します。
func (s *jsonFileSource) LoadMaster(ctx context.Context) (*entity.MasterData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := bundledMaster
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read master file %q: %w", s.path, err)
		}
		raw = b
	}
	return DecodeMaster(raw)
}

// DecodeMaster はマスターデータJSONをデコードします。
// themesが省略された銘柄は空スライスとして扱います。
func DecodeMaster(raw []byte) (*entity.MasterData, error) {
	var data entity.MasterData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode master data: %w", err)
	}
	for i := range data.Stocks {
		if data.Stocks[i].Themes == nil {
			data.Stocks[i].Themes = []string{}
		}
	}
	return &data, nil
}
