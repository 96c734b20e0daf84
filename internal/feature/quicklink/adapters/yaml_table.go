// Package adapters はクイックリンクのサイト表をYAMLから読み込みます。
package adapters

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stocklinker/internal/feature/quicklink/domain/entity"
)

//go:embed data/sites.yaml
var bundledSites []byte

// LoadTable はサイト表を読み込みます。pathが空の場合は同梱の表を使用します。
func LoadTable(path string) (*entity.Table, error) {
	raw := bundledSites
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read links file %q: %w", path, err)
		}
		raw = b
	}
	return DecodeTable(raw)
}

// DecodeTable はYAMLをデコードし、キーの重複とテンプレートを検証します。
func DecodeTable(raw []byte) (*entity.Table, error) {
	var t entity.Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode links table: %w", err)
	}

	seen := map[string]struct{}{}
	for _, s := range t.Sites {
		if err := checkKey(seen, s.Key); err != nil {
			return nil, err
		}
		if s.Name == "" {
			return nil, fmt.Errorf("site %q: name is required", s.Key)
		}
		if !strings.Contains(s.URLTemplate, entity.CodePlaceholder) && !strings.Contains(s.URLTemplate, entity.QueryPlaceholder) {
			return nil, fmt.Errorf("site %q: url must contain %s or %s", s.Key, entity.CodePlaceholder, entity.QueryPlaceholder)
		}
	}
	for _, m := range t.Market {
		if err := checkKey(seen, m.Key); err != nil {
			return nil, err
		}
		if m.URL == "" {
			return nil, fmt.Errorf("market link %q: url is required", m.Key)
		}
	}
	return &t, nil
}

func checkKey(seen map[string]struct{}, key string) error {
	if key == "" {
		return fmt.Errorf("links table: empty key")
	}
	if _, ok := seen[key]; ok {
		return fmt.Errorf("links table: duplicate key %q", key)
	}
	seen[key] = struct{}{}
	return nil
}
