// Package matcher は銘柄マスターと登録銘柄に対するあいまい検索を実装します。
// コード・名称・読み・業種・市場・テーマを、ひらがな/カタカナを区別せずに部分一致で比較します。
package matcher

import (
	"slices"
	"strings"

	catalogentity "stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/watchlist/domain/entity"
	"stocklinker/internal/shared/kana"
)

// Query は検索文字列と、比較に使う各正規化形を保持します。
// 対象ごとに変換し直さないよう、生成時に一度だけ計算します。
type Query struct {
	raw   string
	lower string
	hira  string
	kata  string
}

// NewQuery は検索文字列からQueryを生成します。
func NewQuery(s string) Query {
	return Query{
		raw:   s,
		lower: strings.ToLower(s),
		hira:  kana.ToHiragana(s),
		kata:  kana.ToKatakana(s),
	}
}

// IsEmpty は検索文字列が空かどうかを返します。
func (q Query) IsEmpty() bool {
	return q.raw == ""
}

// String は元の検索文字列を返します。
func (q Query) String() string {
	return q.raw
}

// MatchSecurity はマスター銘柄が検索条件に一致するかを判定します。
// コード（大文字小文字を無視）、名称、読み、業種、市場、テーマのいずれかに部分一致すれば一致とみなします。
func MatchSecurity(q Query, s catalogentity.MasterSecurity) bool {
	return strings.Contains(strings.ToLower(s.Code), q.lower) ||
		strings.Contains(strings.ToLower(s.Name), q.lower) ||
		strings.Contains(s.NameReading, q.kata) ||
		strings.Contains(kana.ToHiragana(s.NameReading), q.hira) ||
		strings.Contains(kana.ToHiragana(s.Name), q.hira) ||
		strings.Contains(kana.ToKatakana(s.Name), q.kata) ||
		strings.Contains(strings.ToLower(s.Sector), q.lower) ||
		strings.Contains(strings.ToLower(s.Market), q.lower) ||
		anyThemeContains(s.Themes, q.lower)
}

// MatchSaved は登録銘柄が検索条件に一致するかを判定します。
// 登録銘柄は読みを持たないため、名称の文字種変換で読み検索を代替します。
// コードの比較は大文字小文字を区別します。
func MatchSaved(q Query, s *entity.SavedStock) bool {
	return strings.Contains(s.Code, q.raw) ||
		strings.Contains(strings.ToLower(s.Name), q.lower) ||
		strings.Contains(s.Name, q.hira) ||
		strings.Contains(s.Name, q.kata) ||
		strings.Contains(kana.ToKatakana(s.Name), q.kata) ||
		strings.Contains(kana.ToHiragana(s.Name), q.hira) ||
		strings.Contains(strings.ToLower(s.Sector), q.lower) ||
		anyThemeContains(s.Themes, q.lower)
}

func anyThemeContains(themes []string, lower string) bool {
	return slices.ContainsFunc(themes, func(t string) bool {
		return strings.Contains(strings.ToLower(t), lower)
	})
}

// SearchSecurities はマスター一覧から一致する銘柄を元の順序のまま最大limit件返します。
// limitが0以下の場合は件数を制限しません。
func SearchSecurities(list []catalogentity.MasterSecurity, q Query, limit int) []catalogentity.MasterSecurity {
	out := make([]catalogentity.MasterSecurity, 0)
	for _, s := range list {
		if limit > 0 && len(out) >= limit {
			break
		}
		if MatchSecurity(q, s) {
			out = append(out, s)
		}
	}
	return out
}

// FilterSaved は登録銘柄をグループと検索文字列で絞り込み、表示順に並べ替えたコピーを返します。
//
// groupIDがnilの場合は全件、それ以外は指定グループの銘柄のみを対象とします。
// 並び順はお気に入りが先、次に最終閲覧日時の新しい順です。同順位の銘柄は元の順序を保ちます。
func FilterSaved(stocks []entity.SavedStock, groupID *string, q Query) []entity.SavedStock {
	out := make([]entity.SavedStock, 0, len(stocks))
	for i := range stocks {
		s := &stocks[i]
		if groupID != nil && !s.InGroup(*groupID) {
			continue
		}
		if !q.IsEmpty() && !MatchSaved(q, s) {
			continue
		}
		out = append(out, s.Clone())
	}
	SortForDisplay(out)
	return out
}

// SortForDisplay はお気に入り優先・最終閲覧日時の降順で安定ソートします。
func SortForDisplay(stocks []entity.SavedStock) {
	slices.SortStableFunc(stocks, func(a, b entity.SavedStock) int {
		if a.IsFavorite != b.IsFavorite {
			if a.IsFavorite {
				return -1
			}
			return 1
		}
		return b.LastSearchedAt.Compare(a.LastSearchedAt)
	})
}
