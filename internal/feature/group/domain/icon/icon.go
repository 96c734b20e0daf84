// Package icon はグループアイコンのキー体系と、旧バージョンの絵文字アイコンからの移行を提供します。
package icon

import "stocklinker/internal/feature/group/domain/entity"

// Fallback は解決できないアイコンの代わりに使われるキーです。
const Fallback = "watching"

// keys は既知のアイコンキーです。
var keys = map[string]struct{}{
	// グループ用
	"watching": {}, "holding": {}, "considering": {}, "sold": {}, "all": {},
	// ユーザー選択用
	"star": {}, "fire": {}, "diamond": {}, "flag": {},
	"chart": {}, "rocket": {}, "favorite": {}, "bolt": {},
	// UI用
	"refresh": {}, "search": {}, "arrow_back": {}, "filter_list": {},
	"add": {}, "delete": {}, "edit": {}, "folder": {}, "note": {},
}

// legacyEmoji は旧バージョンで保存された絵文字とキーの対応です。
var legacyEmoji = map[string]string{
	"👀":  "watching",
	"💰":  "holding",
	"🤔":  "considering",
	"✅":  "sold",
	"⭐":  "star",
	"🔥":  "fire",
	"💎":  "diamond",
	"🚩":  "flag",
	"📈":  "chart",
	"🚀":  "rocket",
	"❤️": "favorite",
	"💖":  "favorite",
	"⚡":  "bolt",
	"📊":  "all",
	"📁":  "folder",
	"📝":  "note",
}

var selectable = []string{
	"watching", "holding", "considering", "sold",
	"star", "fire", "diamond", "flag",
	"chart", "rocket", "favorite", "bolt",
}

var displayNames = map[string]string{
	"watching":    "監視中",
	"holding":     "保有中",
	"considering": "検討中",
	"sold":        "売却済",
	"star":        "スター",
	"fire":        "注目",
	"diamond":     "ダイヤ",
	"flag":        "フラグ",
	"chart":       "チャート",
	"rocket":      "急騰",
	"favorite":    "お気に入り",
	"bolt":        "速報",
	"all":         "すべて",
}

// IsKey reports whether s is a known icon key.
func IsKey(s string) bool {
	_, ok := keys[s]
	return ok
}

// Resolve はキーをそのまま、旧絵文字を対応するキーに変換します。
// どちらでもない値はFallbackになります。
func Resolve(s string) string {
	if IsKey(s) {
		return s
	}
	if k, ok := legacyEmoji[s]; ok {
		return k
	}
	return Fallback
}

// Selectable はグループ編集で選択可能なアイコンキーを表示順で返します。
func Selectable() []string {
	out := make([]string, len(selectable))
	copy(out, selectable)
	return out
}

// DisplayName はアイコンの日本語表示名を返します。未定義のキーはそのまま返します。
func DisplayName(key string) string {
	if n, ok := displayNames[key]; ok {
		return n
	}
	return key
}

// MigrateIcons はグループのアイコンを正規のキーに置き換えた新しいスライスを返します。
// 1件でも書き換えた場合 changed は true です。入力は変更しません。
func MigrateIcons(groups []entity.Group) (out []entity.Group, changed bool) {
	out = make([]entity.Group, len(groups))
	for i, g := range groups {
		resolved := Resolve(g.Icon)
		if resolved != g.Icon {
			g.Icon = resolved
			changed = true
		}
		out[i] = g
	}
	return out, changed
}
