// Package kana はひらがなとカタカナの相互変換を提供します。
// 検索クエリと対象文字列を文字種に依存せず比較するために使用します。
package kana

import "strings"

const (
	hiraganaFirst = '\u3041' // ぁ
	hiraganaLast  = '\u3096' // ゖ
	katakanaFirst = '\u30A1' // ァ
	katakanaLast  = '\u30F6' // ヶ

	// offset は同じ音のひらがなとカタカナのコードポイント差です。
	offset = katakanaFirst - hiraganaFirst
)

// ToKatakana はひらがなをカタカナに変換します。範囲外の文字はそのまま残します。
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= hiraganaFirst && r <= hiraganaLast {
			return r + offset
		}
		return r
	}, s)
}

// ToHiragana はカタカナをひらがなに変換します。範囲外の文字はそのまま残します。
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - offset
		}
		return r
	}, s)
}
