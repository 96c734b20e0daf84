package entity

// Kind はニュースフィードの種類です。
type Kind string

const (
	// KindEconomic は経済・株式ニュースです。
	KindEconomic Kind = "economic"
	// KindDisclosure は適時開示速報です。
	KindDisclosure Kind = "disclosure"
)

// Kinds は対応しているフィードの一覧です。
var Kinds = []Kind{KindEconomic, KindDisclosure}

// NewsItem represents a single headline shown in the news list.
type NewsItem struct {
	Title   string
	Link    string
	PubDate string
	Source  string
	Kind    Kind
}
