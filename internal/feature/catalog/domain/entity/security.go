// Package entity defines the domain models for the catalog feature.
package entity

// MasterSecurity represents one listed security in the bundled master list.
// Values are created when the catalog loads and are never mutated afterwards.
type MasterSecurity struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	NameReading string   `json:"nameKana"`
	Sector      string   `json:"sector"`
	Market      string   `json:"market"`
	Themes      []string `json:"themes"`
}

// MasterData is the document shape of the bundled master list.
type MasterData struct {
	Version string           `json:"version"`
	Source  string           `json:"source"`
	Count   int              `json:"count"`
	Stocks  []MasterSecurity `json:"stocks"`
}
