// Package dto defines data transfer objects for the catalog HTTP API.
package dto

import "stocklinker/internal/feature/catalog/domain/entity"

// SecurityItem represents a master security in the API response.
type SecurityItem struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	NameKana string   `json:"nameKana"`
	Sector   string   `json:"sector"`
	Market   string   `json:"market"`
	Themes   []string `json:"themes"`
}

// SearchResponse is the body of GET /master/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SecurityItem `json:"results"`
}

// StatsResponse is the body of GET /master/stats.
type StatsResponse struct {
	Loaded  bool   `json:"loaded"`
	Version string `json:"version"`
	Count   int    `json:"count"`
}

// FromEntity converts a master security to its API representation.
func FromEntity(s entity.MasterSecurity) SecurityItem {
	themes := s.Themes
	if themes == nil {
		themes = []string{}
	}
	return SecurityItem{
		Code:     s.Code,
		Name:     s.Name,
		NameKana: s.NameReading,
		Sector:   s.Sector,
		Market:   s.Market,
		Themes:   themes,
	}
}
