// Package entity defines the domain models for the watchlist feature.
package entity

import (
	"slices"
	"time"
)

// SavedStock is one bookmarked stock in the user's registry.
// Code is unique across the registry. It is not checked against the master catalog,
// so a manually entered code may be absent from it.
type SavedStock struct {
	Code           string
	Name           string
	Memo           string
	IsFavorite     bool
	LastSearchedAt time.Time
	Sector         string
	Themes         []string

	// GroupID is nil when the stock is unassigned.
	GroupID *string

	// LastViewedPrice is the display string delivered by the price fetcher, e.g. "¥1,234".
	LastViewedPrice *string
}

// InGroup reports whether the stock is assigned to the given group.
func (s *SavedStock) InGroup(groupID string) bool {
	return s.GroupID != nil && *s.GroupID == groupID
}

// Clone returns a deep copy so callers cannot mutate registry state through shared pointers.
func (s SavedStock) Clone() SavedStock {
	out := s
	out.Themes = slices.Clone(s.Themes)
	if s.GroupID != nil {
		g := *s.GroupID
		out.GroupID = &g
	}
	if s.LastViewedPrice != nil {
		p := *s.LastViewedPrice
		out.LastViewedPrice = &p
	}
	return out
}
