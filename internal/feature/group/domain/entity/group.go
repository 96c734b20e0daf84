// Package entity defines the domain models for the group feature.
package entity

const (
	// DefaultColor は色未指定で作成されたグループの色です。
	DefaultColor = "#4FC3F7"
	// DefaultIcon は作成時にアイコンが指定されなかった場合のアイコンキーです。
	DefaultIcon = "folder"
)

// Group is a user-defined category that saved stocks can be assigned to.
type Group struct {
	ID    string
	Name  string
	Color string
	// Icon is a semantic icon key such as "watching" or "rocket".
	Icon  string
	Order int
}
