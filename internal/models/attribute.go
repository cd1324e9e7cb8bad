// internal/models/attribute.go
package models

// Attribute is a global catalog entry (e.g. Color, Size). Values is
// append-only from the app's point of view; growing it is an ordinary
// mutation and syncs like any other field.
type Attribute struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}
