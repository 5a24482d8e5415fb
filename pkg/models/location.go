package models

import "strings"

type Location struct {
	ID   int    `json:"id" db:"id" goqu:"skipinsert"`
	Name string `json:"location_name" db:"location_name"`
}

// NormalizeLocationName is the form location names are compared and stored in on warehouse rows.
func NormalizeLocationName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
