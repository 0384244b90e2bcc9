// Package themes lists the gallery's colour themes.
//
// It has no dependencies so the browser bundle can import it without
// pulling in the preference store backends.
package themes

// Key is the preference and localStorage key holding the active theme id.
const Key = "theme"

// Default applies when no theme has been chosen.
const Default = "warmVintage"

// Theme is a selectable colour scheme.
type Theme struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// All lists the built-in themes in display order.
var All = []Theme{
	{ID: "warmVintage", Name: "Warm Vintage"},
	{ID: "classicLight", Name: "Classic Light"},
	{ID: "midnight", Name: "Midnight"},
	{ID: "forest", Name: "Forest"},
	{ID: "monochrome", Name: "Monochrome"},
}

// Lookup returns the built-in theme with the given id.
func Lookup(id string) (Theme, bool) {
	for _, t := range All {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
