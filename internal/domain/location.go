package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Location is a canton of the Brunca region that destinations belong to.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Locations are the cantons the catalog groups destinations by.
var Locations = []Location{
	{ID: 10, Name: "Buenos Aires"},
	{ID: 20, Name: "Coto Brus"},
	{ID: 26, Name: "Golfito"},
	{ID: 30, Name: "Puerto Jiménez"},
	{ID: 32, Name: "Pérez Zeledón"},
	{ID: 33, Name: "Corredores"},
	{ID: 34, Name: "Osa"},
}

// LocationByID returns the location with the given id.
func LocationByID(id int) (Location, bool) {
	for _, l := range Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// LocationByName resolves a location name, ignoring case and accents
// ("perez zeledon" matches "Pérez Zeledón").
func LocationByName(name string) (Location, bool) {
	key := foldName(name)
	if key == "" {
		return Location{}, false
	}
	for _, l := range Locations {
		if foldName(l.Name) == key {
			return l, true
		}
	}
	return Location{}, false
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}
