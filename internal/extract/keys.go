// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract flattens an IFC entity graph into query-ready element
// rows and a spatial container tree. It encodes the heuristic mapping from
// arbitrarily named source properties onto a fixed set of semantic fields.
package extract

import "strings"

// Category is one of the seven curated numeric fields. The declaration
// order is the evaluation order: when a property name could match more
// than one category, the earliest one here wins.
type Category int

const (
	Volume Category = iota
	Area
	Height
	Length
	Width
	Perimeter
	Weight

	numCategories
)

// Categories lists all categories in precedence order.
var Categories = [numCategories]Category{Volume, Area, Height, Length, Width, Perimeter, Weight}

func (c Category) String() string {
	switch c {
	case Volume:
		return "volume"
	case Area:
		return "area"
	case Height:
		return "height"
	case Length:
		return "length"
	case Width:
		return "width"
	case Perimeter:
		return "perimeter"
	case Weight:
		return "weight"
	default:
		return "unknown"
	}
}

// categoryKeys holds the curated key-set per category. Matching is
// substring containment against the normalized property name.
var categoryKeys = [numCategories][]string{
	Volume: {"netvolume", "grossvolume", "volume"},
	Area: {"netarea", "grossarea", "netsidearea", "grosssidearea", "area",
		"crosssectionarea", "outersurfacearea", "totalsurfacearea", "netsurfacearea"},
	Height:    {"height", "overallheight", "nominalheight"},
	Length:    {"length", "overalllength", "nominallength", "span"},
	Width:     {"width", "overallwidth", "nominalwidth"},
	Perimeter: {"perimeter", "grossperimeter", "netperimeter"},
	Weight:    {"weight", "grossweight", "netweight"},
}

// concreteKeys matches string properties carrying a concrete strength class.
var concreteKeys = []string{"concretestrength", "concreteclass", "concretegrade",
	"classofconcrete", "strengthclass"}

// Normalize lower-cases a property name and strips spaces, underscores,
// and hyphens, so "Net Volume", "net_volume", and "NETVOLUME" collapse to
// the same token.
func Normalize(name string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return r.Replace(strings.ToLower(name))
}

// Matches reports whether any of the category's keys is a substring of
// the normalized name.
func Matches(name string, c Category) bool {
	return matchAny(Normalize(name), categoryKeys[c])
}

// MatchesConcrete reports whether the name matches the concrete-grade key-set.
func MatchesConcrete(name string) bool {
	return matchAny(Normalize(name), concreteKeys)
}

func matchAny(normalized string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(normalized, k) {
			return true
		}
	}
	return false
}
