// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"math"

	"github.com/pdiddy/ifc-engine/internal/ifc"
	"github.com/pdiddy/ifc-engine/pkg/types"
)

// Dimensions accumulates the semantic numeric fields for one element.
// Each category is claimed at most once; the claimed set records which
// fields are settled so later matches are ignored.
type Dimensions struct {
	Values        [numCategories]float64
	ConcreteClass string

	claimed [numCategories]bool
}

// collectDimensions scans property sets then quantity sets, sets and
// entries in their given order. The first strictly positive numeric value
// whose key matches a still-unclaimed category claims it; each entry can
// claim at most one category, resolved in precedence order. String values
// independently claim the concrete class when their key matches.
func collectDimensions(psets, qsets []types.PropertySet) Dimensions {
	var d Dimensions

	for _, source := range [2][]types.PropertySet{psets, qsets} {
		for _, set := range source {
			for _, entry := range set.Entries {
				d.consider(entry.Key, entry.Value)
			}
		}
	}
	return d
}

func (d *Dimensions) consider(key string, value any) {
	if value == nil {
		return
	}

	if fv, ok := numericValue(value); ok && fv > 0 {
		for _, c := range Categories {
			if !d.claimed[c] && Matches(key, c) {
				d.Values[c] = fv
				d.claimed[c] = true
				break
			}
		}
	}

	if s, ok := value.(string); ok && d.ConcreteClass == "" && MatchesConcrete(key) {
		d.ConcreteClass = s
	}
}

// numericValue coerces raw property values for category matching.
// Strings, booleans, enums, and entity references never claim a numeric
// category even when the key matches.
func numericValue(v any) (float64, bool) {
	switch v.(type) {
	case bool, string, ifc.Enum, ifc.Ref:
		return 0, false
	}
	return ifc.Num(v)
}

// round6 rounds a semantic field to 6 decimal places for output.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
