// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import (
	"fmt"

	"github.com/pdiddy/ifc-engine/pkg/types"
)

// Property and quantity retrieval. Both walk the element's
// IFCRELDEFINESBYPROPERTIES relations in relation order and keep entry
// order from the defining entity's argument list, so callers see a fixed
// deterministic scan order.

// PropertySets returns the element's ordinary property sets. Quantity
// sets attached to the same element are excluded.
func (g *Graph) PropertySets(e *Entity) ([]types.PropertySet, error) {
	return g.collectSets(e, "IFCPROPERTYSET")
}

// QuantitySets returns the element's quantity sets.
func (g *Graph) QuantitySets(e *Entity) ([]types.PropertySet, error) {
	return g.collectSets(e, "IFCELEMENTQUANTITY")
}

func (g *Graph) collectSets(e *Entity, setType string) ([]types.PropertySet, error) {
	var sets []types.PropertySet

	for _, rel := range g.DefinedBy(e) {
		def := g.Deref(rel.Attr("RelatingPropertyDefinition"))
		if def == nil {
			return sets, fmt.Errorf("relation #%d: dangling property definition", rel.ID())
		}
		if def.Type() != setType {
			continue
		}

		set := types.PropertySet{Name: def.AttrString("Name")}

		var members []any
		if setType == "IFCPROPERTYSET" {
			members = def.AttrList("HasProperties")
		} else {
			members = def.AttrList("Quantities")
		}

		for _, m := range members {
			p := g.Deref(m)
			if p == nil {
				return sets, fmt.Errorf("set #%d: dangling member reference", def.ID())
			}
			key, value, ok := propertyEntry(p)
			if !ok {
				continue
			}
			set.Entries = append(set.Entries, types.Property{Key: key, Value: value})
		}

		sets = append(sets, set)
	}

	return sets, nil
}

// propertyEntry extracts the key/value pair from a property or physical
// quantity entity. Unsupported member types (bounded values, complex
// properties) are skipped.
func propertyEntry(p *Entity) (string, any, bool) {
	switch p.Type() {
	case "IFCPROPERTYSINGLEVALUE":
		// Name, Description, NominalValue, Unit.
		return Str(p.Arg(0)), exportValue(p.Arg(2)), true
	case "IFCQUANTITYLENGTH", "IFCQUANTITYAREA", "IFCQUANTITYVOLUME",
		"IFCQUANTITYWEIGHT", "IFCQUANTITYCOUNT", "IFCQUANTITYTIME":
		// Name, Description, Unit, <measure>Value.
		return Str(p.Arg(0)), exportValue(p.Arg(3)), true
	default:
		return "", nil, false
	}
}

// exportValue converts an attribute value to a storage-safe form: numbers,
// strings, and booleans pass through, enums flatten to their text, and
// entity references flatten to "#n".
func exportValue(v any) any {
	switch t := v.(type) {
	case nil, string, float64, int64, bool:
		return v
	case Enum:
		return string(t)
	case Ref:
		return fmt.Sprintf("#%d", int64(t))
	default:
		return fmt.Sprintf("%v", v)
	}
}
