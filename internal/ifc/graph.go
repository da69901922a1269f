// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ifc reads IFC STEP physical files into a loosely-typed in-memory
// entity graph with attribute access, relationship traversal, and
// property/quantity set retrieval. The graph is read-only once indexed;
// consumers never mutate it.
package ifc

import (
	"sort"
	"strings"
)

// Ref references another entity by instance id (#n in STEP source).
type Ref int64

// Enum is an IFC enumeration literal (.NOTDEFINED. in STEP source).
type Enum string

// Entity is one instance record. Argument values are loosely typed:
// string, float64, int64, bool, Enum, Ref, []any, or nil for omitted
// ($ and *) attributes.
type Entity struct {
	id   int64
	typ  string
	args []any
}

// ID returns the STEP instance id.
func (e *Entity) ID() int64 { return e.id }

// Type returns the upper-cased entity type tag (e.g. "IFCWALL").
func (e *Entity) Type() string { return e.typ }

// NumArgs returns the number of explicit attributes.
func (e *Entity) NumArgs() int { return len(e.args) }

// Arg returns the positional argument, or nil when out of range.
func (e *Entity) Arg(i int) any {
	if i < 0 || i >= len(e.args) {
		return nil
	}
	return e.args[i]
}

// attrIndex maps entity type → attribute name → argument position for the
// attributes the extraction engine reads by name. Attribute positions are
// fixed by the IFC schema; only the slice used here is tabulated. Rooted
// product types not listed fall back to rootedAttrs.
var attrIndex = map[string]map[string]int{
	"IFCPROJECT":                        {"LongName": 5},
	"IFCSITE":                           {"LongName": 7},
	"IFCBUILDING":                       {"LongName": 7},
	"IFCBUILDINGSTOREY":                 {"LongName": 7, "Elevation": 9},
	"IFCSPACE":                          {"LongName": 7},
	"IFCRELCONTAINEDINSPATIALSTRUCTURE": {"RelatedElements": 4, "RelatingStructure": 5},
	"IFCRELAGGREGATES":                  {"RelatingObject": 4, "RelatedObjects": 5},
	"IFCRELNESTS":                       {"RelatingObject": 4, "RelatedObjects": 5},
	"IFCRELASSOCIATESMATERIAL":          {"RelatedObjects": 4, "RelatingMaterial": 5},
	"IFCRELASSOCIATESCLASSIFICATION":    {"RelatedObjects": 4, "RelatingClassification": 5},
	"IFCRELDEFINESBYPROPERTIES":         {"RelatedObjects": 4, "RelatingPropertyDefinition": 5},
	"IFCPROPERTYSET":                    {"Name": 2, "HasProperties": 4},
	"IFCELEMENTQUANTITY":                {"Name": 2, "Quantities": 5},
	"IFCPROPERTYSINGLEVALUE":            {"Name": 0, "NominalValue": 2},
	"IFCMATERIAL":                       {"Name": 0},
	"IFCMATERIALLAYERSETUSAGE":          {"ForLayerSet": 0},
	"IFCMATERIALLAYERSET":               {"MaterialLayers": 0, "LayerSetName": 1},
	"IFCMATERIALLAYER":                  {"Material": 0},
	"IFCMATERIALLIST":                   {"Materials": 0},
	"IFCMATERIALCONSTITUENTSET":         {"Name": 0, "MaterialConstituents": 2},
	"IFCMATERIALCONSTITUENT":            {"Name": 0, "Material": 2},
	"IFCCLASSIFICATIONREFERENCE":        {"Location": 0, "Identification": 1, "ItemReference": 1, "Name": 2},
	"IFCCLASSIFICATION":                 {"Name": 3},
}

// rootedAttrs positions the attributes shared by all rooted product types
// (IfcRoot through IfcProduct).
var rootedAttrs = map[string]int{
	"GlobalId":        0,
	"Name":            2,
	"Description":     3,
	"ObjectType":      4,
	"ObjectPlacement": 5,
	"Representation":  6,
}

// Attr returns the named attribute's value, or nil when the entity's type
// does not define it. Per-type positions take precedence over the rooted
// defaults, so IFCMATERIAL's Name resolves to argument 0, not 2.
func (e *Entity) Attr(name string) any {
	if idx, ok := attrIndex[e.typ]; ok {
		if i, ok := idx[name]; ok {
			return e.Arg(i)
		}
	}
	if i, ok := rootedAttrs[name]; ok {
		return e.Arg(i)
	}
	return nil
}

// AttrString returns the named attribute coerced to a string, defaulting
// to "" for absent or non-string values.
func (e *Entity) AttrString(name string) string {
	return Str(e.Attr(name))
}

// AttrList returns the named attribute as a list, or nil.
func (e *Entity) AttrList(name string) []any {
	l, _ := e.Attr(name).([]any)
	return l
}

// Str returns v when it is a string, the literal text of an Enum, and ""
// for everything else.
func Str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case Enum:
		return string(s)
	default:
		return ""
	}
}

// Num coerces a numeric attribute value to float64. Strings, booleans,
// enums, references, and lists are not numeric.
func Num(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Graph is the indexed entity graph of one model.
type Graph struct {
	// Schema is the IFC schema version from the file header (e.g. "IFC4").
	Schema string

	entities []*Entity
	byID     map[int64]*Entity
	byType   map[string][]*Entity

	// Inverse relationship indexes, built on first access.
	decomposedBy map[int64][]*Entity
	containsEls  map[int64][]*Entity
	assocs       map[int64][]*Entity
	definedBy    map[int64][]*Entity

	indexed bool
}

// NewGraph returns an empty graph. Tests build graphs directly with Add;
// Open builds them from STEP files.
func NewGraph(schema string) *Graph {
	return &Graph{
		Schema: schema,
		byID:   make(map[int64]*Entity),
	}
}

// Add appends an entity. Instance ids are assumed unique, as STEP
// guarantees; type tags are normalized to upper case.
func (g *Graph) Add(id int64, typ string, args ...any) *Entity {
	e := &Entity{id: id, typ: strings.ToUpper(typ), args: args}
	g.entities = append(g.entities, e)
	g.byID[id] = e
	g.indexed = false
	return e
}

func (g *Graph) ensureIndex() {
	if g.indexed {
		return
	}

	sort.Slice(g.entities, func(i, j int) bool { return g.entities[i].id < g.entities[j].id })

	g.byType = make(map[string][]*Entity)
	g.decomposedBy = make(map[int64][]*Entity)
	g.containsEls = make(map[int64][]*Entity)
	g.assocs = make(map[int64][]*Entity)
	g.definedBy = make(map[int64][]*Entity)

	for _, e := range g.entities {
		g.byType[e.typ] = append(g.byType[e.typ], e)

		switch {
		case e.typ == "IFCRELAGGREGATES" || e.typ == "IFCRELNESTS":
			if r, ok := e.Attr("RelatingObject").(Ref); ok {
				g.decomposedBy[int64(r)] = append(g.decomposedBy[int64(r)], e)
			}
		case e.typ == "IFCRELCONTAINEDINSPATIALSTRUCTURE":
			if r, ok := e.Attr("RelatingStructure").(Ref); ok {
				g.containsEls[int64(r)] = append(g.containsEls[int64(r)], e)
			}
		case e.typ == "IFCRELDEFINESBYPROPERTIES":
			for _, v := range e.AttrList("RelatedObjects") {
				if r, ok := v.(Ref); ok {
					g.definedBy[int64(r)] = append(g.definedBy[int64(r)], e)
				}
			}
		case strings.HasPrefix(e.typ, "IFCRELASSOCIATES"):
			for _, v := range e.AttrList("RelatedObjects") {
				if r, ok := v.(Ref); ok {
					g.assocs[int64(r)] = append(g.assocs[int64(r)], e)
				}
			}
		}
	}

	g.indexed = true
}

// Get returns the entity with the given instance id, or nil.
func (g *Graph) Get(id int64) *Entity {
	return g.byID[id]
}

// Deref resolves a Ref attribute value to its entity. Non-reference values
// and dangling references resolve to nil.
func (g *Graph) Deref(v any) *Entity {
	r, ok := v.(Ref)
	if !ok {
		return nil
	}
	return g.byID[int64(r)]
}

// Entities returns all entities in instance-id order.
func (g *Graph) Entities() []*Entity {
	g.ensureIndex()
	return g.entities
}

// ByType returns all entities with the given type tag, in id order.
// Matching is exact on the tag, case-insensitive.
func (g *Graph) ByType(typ string) []*Entity {
	g.ensureIndex()
	return g.byType[strings.ToUpper(typ)]
}

// DecomposedBy returns the decomposition relations in which e is the
// relating (parent) object.
func (g *Graph) DecomposedBy(e *Entity) []*Entity {
	g.ensureIndex()
	return g.decomposedBy[e.id]
}

// ContainsElements returns the containment relations in which e is the
// relating spatial structure.
func (g *Graph) ContainsElements(e *Entity) []*Entity {
	g.ensureIndex()
	return g.containsEls[e.id]
}

// Associations returns the association relations naming e as a related object.
func (g *Graph) Associations(e *Entity) []*Entity {
	g.ensureIndex()
	return g.assocs[e.id]
}

// DefinedBy returns the property-definition relations naming e.
func (g *Graph) DefinedBy(e *Entity) []*Entity {
	g.ensureIndex()
	return g.definedBy[e.id]
}

// MaterialOf resolves e's material association to the relating material
// entity, or nil when e has none.
func (g *Graph) MaterialOf(e *Entity) *Entity {
	for _, rel := range g.Associations(e) {
		if rel.Type() == "IFCRELASSOCIATESMATERIAL" {
			return g.Deref(rel.Attr("RelatingMaterial"))
		}
	}
	return nil
}
