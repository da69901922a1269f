// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParseStatus indicates the state of a model parsing run.
type ParseStatus string

const (
	ParseRunning ParseStatus = "parsing"
	ParseDone    ParseStatus = "done"
)

// ModelRecord describes one parsed IFC file.
type ModelRecord struct {
	// ID is a UUID assigned when parsing starts.
	ID string `json:"id" yaml:"id"`

	// Name is the display name: the --model-name flag or the file stem.
	Name string `json:"name" yaml:"name"`

	// FileName is the base name of the source file.
	FileName string `json:"file_name" yaml:"file_name"`

	// FileSize is the source file size in bytes.
	FileSize int64 `json:"file_size" yaml:"file_size"`

	// SchemaVersion is the IFC schema declared in the file header (e.g. "IFC4").
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`

	// ParseStatus is "parsing" until the final element batch lands, then "done".
	ParseStatus ParseStatus `json:"parse_status" yaml:"parse_status"`

	// ElementCount is the number of physical elements found, set on completion.
	ElementCount int `json:"element_count" yaml:"element_count"`

	// ParsedAt is the completion timestamp. Nil while parsing.
	ParsedAt *time.Time `json:"parsed_at,omitempty" yaml:"parsed_at,omitempty"`
}

// Property is one key/value entry inside a property or quantity set.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// PropertySet is a named group of properties in definition order. Sets keep
// slice form rather than maps so the extraction scan order is deterministic:
// sets in relation order, entries in entity argument order.
type PropertySet struct {
	Name    string     `json:"name" yaml:"name"`
	Entries []Property `json:"entries" yaml:"entries"`
}

// SetsToMap flattens ordered property sets into set name → key → value,
// the shape stored in the raw JSON columns. Later duplicates win.
func SetsToMap(sets []PropertySet) map[string]map[string]any {
	out := make(map[string]map[string]any, len(sets))
	for _, set := range sets {
		m, ok := out[set.Name]
		if !ok {
			m = make(map[string]any, len(set.Entries))
			out[set.Name] = m
		}
		for _, p := range set.Entries {
			m[p.Key] = p.Value
		}
	}
	return out
}

// ElementRecord is one flattened, query-ready row per physical element.
// Records are assembled once and never mutated afterwards.
type ElementRecord struct {
	// ExpressID is the element's STEP instance id (#n).
	ExpressID int64 `json:"express_id" yaml:"express_id"`

	// GlobalID is the IFC globally unique identifier.
	GlobalID string `json:"global_id" yaml:"global_id"`

	// IfcType is the element's entity type tag.
	IfcType string `json:"ifc_type" yaml:"ifc_type"`

	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// The seven semantic fields, rounded to 6 decimal places.
	// Zero when no property or quantity claimed the category.
	Volume    float64 `json:"volume" yaml:"volume"`
	Area      float64 `json:"area" yaml:"area"`
	Height    float64 `json:"height" yaml:"height"`
	Length    float64 `json:"length" yaml:"length"`
	Width     float64 `json:"width" yaml:"width"`
	Perimeter float64 `json:"perimeter" yaml:"perimeter"`
	Weight    float64 `json:"weight" yaml:"weight"`

	// FloorName is the containing storey's display name, empty when the
	// element appears in no containment relation.
	FloorName string `json:"floor_name" yaml:"floor_name"`

	// Materials lists resolved material names in association order,
	// empty names filtered out.
	Materials []string `json:"materials" yaml:"materials"`

	// Classifications lists "code: name" strings in relation order.
	Classifications []string `json:"classifications" yaml:"classifications"`

	// ConcreteClass is the first string property matching the concrete
	// grade key-set, empty when none matched.
	ConcreteClass string `json:"concrete_class" yaml:"concrete_class"`

	// PropertySets and QuantitySets carry the full raw data in scan order.
	PropertySets []PropertySet `json:"property_sets" yaml:"property_sets"`
	QuantitySets []PropertySet `json:"quantity_sets" yaml:"quantity_sets"`

	// SearchText is the concatenated full-text blob, at most 10000 characters.
	SearchText string `json:"search_text" yaml:"search_text"`

	// ModelID is the owning ModelRecord's id.
	ModelID string `json:"model_id" yaml:"model_id"`
}

// SpatialNode is one spatial container in the project decomposition tree.
// Nodes form a forest rooted at project entities; a node's parent is always
// emitted before the node itself.
type SpatialNode struct {
	ExpressID int64  `json:"express_id" yaml:"express_id"`
	IfcType   string `json:"ifc_type" yaml:"ifc_type"`
	Name      string `json:"name" yaml:"name"`
	LongName  string `json:"long_name" yaml:"long_name"`

	// ParentExpressID is nil for project roots.
	ParentExpressID *int64 `json:"parent_express_id" yaml:"parent_express_id"`

	// Elevation is set only for storey nodes with a parsable elevation.
	Elevation *float64 `json:"elevation,omitempty" yaml:"elevation,omitempty"`

	// ElementCount counts elements in the node's direct containment
	// relations only, not the subtree.
	ElementCount int `json:"element_count" yaml:"element_count"`

	ModelID string `json:"model_id" yaml:"model_id"`
}
