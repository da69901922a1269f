// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"

	"github.com/pdiddy/ifc-engine/internal/ifc"
	"github.com/pdiddy/ifc-engine/pkg/types"
)

// spatialTypes is the closed set of recognized spatial container tags.
var spatialTypes = map[string]bool{
	"IFCPROJECT":        true,
	"IFCSITE":           true,
	"IFCBUILDING":       true,
	"IFCBUILDINGSTOREY": true,
	"IFCSPACE":          true,
}

// isSpatialContainer reports whether the entity is part of the spatial
// hierarchy. The predicate is applied before recursing: an unrecognized
// entity prunes its entire decomposition subtree.
func isSpatialContainer(e *ifc.Entity) bool {
	return spatialTypes[e.Type()]
}

// buildSpatialTree walks decomposition relations depth-first from every
// project entity and emits one node per spatial container in pre-order,
// so a node's parent always precedes it in the result.
func buildSpatialTree(g *ifc.Graph) []types.SpatialNode {
	var nodes []types.SpatialNode

	var walk func(e *ifc.Entity, parent *int64)
	walk = func(e *ifc.Entity, parent *int64) {
		if e == nil || !isSpatialContainer(e) {
			return
		}

		node := types.SpatialNode{
			ExpressID:       e.ID(),
			IfcType:         e.Type(),
			Name:            e.AttrString("Name"),
			LongName:        e.AttrString("LongName"),
			ParentExpressID: parent,
			ElementCount:    directElementCount(g, e),
		}
		if e.Type() == "IFCBUILDINGSTOREY" {
			node.Elevation = parseElevation(e.Attr("Elevation"))
		}
		nodes = append(nodes, node)

		id := e.ID()
		for _, rel := range g.DecomposedBy(e) {
			for _, v := range rel.AttrList("RelatedObjects") {
				walk(g.Deref(v), &id)
			}
		}
	}

	for _, project := range g.ByType("IFCPROJECT") {
		walk(project, nil)
	}

	return nodes
}

// directElementCount sums related-element counts over the entity's direct
// containment relations. Children's elements are not aggregated.
func directElementCount(g *ifc.Graph, e *ifc.Entity) int {
	count := 0
	for _, rel := range g.ContainsElements(e) {
		count += len(rel.AttrList("RelatedElements"))
	}
	return count
}

// parseElevation coerces the elevation attribute to a float. Unparsable
// values yield nil rather than aborting the node.
func parseElevation(v any) *float64 {
	if f, ok := ifc.Num(v); ok {
		return &f
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}
