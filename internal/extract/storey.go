// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"go.uber.org/zap"

	"github.com/pdiddy/ifc-engine/internal/ifc"
)

// buildStoreyMap walks every containment relation once and maps element id
// to the containing structure's display name. When an element is named by
// more than one relation, the relation processed last wins. A relation
// with an unresolvable structure is logged and skipped; the map built from
// the remaining relations is still used.
func buildStoreyMap(g *ifc.Graph, log *zap.SugaredLogger) map[int64]string {
	m := make(map[int64]string)

	for _, rel := range g.ByType("IFCRELCONTAINEDINSPATIALSTRUCTURE") {
		structure := g.Deref(rel.Attr("RelatingStructure"))
		if structure == nil {
			log.Warnw("containment relation has no resolvable structure",
				"relation", rel.ID())
			continue
		}

		name := structure.AttrString("Name")
		if name == "" {
			name = structure.AttrString("LongName")
		}

		for _, v := range rel.AttrList("RelatedElements") {
			if r, ok := v.(ifc.Ref); ok {
				m[int64(r)] = name
			}
		}
	}

	return m
}
