// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/pdiddy/ifc-engine/internal/ifc"

// resolveClassifications resolves an element's classification associations
// into "code: name" strings, in relation order. The code prefers the
// ItemReference attribute and falls back to Identification; when both are
// absent the name stands alone. A relation whose classification reference
// cannot be resolved contributes nothing.
func resolveClassifications(g *ifc.Graph, e *ifc.Entity) []string {
	var out []string

	for _, rel := range g.Associations(e) {
		if rel.Type() != "IFCRELASSOCIATESCLASSIFICATION" {
			continue
		}
		ref := g.Deref(rel.Attr("RelatingClassification"))
		if ref == nil {
			continue
		}

		code := ref.AttrString("ItemReference")
		if code == "" {
			code = ref.AttrString("Identification")
		}
		name := ref.AttrString("Name")

		if code != "" {
			out = append(out, code+": "+name)
		} else if name != "" {
			out = append(out, name)
		}
	}

	return out
}
