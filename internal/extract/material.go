// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/pdiddy/ifc-engine/internal/ifc"

// resolveMaterials resolves an element's material association into an
// ordered list of material names, empty names filtered. The association is
// one of a closed set of variants: a single material, a layer set (direct
// or via usage), a material list, or a constituent set. An absent or
// unrecognized association yields an empty list.
func resolveMaterials(g *ifc.Graph, e *ifc.Entity) []string {
	mat := g.MaterialOf(e)
	if mat == nil {
		return nil
	}

	var names []string
	switch mat.Type() {
	case "IFCMATERIAL":
		names = append(names, mat.AttrString("Name"))

	case "IFCMATERIALLAYERSETUSAGE":
		names = layerSetNames(g, g.Deref(mat.Attr("ForLayerSet")))

	case "IFCMATERIALLAYERSET":
		names = layerSetNames(g, mat)

	case "IFCMATERIALLIST":
		for _, v := range mat.AttrList("Materials") {
			if m := g.Deref(v); m != nil {
				names = append(names, m.AttrString("Name"))
			}
		}

	case "IFCMATERIALCONSTITUENTSET":
		for _, v := range mat.AttrList("MaterialConstituents") {
			c := g.Deref(v)
			if c == nil {
				continue
			}
			if m := g.Deref(c.Attr("Material")); m != nil {
				names = append(names, m.AttrString("Name"))
			}
		}
	}

	return dropEmpty(names)
}

// layerSetNames returns one name per layer, in layer order. Layers without
// a material contribute nothing.
func layerSetNames(g *ifc.Graph, layerSet *ifc.Entity) []string {
	if layerSet == nil {
		return nil
	}
	var names []string
	for _, v := range layerSet.AttrList("MaterialLayers") {
		layer := g.Deref(v)
		if layer == nil {
			continue
		}
		if m := g.Deref(layer.Attr("Material")); m != nil {
			names = append(names, m.AttrString("Name"))
		}
	}
	return names
}

func dropEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
