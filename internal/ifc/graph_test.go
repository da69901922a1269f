package ifc

import (
	"testing"
)

// buildContainmentGraph wires a minimal storey -> wall containment with a
// material association and a property-definition relation.
func buildContainmentGraph() *Graph {
	g := NewGraph("IFC4")
	g.Add(10, "IFCBUILDINGSTOREY", "guid-storey", nil, "Level 1", nil, nil, nil, nil, "First Floor", nil, 3.2)
	g.Add(20, "IFCWALL", "guid-wall", nil, "Wall A", "load bearing", nil, nil, nil)
	g.Add(30, "IFCMATERIAL", "Concrete")
	g.Add(40, "IFCRELCONTAINEDINSPATIALSTRUCTURE", "guid-rel", nil, nil, nil, []any{Ref(20)}, Ref(10))
	g.Add(50, "IFCRELASSOCIATESMATERIAL", "guid-mat", nil, nil, nil, []any{Ref(20)}, Ref(30))
	g.Add(60, "IFCRELAGGREGATES", "guid-agg", nil, nil, nil, Ref(10), []any{Ref(20)})
	return g
}

// --- attribute tests ---

func TestAttrPerTypePrecedence(t *testing.T) {
	g := NewGraph("IFC4")
	mat := g.Add(1, "IFCMATERIAL", "Steel")

	// IFCMATERIAL's Name is argument 0, not the rooted position 2.
	if got := mat.AttrString("Name"); got != "Steel" {
		t.Errorf("Name = %q, want Steel", got)
	}
}

func TestAttrRootedFallback(t *testing.T) {
	g := NewGraph("IFC4")
	wall := g.Add(1, "IFCWALLSTANDARDCASE", "gid", nil, "Wall", "desc", "Basic", nil, nil)

	tests := []struct {
		attr string
		want string
	}{
		{"GlobalId", "gid"},
		{"Name", "Wall"},
		{"Description", "desc"},
		{"ObjectType", "Basic"},
	}
	for _, tt := range tests {
		if got := wall.AttrString(tt.attr); got != tt.want {
			t.Errorf("AttrString(%s) = %q, want %q", tt.attr, got, tt.want)
		}
	}
}

func TestAttrUnknown(t *testing.T) {
	g := NewGraph("IFC4")
	e := g.Add(1, "IFCWALL", "gid")

	if got := e.Attr("NoSuchAttribute"); got != nil {
		t.Errorf("unknown attribute = %v, want nil", got)
	}
	if got := e.Arg(99); got != nil {
		t.Errorf("out-of-range Arg = %v, want nil", got)
	}
}

func TestStrAndNum(t *testing.T) {
	if got := Str(Enum("ELEMENT")); got != "ELEMENT" {
		t.Errorf("Str(Enum) = %q", got)
	}
	if got := Str(3.5); got != "" {
		t.Errorf("Str(float) = %q, want empty", got)
	}

	if v, ok := Num(int64(4)); !ok || v != 4 {
		t.Errorf("Num(int64) = %v, %v", v, ok)
	}
	if _, ok := Num("4"); ok {
		t.Error("Num(string) accepted, want rejected")
	}
	if _, ok := Num(true); ok {
		t.Error("Num(bool) accepted, want rejected")
	}
}

// --- graph index tests ---

func TestByTypeCaseInsensitive(t *testing.T) {
	g := NewGraph("IFC4")
	g.Add(1, "IfcWall", "gid")
	g.Add(2, "IFCWALL", "gid2")

	if got := len(g.ByType("ifcwall")); got != 2 {
		t.Errorf("ByType(ifcwall) = %d entities, want 2", got)
	}
}

func TestEntitiesSortedByID(t *testing.T) {
	g := NewGraph("IFC4")
	g.Add(30, "IFCWALL", "c")
	g.Add(10, "IFCWALL", "a")
	g.Add(20, "IFCWALL", "b")

	ids := make([]int64, 0, 3)
	for _, e := range g.Entities() {
		ids = append(ids, e.ID())
	}
	if ids[0] != 10 || ids[1] != 20 || ids[2] != 30 {
		t.Errorf("Entities order = %v, want ascending ids", ids)
	}
}

func TestDerefDangling(t *testing.T) {
	g := NewGraph("IFC4")
	g.Add(1, "IFCWALL", "gid")

	if got := g.Deref(Ref(999)); got != nil {
		t.Errorf("Deref(dangling) = %v, want nil", got)
	}
	if got := g.Deref("not a ref"); got != nil {
		t.Errorf("Deref(non-ref) = %v, want nil", got)
	}
}

func TestInverseIndexes(t *testing.T) {
	g := buildContainmentGraph()
	storey := g.Get(10)
	wall := g.Get(20)

	rels := g.ContainsElements(storey)
	if len(rels) != 1 || rels[0].ID() != 40 {
		t.Fatalf("ContainsElements = %v, want relation #40", rels)
	}

	aggs := g.DecomposedBy(storey)
	if len(aggs) != 1 || aggs[0].ID() != 60 {
		t.Fatalf("DecomposedBy = %v, want relation #60", aggs)
	}

	assocs := g.Associations(wall)
	if len(assocs) != 1 || assocs[0].ID() != 50 {
		t.Fatalf("Associations = %v, want relation #50", assocs)
	}
}

func TestMaterialOf(t *testing.T) {
	g := buildContainmentGraph()

	mat := g.MaterialOf(g.Get(20))
	if mat == nil || mat.AttrString("Name") != "Concrete" {
		t.Errorf("MaterialOf = %v, want Concrete material", mat)
	}
	if got := g.MaterialOf(g.Get(10)); got != nil {
		t.Errorf("MaterialOf(storey) = %v, want nil", got)
	}
}
