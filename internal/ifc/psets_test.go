package ifc

import (
	"testing"
)

// psetGraph attaches one property set and one quantity set to wall #1.
func psetGraph() *Graph {
	g := NewGraph("IFC4")
	g.Add(1, "IFCWALL", "gid", nil, "Wall", nil, nil, nil, nil)

	g.Add(10, "IFCPROPERTYSINGLEVALUE", "LoadBearing", nil, true, nil)
	g.Add(11, "IFCPROPERTYSINGLEVALUE", "FireRating", nil, "REI120", nil)
	g.Add(12, "IFCPROPERTYSET", "gid-ps", nil, "Pset_WallCommon", nil, []any{Ref(10), Ref(11)})

	g.Add(20, "IFCQUANTITYVOLUME", "NetVolume", nil, nil, 5.25)
	g.Add(21, "IFCQUANTITYAREA", "NetArea", nil, nil, 12.5)
	g.Add(22, "IFCELEMENTQUANTITY", "gid-qto", nil, "Qto_WallBaseQuantities", nil, nil, []any{Ref(20), Ref(21)})

	g.Add(30, "IFCRELDEFINESBYPROPERTIES", "gid-r1", nil, nil, nil, []any{Ref(1)}, Ref(12))
	g.Add(31, "IFCRELDEFINESBYPROPERTIES", "gid-r2", nil, nil, nil, []any{Ref(1)}, Ref(22))
	return g
}

func TestPropertySets(t *testing.T) {
	g := psetGraph()

	sets, err := g.PropertySets(g.Get(1))
	if err != nil {
		t.Fatalf("PropertySets: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets, want 1 (quantity sets excluded)", len(sets))
	}
	set := sets[0]
	if set.Name != "Pset_WallCommon" {
		t.Errorf("set name = %q", set.Name)
	}
	if len(set.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(set.Entries))
	}
	// Entry order follows the defining entity's argument list.
	if set.Entries[0].Key != "LoadBearing" || set.Entries[0].Value != true {
		t.Errorf("entry 0 = %+v", set.Entries[0])
	}
	if set.Entries[1].Key != "FireRating" || set.Entries[1].Value != "REI120" {
		t.Errorf("entry 1 = %+v", set.Entries[1])
	}
}

func TestQuantitySets(t *testing.T) {
	g := psetGraph()

	sets, err := g.QuantitySets(g.Get(1))
	if err != nil {
		t.Fatalf("QuantitySets: %v", err)
	}
	if len(sets) != 1 || sets[0].Name != "Qto_WallBaseQuantities" {
		t.Fatalf("sets = %+v, want one Qto_WallBaseQuantities", sets)
	}
	if sets[0].Entries[0].Key != "NetVolume" || sets[0].Entries[0].Value != 5.25 {
		t.Errorf("entry 0 = %+v", sets[0].Entries[0])
	}
}

func TestCollectSetsDanglingDefinition(t *testing.T) {
	g := NewGraph("IFC4")
	g.Add(1, "IFCWALL", "gid", nil, "Wall", nil, nil, nil, nil)
	g.Add(30, "IFCRELDEFINESBYPROPERTIES", "gid-r", nil, nil, nil, []any{Ref(1)}, Ref(999))

	sets, err := g.PropertySets(g.Get(1))
	if err == nil {
		t.Fatal("want error for dangling property definition")
	}
	if len(sets) != 0 {
		t.Errorf("partial sets = %+v, want none", sets)
	}
}

func TestCollectSetsPartialOnDanglingMember(t *testing.T) {
	g := NewGraph("IFC4")
	g.Add(1, "IFCWALL", "gid", nil, "Wall", nil, nil, nil, nil)
	g.Add(10, "IFCPROPERTYSINGLEVALUE", "Ok", nil, "v", nil)
	g.Add(12, "IFCPROPERTYSET", "gid-ps1", nil, "Pset_First", nil, []any{Ref(10)})
	g.Add(13, "IFCPROPERTYSET", "gid-ps2", nil, "Pset_Broken", nil, []any{Ref(888)})
	g.Add(30, "IFCRELDEFINESBYPROPERTIES", "gid-r1", nil, nil, nil, []any{Ref(1)}, Ref(12))
	g.Add(31, "IFCRELDEFINESBYPROPERTIES", "gid-r2", nil, nil, nil, []any{Ref(1)}, Ref(13))

	sets, err := g.PropertySets(g.Get(1))
	if err == nil {
		t.Fatal("want error for dangling member reference")
	}
	// The intact set collected before the failure is still returned.
	if len(sets) != 1 || sets[0].Name != "Pset_First" {
		t.Errorf("partial sets = %+v, want Pset_First only", sets)
	}
}

func TestPropertyEntryExportForms(t *testing.T) {
	g := NewGraph("IFC4")
	g.Add(1, "IFCWALL", "gid", nil, "Wall", nil, nil, nil, nil)
	g.Add(10, "IFCPROPERTYSINGLEVALUE", "Status", nil, Enum("NEW"), nil)
	g.Add(11, "IFCPROPERTYSINGLEVALUE", "Linked", nil, Ref(1), nil)
	g.Add(12, "IFCPROPERTYSET", "gid-ps", nil, "Pset_Export", nil, []any{Ref(10), Ref(11)})
	g.Add(30, "IFCRELDEFINESBYPROPERTIES", "gid-r", nil, nil, nil, []any{Ref(1)}, Ref(12))

	sets, err := g.PropertySets(g.Get(1))
	if err != nil {
		t.Fatalf("PropertySets: %v", err)
	}
	entries := sets[0].Entries
	if entries[0].Value != "NEW" {
		t.Errorf("enum export = %v, want NEW", entries[0].Value)
	}
	if entries[1].Value != "#1" {
		t.Errorf("ref export = %v, want #1", entries[1].Value)
	}
}
