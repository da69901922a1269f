package extract

import (
	"testing"

	"go.uber.org/zap"

	"github.com/pdiddy/ifc-engine/internal/ifc"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func contain(g *ifc.Graph, relID, structureID int64, elementIDs ...int64) {
	related := make([]any, len(elementIDs))
	for i, id := range elementIDs {
		related[i] = ifc.Ref(id)
	}
	g.Add(relID, "IFCRELCONTAINEDINSPATIALSTRUCTURE", "gid-c", nil, nil, nil, related, ifc.Ref(structureID))
}

func TestBuildStoreyMap(t *testing.T) {
	g := ifc.NewGraph("IFC4")
	g.Add(10, "IFCBUILDINGSTOREY", "gid-s1", nil, "Level 1", nil, nil, nil, nil, nil, nil, 0.0)
	g.Add(20, "IFCWALL", "gid-w", nil, "Wall", nil, nil, nil, nil)
	g.Add(21, "IFCDOOR", "gid-d", nil, "Door", nil, nil, nil, nil)
	contain(g, 90, 10, 20, 21)

	m := buildStoreyMap(g, testLogger())
	if m[20] != "Level 1" || m[21] != "Level 1" {
		t.Errorf("storey map = %v, want both elements on Level 1", m)
	}
}

func TestBuildStoreyMapLongNameFallback(t *testing.T) {
	g := ifc.NewGraph("IFC4")
	g.Add(10, "IFCBUILDINGSTOREY", "gid-s", nil, nil, nil, nil, nil, nil, "Ground Floor", nil, 0.0)
	g.Add(20, "IFCWALL", "gid-w", nil, "Wall", nil, nil, nil, nil)
	contain(g, 90, 10, 20)

	m := buildStoreyMap(g, testLogger())
	if m[20] != "Ground Floor" {
		t.Errorf("storey = %q, want LongName fallback Ground Floor", m[20])
	}
}

func TestBuildStoreyMapLastWriteWins(t *testing.T) {
	g := ifc.NewGraph("IFC4")
	g.Add(10, "IFCBUILDINGSTOREY", "gid-s1", nil, "Level 1", nil, nil, nil, nil, nil, nil, 0.0)
	g.Add(11, "IFCBUILDINGSTOREY", "gid-s2", nil, "Level 2", nil, nil, nil, nil, nil, nil, 3.2)
	g.Add(20, "IFCWALL", "gid-w", nil, "Wall", nil, nil, nil, nil)
	contain(g, 90, 10, 20)
	contain(g, 91, 11, 20)

	m := buildStoreyMap(g, testLogger())
	if m[20] != "Level 2" {
		t.Errorf("storey = %q, want the later relation's Level 2", m[20])
	}
}

func TestBuildStoreyMapSkipsUnresolvableStructure(t *testing.T) {
	g := ifc.NewGraph("IFC4")
	g.Add(10, "IFCBUILDINGSTOREY", "gid-s", nil, "Level 1", nil, nil, nil, nil, nil, nil, 0.0)
	g.Add(20, "IFCWALL", "gid-w", nil, "Wall", nil, nil, nil, nil)
	g.Add(21, "IFCDOOR", "gid-d", nil, "Door", nil, nil, nil, nil)
	contain(g, 90, 10, 20)
	contain(g, 91, 777, 21) // dangling structure

	m := buildStoreyMap(g, testLogger())
	if m[20] != "Level 1" {
		t.Errorf("storey = %q, want Level 1", m[20])
	}
	if _, ok := m[21]; ok {
		t.Error("element of dangling relation mapped, want skipped")
	}
}
