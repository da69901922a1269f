package extract

import (
	"reflect"
	"testing"

	"github.com/pdiddy/ifc-engine/internal/ifc"
)

func classify(g *ifc.Graph, relID, refID int64) {
	g.Add(relID, "IFCRELASSOCIATESCLASSIFICATION", "gid-rc", nil, nil, nil, []any{ifc.Ref(1)}, ifc.Ref(refID))
}

func TestResolveClassificationsCodeAndName(t *testing.T) {
	g := wallGraph()
	g.Add(10, "IFCCLASSIFICATIONREFERENCE", nil, "21.22", "External Walls", nil)
	classify(g, 90, 10)

	got := resolveClassifications(g, g.Get(1))
	if !reflect.DeepEqual(got, []string{"21.22: External Walls"}) {
		t.Errorf("classifications = %v, want [21.22: External Walls]", got)
	}
}

func TestResolveClassificationsNameOnly(t *testing.T) {
	g := wallGraph()
	g.Add(10, "IFCCLASSIFICATIONREFERENCE", nil, nil, "Uniclass", nil)
	classify(g, 90, 10)

	got := resolveClassifications(g, g.Get(1))
	if !reflect.DeepEqual(got, []string{"Uniclass"}) {
		t.Errorf("classifications = %v, want [Uniclass]", got)
	}
}

func TestResolveClassificationsCodeWithoutName(t *testing.T) {
	g := wallGraph()
	g.Add(10, "IFCCLASSIFICATIONREFERENCE", nil, "21.22", nil, nil)
	classify(g, 90, 10)

	got := resolveClassifications(g, g.Get(1))
	if !reflect.DeepEqual(got, []string{"21.22: "}) {
		t.Errorf("classifications = %v, want [21.22: ]", got)
	}
}

func TestResolveClassificationsEmptyReference(t *testing.T) {
	g := wallGraph()
	g.Add(10, "IFCCLASSIFICATIONREFERENCE", nil, nil, nil, nil)
	classify(g, 90, 10)

	if got := resolveClassifications(g, g.Get(1)); len(got) != 0 {
		t.Errorf("classifications = %v, want empty", got)
	}
}

func TestResolveClassificationsDanglingReference(t *testing.T) {
	g := wallGraph()
	classify(g, 90, 777)

	if got := resolveClassifications(g, g.Get(1)); len(got) != 0 {
		t.Errorf("classifications = %v, want empty for dangling reference", got)
	}
}

func TestResolveClassificationsMultiple(t *testing.T) {
	g := wallGraph()
	g.Add(10, "IFCCLASSIFICATIONREFERENCE", nil, "A1", "First", nil)
	g.Add(11, "IFCCLASSIFICATIONREFERENCE", nil, "B2", "Second", nil)
	classify(g, 90, 10)
	classify(g, 91, 11)

	got := resolveClassifications(g, g.Get(1))
	want := []string{"A1: First", "B2: Second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("classifications = %v, want %v", got, want)
	}
}
