package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NetVolume", "netvolume"},
		{"Net Volume", "netvolume"},
		{"net_volume", "netvolume"},
		{"NET-VOLUME", "netvolume"},
		{"Gross Side Area", "grosssidearea"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"NetVolume", Volume, true},
		{"Volume (gross)", Volume, true},
		{"CrossSectionArea", Area, true},
		{"OverallHeight", Height, true},
		{"Span", Length, true},
		{"NominalWidth", Width, true},
		{"GrossPerimeter", Perimeter, true},
		{"NetWeight", Weight, true},
		{"Reference", Volume, false},
		{"IsExternal", Area, false},
		// Substring containment: a qualified name still matches.
		{"Structural Volume Estimate", Volume, true},
	}
	for _, tt := range tests {
		if got := Matches(tt.name, tt.category); got != tt.want {
			t.Errorf("Matches(%q, %s) = %v, want %v", tt.name, tt.category, got, tt.want)
		}
	}
}

func TestMatchesConcrete(t *testing.T) {
	for _, name := range []string{
		"ConcreteStrength", "Concrete Class", "concrete_grade",
		"ClassOfConcrete", "StrengthClass",
	} {
		if !MatchesConcrete(name) {
			t.Errorf("MatchesConcrete(%q) = false, want true", name)
		}
	}
	if MatchesConcrete("FireRating") {
		t.Error("MatchesConcrete(FireRating) = true, want false")
	}
}

func TestCategoryPrecedenceOrder(t *testing.T) {
	want := [numCategories]Category{Volume, Area, Height, Length, Width, Perimeter, Weight}
	if Categories != want {
		t.Errorf("Categories = %v, want %v", Categories, want)
	}
}
