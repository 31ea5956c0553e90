package conditions

import "testing"

func TestCatalogUniqueness(t *testing.T) {
	ids := make(map[string]bool)
	labels := make(map[string]bool)

	for _, c := range All {
		if c.ID == "" {
			t.Errorf("Entry %q has empty id", c.Label)
		}
		if ids[c.ID] {
			t.Errorf("Duplicate id %q", c.ID)
		}
		ids[c.ID] = true

		if labels[c.Label] {
			t.Errorf("Duplicate label %q", c.Label)
		}
		labels[c.Label] = true
	}
}

func TestSubtypeFollowUpsHaveSubtypes(t *testing.T) {
	for _, c := range All {
		hasSubtypeFollowUp := false
		for _, f := range c.FollowUps {
			if f == FollowUpSubtype {
				hasSubtypeFollowUp = true
			}
		}
		if hasSubtypeFollowUp && len(c.Subtypes) == 0 {
			t.Errorf("Entry %q declares a subtype follow-up but no subtypes", c.ID)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		key       string
		wantID    string
		wantFound bool
	}{
		{"diabetes", "diabetes", true},
		{"Diabetes", "diabetes", true},
		{"cancer-breast", "cancer-breast", true},
		{"Breast cancer", "cancer-breast", true},
		{"not-a-condition", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c, ok := Lookup(tt.key)
			if ok != tt.wantFound {
				t.Fatalf("Lookup(%q) found=%v, want %v", tt.key, ok, tt.wantFound)
			}
			if ok && c.ID != tt.wantID {
				t.Errorf("Lookup(%q) id=%q, want %q", tt.key, c.ID, tt.wantID)
			}
		})
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		key       string
		want      string
		wantFound bool
	}{
		{"diabetes", "Diabetes", true},
		{"Breast cancer", "Cancer", true},
		{"cancer-lung", "Cancer", true},
		// A category name passed directly maps to itself
		{"Cancer", "Cancer", true},
		// Catalog entry without a category matches under its own key
		{"epilepsy", "epilepsy", true},
		{"High cholesterol", "High cholesterol", true},
		// Free-text values predating the catalog report no match
		{"Scurvy", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := CategoryFor(tt.key)
			if ok != tt.wantFound {
				t.Fatalf("CategoryFor(%q) found=%v, want %v", tt.key, ok, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("CategoryFor(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLabelForEchoesUnknownKeys(t *testing.T) {
	if got := LabelFor("ms"); got != "Multiple sclerosis" {
		t.Errorf("LabelFor(ms) = %q", got)
	}
	if got := LabelFor("Some old free-text entry"); got != "Some old free-text entry" {
		t.Errorf("LabelFor should echo unknown keys, got %q", got)
	}
}

func TestToDisplayList(t *testing.T) {
	fallback := []string{"Asthma", "Migraine"}

	// No details: fallback returned unchanged
	got := ToDisplayList(nil, fallback)
	if len(got) != 2 || got[0] != "Asthma" || got[1] != "Migraine" {
		t.Errorf("Expected fallback list, got %v", got)
	}

	// Details take precedence and render subtypes
	details := []ConditionDetail{
		{Label: "Cancer", Category: "Cancer", Subtype: "Breast"},
		{Label: "Diabetes", Category: "Diabetes"},
	}
	got = ToDisplayList(details, fallback)
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0] != "Cancer (Breast)" {
		t.Errorf("Expected 'Cancer (Breast)', got %q", got[0])
	}
	if got[1] != "Diabetes" {
		t.Errorf("Expected 'Diabetes', got %q", got[1])
	}
}
