package medications

import "testing"

func TestLookupReference(t *testing.T) {
	tests := []struct {
		name         string
		medication   string
		wantKnown    bool
		wantCategory string
	}{
		{"exact match", "metformin", true, "Antidiabetic"},
		{"mixed case", "Lisinopril", true, "ACE Inhibitor (Blood Pressure)"},
		{"upper case", "ATORVASTATIN", true, "Statin (Cholesterol)"},
		{"surrounding whitespace", "  omeprazole  ", true, "Proton Pump Inhibitor"},
		{"ssri", "sertraline", true, "SSRI (Antidepressant)"},
		{"unknown medication", "ibuprofen", false, ""},
		{"empty name", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := LookupReference(tt.medication)
			if ok != tt.wantKnown {
				t.Fatalf("LookupReference(%q) known = %v, want %v", tt.medication, ok, tt.wantKnown)
			}
			if ok && info.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", info.Category, tt.wantCategory)
			}
		})
	}
}

func TestReferenceEntriesComplete(t *testing.T) {
	for name, info := range referenceTable {
		if info.Category == "" {
			t.Errorf("%s: missing category", name)
		}
		if len(info.Warnings) == 0 {
			t.Errorf("%s: missing warnings", name)
		}
		if len(info.Interactions) == 0 {
			t.Errorf("%s: missing interactions", name)
		}
	}
}

func TestBuildInfo(t *testing.T) {
	known := buildInfo("metformin")
	if !known.Known {
		t.Fatal("metformin should be known")
	}
	if known.Disclaimer != "" {
		t.Error("known medication should not carry a disclaimer")
	}
	if len(known.Warnings) != 2 {
		t.Errorf("warnings = %d, want 2", len(known.Warnings))
	}

	unknown := buildInfo("aspirin")
	if unknown.Known {
		t.Fatal("aspirin should not be known")
	}
	if unknown.Disclaimer != GenericDisclaimer {
		t.Errorf("disclaimer = %q, want generic", unknown.Disclaimer)
	}
	if unknown.Name != "aspirin" {
		t.Errorf("name = %q, want aspirin", unknown.Name)
	}
}
