// Package medications provides the static medication reference table and the
// endpoints that join it against a user's recorded medication list.
package medications

import "strings"

// ReferenceInfo is the static reference entry for a known medication.
type ReferenceInfo struct {
	Category     string   `json:"category"`
	Warnings     []string `json:"warnings"`
	Interactions []string `json:"interactions"`
}

// referenceTable is fixed and illustrative; it is not a drug-interaction
// database. Unknown medications render a generic disclaimer instead.
var referenceTable = map[string]ReferenceInfo{
	"metformin": {
		Category: "Antidiabetic",
		Warnings: []string{
			"May cause vitamin B12 deficiency with long-term use",
			"Monitor kidney function regularly",
		},
		Interactions: []string{"Alcohol may increase risk of lactic acidosis"},
	},
	"lisinopril": {
		Category: "ACE Inhibitor (Blood Pressure)",
		Warnings: []string{
			"May cause persistent dry cough",
			"Monitor potassium levels",
		},
		Interactions: []string{"NSAIDs may reduce effectiveness", "Potassium supplements may cause hyperkalemia"},
	},
	"atorvastatin": {
		Category: "Statin (Cholesterol)",
		Warnings: []string{
			"Report unexplained muscle pain immediately",
			"Regular liver function tests recommended",
		},
		Interactions: []string{"Grapefruit juice may increase side effects"},
	},
	"omeprazole": {
		Category: "Proton Pump Inhibitor",
		Warnings: []string{
			"Long-term use may affect calcium absorption",
			"May mask symptoms of stomach cancer",
		},
		Interactions: []string{"May reduce effectiveness of clopidogrel"},
	},
	"sertraline": {
		Category: "SSRI (Antidepressant)",
		Warnings: []string{
			"May take 4-6 weeks for full effect",
			"Do not stop abruptly",
		},
		Interactions: []string{"Avoid MAOIs", "NSAIDs may increase bleeding risk"},
	},
}

// LookupReference finds the reference entry for a medication name. Lookup is
// case-insensitive and ignores surrounding whitespace.
func LookupReference(name string) (ReferenceInfo, bool) {
	info, ok := referenceTable[strings.ToLower(strings.TrimSpace(name))]
	return info, ok
}
