// Package recommend maps a person's demographics and personal plus family
// medical history to a prioritized list of suggested screening tests. The rule
// set is fixed and evaluated in a fixed order; callers rely on the output order
// when slicing a "top N" for display.
package recommend

import "github.com/lineage-health/platform/internal/conditions"

// Priority is the tier a recommended test is grouped under for display.
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityRoutine Priority = "routine"
)

// Profile is the subject of the recommendations. Age defaults to 30 when nil;
// only the literal value "female" for Sex triggers sex-specific rules.
type Profile struct {
	Age *int   `json:"age"`
	Sex string `json:"sex"`
}

// FamilyMember carries the recorded conditions of one relative. Duplicates are
// permitted and order is irrelevant.
type FamilyMember struct {
	ConditionList []string `json:"condition_list"`
}

// HealthHistory carries the subject's own conditions. When any structured
// detail records exist they fully replace the legacy flat list for matching.
type HealthHistory struct {
	CurrentConditions []string                     `json:"current_conditions"`
	ConditionDetails  []conditions.ConditionDetail `json:"condition_details,omitempty"`
}

// Recommendation is one suggested screening test. Test names are unique within
// one result set.
type Recommendation struct {
	Test      string   `json:"test"`
	Reason    string   `json:"reason"`
	Frequency string   `json:"frequency"`
	Priority  Priority `json:"priority"`
}

// normalizeConditions derives the subject's effective condition set. Detail
// records map to category-or-label and suppress the legacy list entirely when
// any exist.
func normalizeConditions(health *HealthHistory) []string {
	if health == nil {
		return nil
	}
	var fromDetails []string
	for _, d := range health.ConditionDetails {
		key := d.Category
		if key == "" {
			key = d.Label
		}
		if key != "" {
			fromDetails = append(fromDetails, key)
		}
	}
	if len(fromDetails) > 0 {
		return fromDetails
	}
	return health.CurrentConditions
}

// Recommend evaluates the screening rules over the subject's profile, the
// family history, and the subject's own health history. It is a pure function:
// identical inputs always produce an identical, order-stable output.
func Recommend(profile *Profile, familyMembers []FamilyMember, health *HealthHistory) []Recommendation {
	myConditions := normalizeConditions(health)

	// Combined condition pool: every family member's entries, then the
	// subject's own. Matching below is exact-string membership.
	var pool []string
	for _, m := range familyMembers {
		pool = append(pool, m.ConditionList...)
	}
	pool = append(pool, myConditions...)

	age := 30
	sex := ""
	if profile != nil {
		if profile.Age != nil {
			age = *profile.Age
		}
		sex = profile.Sex
	}

	contains := func(want string) bool {
		for _, c := range pool {
			if c == want {
				return true
			}
		}
		return false
	}

	cardiac := contains("Heart Disease") || contains("Hypertension")

	recs := []Recommendation{
		{
			Test:      "Complete Blood Count (CBC)",
			Reason:    "Baseline health screening for all adults",
			Frequency: "Annually",
			Priority:  PriorityRoutine,
		},
		{
			Test:      "Basic Metabolic Panel",
			Reason:    "Monitors kidney function, blood sugar, and electrolytes",
			Frequency: "Annually",
			Priority:  PriorityRoutine,
		},
	}

	lipid := Recommendation{
		Test:      "Lipid Panel",
		Reason:    "Screens for cholesterol and triglyceride levels",
		Frequency: "Every 4-6 years",
		Priority:  PriorityRoutine,
	}
	if age >= 40 {
		lipid.Frequency = "Annually"
	}
	if cardiac {
		lipid.Priority = PriorityHigh
	}
	recs = append(recs, lipid)

	if contains("Diabetes") {
		recs = append(recs,
			Recommendation{Test: "HbA1c Test", Reason: "Family history of diabetes", Frequency: "Every 6 months", Priority: PriorityHigh},
			Recommendation{Test: "Fasting Glucose", Reason: "Monitor blood sugar", Frequency: "Annually", Priority: PriorityHigh},
		)
	}

	if cardiac {
		recs = append(recs,
			Recommendation{Test: "Blood Pressure Monitoring", Reason: "Cardiac conditions in family", Frequency: "Every 3-6 months", Priority: PriorityHigh},
			Recommendation{Test: "Electrocardiogram (ECG)", Reason: "Baseline cardiac screening", Frequency: "Annually", Priority: PriorityMedium},
		)
	}

	if contains("Cancer") {
		recs = append(recs, Recommendation{
			Test: "Cancer Marker Screening", Reason: "Family history of cancer", Frequency: "Discuss with doctor", Priority: PriorityHigh,
		})
	}

	if sex == "female" {
		mammogram := Recommendation{
			Test:      "Mammogram",
			Reason:    "Baseline if family history",
			Frequency: "As recommended",
			Priority:  PriorityMedium,
		}
		if age >= 40 {
			mammogram.Reason = "Recommended for women 40+"
			mammogram.Frequency = "Annually"
		}
		if contains("Cancer") {
			mammogram.Priority = PriorityHigh
		}
		recs = append(recs,
			mammogram,
			Recommendation{Test: "Pap Smear", Reason: "Cervical cancer screening", Frequency: "Every 3 years", Priority: PriorityRoutine},
		)
	}

	if age >= 45 {
		colonoscopy := Recommendation{
			Test:      "Colonoscopy",
			Reason:    "Recommended from age 45",
			Frequency: "Every 10 years",
			Priority:  PriorityMedium,
		}
		if contains("Cancer") {
			colonoscopy.Priority = PriorityHigh
		}
		recs = append(recs, colonoscopy)
	}

	if contains("Mental Health") {
		recs = append(recs, Recommendation{
			Test: "Mental Health Screening", Reason: "Family history", Frequency: "Annually", Priority: PriorityMedium,
		})
	}

	if age >= 50 {
		recs = append(recs, Recommendation{
			Test: "Bone Density Scan (DEXA)", Reason: "Adults 50+", Frequency: "Every 2 years", Priority: PriorityRoutine,
		})
	}

	return recs
}

// GroupByPriority splits an ordered recommendation list into the three display
// tiers, preserving relative order within each tier.
func GroupByPriority(recs []Recommendation) map[Priority][]Recommendation {
	grouped := make(map[Priority][]Recommendation, 3)
	for _, r := range recs {
		grouped[r.Priority] = append(grouped[r.Priority], r)
	}
	return grouped
}
