package recommend

import (
	"reflect"
	"testing"

	"github.com/lineage-health/platform/internal/conditions"
)

func intPtr(v int) *int { return &v }

func find(recs []Recommendation, test string) (Recommendation, bool) {
	for _, r := range recs {
		if r.Test == test {
			return r, true
		}
	}
	return Recommendation{}, false
}

func count(recs []Recommendation, test string) int {
	n := 0
	for _, r := range recs {
		if r.Test == test {
			n++
		}
	}
	return n
}

func TestBaselineAlwaysFirst(t *testing.T) {
	inputs := []struct {
		name    string
		profile *Profile
		family  []FamilyMember
		health  *HealthHistory
	}{
		{"all nil", nil, nil, nil},
		{"young male", &Profile{Age: intPtr(20), Sex: "male"}, nil, nil},
		{"older female with history", &Profile{Age: intPtr(60), Sex: "female"},
			[]FamilyMember{{ConditionList: []string{"Cancer", "Diabetes"}}},
			&HealthHistory{CurrentConditions: []string{"Hypertension"}}},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(tt.profile, tt.family, tt.health)
			if len(recs) < 3 {
				t.Fatalf("Expected at least 3 recommendations, got %d", len(recs))
			}
			if recs[0].Test != "Complete Blood Count (CBC)" {
				t.Errorf("First entry = %q", recs[0].Test)
			}
			if recs[1].Test != "Basic Metabolic Panel" {
				t.Errorf("Second entry = %q", recs[1].Test)
			}
			if recs[2].Test != "Lipid Panel" {
				t.Errorf("Third entry = %q", recs[2].Test)
			}
		})
	}
}

func TestLipidPanelFrequencyByAge(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{18, "Every 4-6 years"},
		{39, "Every 4-6 years"},
		{40, "Annually"},
		{75, "Annually"},
	}

	for _, tt := range tests {
		recs := Recommend(&Profile{Age: intPtr(tt.age)}, nil, nil)
		lipid, _ := find(recs, "Lipid Panel")
		if lipid.Frequency != tt.want {
			t.Errorf("Age %d: Lipid Panel frequency = %q, want %q", tt.age, lipid.Frequency, tt.want)
		}
	}
}

func TestAgeDefaultsTo30(t *testing.T) {
	// Missing age behaves as 30: biennial lipid screening, no colonoscopy.
	recs := Recommend(&Profile{}, nil, nil)
	lipid, _ := find(recs, "Lipid Panel")
	if lipid.Frequency != "Every 4-6 years" {
		t.Errorf("Lipid Panel frequency = %q, want 'Every 4-6 years'", lipid.Frequency)
	}
	if _, ok := find(recs, "Colonoscopy"); ok {
		t.Error("Colonoscopy should not appear for default age")
	}

	nilProfile := Recommend(nil, nil, nil)
	if !reflect.DeepEqual(recs, nilProfile) {
		t.Error("nil profile should behave like an empty profile")
	}
}

func TestDeterministic(t *testing.T) {
	profile := &Profile{Age: intPtr(52), Sex: "female"}
	family := []FamilyMember{
		{ConditionList: []string{"Diabetes", "Cancer"}},
		{ConditionList: []string{"Hypertension"}},
	}
	health := &HealthHistory{CurrentConditions: []string{"Mental Health"}}

	first := Recommend(profile, family, health)
	second := Recommend(profile, family, health)
	if !reflect.DeepEqual(first, second) {
		t.Error("Identical inputs must produce identical output sequences")
	}
}

func TestDiabetesRules(t *testing.T) {
	recs := Recommend(&Profile{Age: intPtr(25)},
		[]FamilyMember{{ConditionList: []string{"Diabetes"}}}, nil)

	if n := count(recs, "HbA1c Test"); n != 1 {
		t.Errorf("Expected exactly one HbA1c Test, got %d", n)
	}
	if n := count(recs, "Fasting Glucose"); n != 1 {
		t.Errorf("Expected exactly one Fasting Glucose, got %d", n)
	}

	hba1c, _ := find(recs, "HbA1c Test")
	if hba1c.Priority != PriorityHigh || hba1c.Frequency != "Every 6 months" {
		t.Errorf("HbA1c = %+v", hba1c)
	}
	glucose, _ := find(recs, "Fasting Glucose")
	if glucose.Priority != PriorityHigh {
		t.Errorf("Fasting Glucose priority = %q", glucose.Priority)
	}

	// No cardiac trigger: lipid panel stays routine at the young-age cadence.
	lipid, _ := find(recs, "Lipid Panel")
	if lipid.Priority != PriorityRoutine || lipid.Frequency != "Every 4-6 years" {
		t.Errorf("Lipid Panel = %+v", lipid)
	}
}

func TestCardiacTriggerIsOrBased(t *testing.T) {
	// Hypertension alone must fire the cardiac rules, not just Heart Disease.
	for _, trigger := range []string{"Heart Disease", "Hypertension"} {
		t.Run(trigger, func(t *testing.T) {
			recs := Recommend(nil, []FamilyMember{{ConditionList: []string{trigger}}}, nil)

			lipid, _ := find(recs, "Lipid Panel")
			if lipid.Priority != PriorityHigh {
				t.Errorf("Lipid Panel priority = %q, want high", lipid.Priority)
			}
			bp, ok := find(recs, "Blood Pressure Monitoring")
			if !ok || bp.Priority != PriorityHigh || bp.Frequency != "Every 3-6 months" {
				t.Errorf("Blood Pressure Monitoring = %+v (found=%v)", bp, ok)
			}
			ecg, ok := find(recs, "Electrocardiogram (ECG)")
			if !ok || ecg.Priority != PriorityMedium {
				t.Errorf("ECG = %+v (found=%v)", ecg, ok)
			}
		})
	}
}

func TestFemaleRules(t *testing.T) {
	recs := Recommend(&Profile{Age: intPtr(45), Sex: "female"}, nil, nil)

	mammogram, ok := find(recs, "Mammogram")
	if !ok || mammogram.Frequency != "Annually" || mammogram.Priority != PriorityMedium {
		t.Errorf("Mammogram = %+v (found=%v)", mammogram, ok)
	}
	pap, ok := find(recs, "Pap Smear")
	if !ok || pap.Frequency != "Every 3 years" || pap.Priority != PriorityRoutine {
		t.Errorf("Pap Smear = %+v (found=%v)", pap, ok)
	}
	colonoscopy, ok := find(recs, "Colonoscopy")
	if !ok || colonoscopy.Frequency != "Every 10 years" || colonoscopy.Priority != PriorityMedium {
		t.Errorf("Colonoscopy = %+v (found=%v)", colonoscopy, ok)
	}
	lipid, _ := find(recs, "Lipid Panel")
	if lipid.Frequency != "Annually" || lipid.Priority != PriorityRoutine {
		t.Errorf("Lipid Panel = %+v", lipid)
	}
}

func TestNoFemaleRulesForOtherSexValues(t *testing.T) {
	for _, sex := range []string{"", "male", "Female", "FEMALE", "f"} {
		recs := Recommend(&Profile{Age: intPtr(50), Sex: sex},
			[]FamilyMember{{ConditionList: []string{"Cancer"}}}, nil)
		if _, ok := find(recs, "Mammogram"); ok {
			t.Errorf("Sex %q: Mammogram should not appear", sex)
		}
		if _, ok := find(recs, "Pap Smear"); ok {
			t.Errorf("Sex %q: Pap Smear should not appear", sex)
		}
	}
}

func TestCancerRaisesMammogramAndColonoscopy(t *testing.T) {
	recs := Recommend(&Profile{Age: intPtr(45), Sex: "female"},
		[]FamilyMember{{ConditionList: []string{"Cancer"}}}, nil)

	marker, ok := find(recs, "Cancer Marker Screening")
	if !ok || marker.Priority != PriorityHigh || marker.Frequency != "Discuss with doctor" {
		t.Errorf("Cancer Marker Screening = %+v (found=%v)", marker, ok)
	}
	mammogram, _ := find(recs, "Mammogram")
	if mammogram.Priority != PriorityHigh {
		t.Errorf("Mammogram priority = %q, want high", mammogram.Priority)
	}
	colonoscopy, _ := find(recs, "Colonoscopy")
	if colonoscopy.Priority != PriorityHigh {
		t.Errorf("Colonoscopy priority = %q, want high", colonoscopy.Priority)
	}
}

func TestMentalHealthAndBoneDensity(t *testing.T) {
	recs := Recommend(&Profile{Age: intPtr(50)},
		[]FamilyMember{{ConditionList: []string{"Mental Health"}}}, nil)

	mh, ok := find(recs, "Mental Health Screening")
	if !ok || mh.Priority != PriorityMedium || mh.Frequency != "Annually" {
		t.Errorf("Mental Health Screening = %+v (found=%v)", mh, ok)
	}
	dexa, ok := find(recs, "Bone Density Scan (DEXA)")
	if !ok || dexa.Priority != PriorityRoutine || dexa.Frequency != "Every 2 years" {
		t.Errorf("DEXA = %+v (found=%v)", dexa, ok)
	}

	young := Recommend(&Profile{Age: intPtr(49)}, nil, nil)
	if _, ok := find(young, "Bone Density Scan (DEXA)"); ok {
		t.Error("DEXA should not appear under age 50")
	}
}

func TestConditionDetailsSuppressLegacyList(t *testing.T) {
	health := &HealthHistory{
		CurrentConditions: []string{"Asthma"},
		ConditionDetails: []conditions.ConditionDetail{
			{Label: "Cancer", Category: "Cancer", Subtype: "Breast"},
		},
	}
	recs := Recommend(&Profile{Age: intPtr(30)}, nil, health)

	marker, ok := find(recs, "Cancer Marker Screening")
	if !ok || marker.Priority != PriorityHigh {
		t.Errorf("Cancer Marker Screening = %+v (found=%v)", marker, ok)
	}
}

func TestDetailsFallBackToLabelWhenNoCategory(t *testing.T) {
	health := &HealthHistory{
		ConditionDetails: []conditions.ConditionDetail{{Label: "Diabetes"}},
	}
	recs := Recommend(nil, nil, health)
	if _, ok := find(recs, "HbA1c Test"); !ok {
		t.Error("Detail record without category should match under its label")
	}
}

func TestEmptyDetailsUseLegacyList(t *testing.T) {
	health := &HealthHistory{CurrentConditions: []string{"Diabetes"}}
	recs := Recommend(nil, nil, health)
	if _, ok := find(recs, "HbA1c Test"); !ok {
		t.Error("Legacy list should drive matching when no detail records exist")
	}
}

func TestOutputOrderIsRuleOrder(t *testing.T) {
	recs := Recommend(&Profile{Age: intPtr(52), Sex: "female"},
		[]FamilyMember{{ConditionList: []string{"Diabetes", "Hypertension", "Cancer", "Mental Health"}}},
		nil)

	want := []string{
		"Complete Blood Count (CBC)",
		"Basic Metabolic Panel",
		"Lipid Panel",
		"HbA1c Test",
		"Fasting Glucose",
		"Blood Pressure Monitoring",
		"Electrocardiogram (ECG)",
		"Cancer Marker Screening",
		"Mammogram",
		"Pap Smear",
		"Colonoscopy",
		"Mental Health Screening",
		"Bone Density Scan (DEXA)",
	}

	if len(recs) != len(want) {
		t.Fatalf("Expected %d recommendations, got %d", len(want), len(recs))
	}
	for i, name := range want {
		if recs[i].Test != name {
			t.Errorf("Position %d = %q, want %q", i, recs[i].Test, name)
		}
	}
}

func TestGroupByPriority(t *testing.T) {
	recs := Recommend(&Profile{Age: intPtr(45)},
		[]FamilyMember{{ConditionList: []string{"Diabetes"}}}, nil)

	grouped := GroupByPriority(recs)
	total := 0
	for _, tier := range grouped {
		total += len(tier)
	}
	if total != len(recs) {
		t.Errorf("Grouping lost entries: %d grouped vs %d total", total, len(recs))
	}
	if len(grouped[PriorityHigh]) != 2 {
		t.Errorf("Expected 2 high-priority entries, got %d", len(grouped[PriorityHigh]))
	}
}
