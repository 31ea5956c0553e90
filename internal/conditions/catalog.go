// Package conditions holds the static catalog of selectable health conditions
// and their follow-up prompts. The catalog is the single source of truth for
// condition pickers and for normalizing stored condition data into the category
// keys the recommendation engine matches on.
package conditions

import "fmt"

// FollowUpType identifies a supplemental question prompted when a condition is selected.
type FollowUpType string

const (
	FollowUpSubtype        FollowUpType = "subtype"
	FollowUpAgeAtDiagnosis FollowUpType = "age_at_diagnosis"
	FollowUpNotes          FollowUpType = "notes"
)

// ConditionOption is one catalog entry. IDs and labels are unique across the
// catalog; the catalog itself is read-only at runtime.
type ConditionOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Category is the key recommendation rules match on (e.g. "Cancer",
	// "Diabetes"). Entries without a category match under their own label.
	Category  string         `json:"category,omitempty"`
	FollowUps []FollowUpType `json:"followUps,omitempty"`
	// Subtypes enumerates the dropdown choices for the "subtype" follow-up.
	Subtypes []string `json:"subtypes,omitempty"`
}

// ConditionDetail is a per-person condition record: the chosen catalog entry
// plus the user's follow-up answers. Stored as JSON alongside the legacy flat
// condition list.
type ConditionDetail struct {
	ID             string `json:"id,omitempty"`
	Label          string `json:"label"`
	Category       string `json:"category,omitempty"`
	Subtype        string `json:"subtype,omitempty"`
	AgeAtDiagnosis *int   `json:"age_at_diagnosis,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// All is the flat list of selectable conditions for chips and pickers.
var All = []ConditionOption{
	// Blood & anaemia
	{ID: "anaemia", Label: "Anaemia", Category: "Anaemia"},
	{ID: "anaemia-iron", Label: "Anaemia (iron deficiency)", Category: "Anaemia"},
	{ID: "anaemia-b12", Label: "Anaemia (B12 / folate)", Category: "Anaemia"},
	{ID: "anaemia-haemolytic", Label: "Anaemia (haemolytic)", Category: "Anaemia"},
	{ID: "thalassaemia", Label: "Thalassaemia", Category: "Anaemia"},
	{ID: "sickle-cell", Label: "Sickle cell disease", Category: "Anaemia"},
	{ID: "bleeding-disorder", Label: "Bleeding / clotting disorder"},
	// Cancer, with subtype follow-up
	{ID: "cancer", Label: "Cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpSubtype, FollowUpAgeAtDiagnosis},
		Subtypes: []string{"Breast", "Lung", "Colorectal", "Prostate", "Melanoma", "Ovarian", "Cervical", "Leukaemia", "Lymphoma", "Other"}},
	{ID: "cancer-breast", Label: "Breast cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "cancer-lung", Label: "Lung cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "cancer-colorectal", Label: "Colorectal cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "cancer-prostate", Label: "Prostate cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "cancer-ovarian", Label: "Ovarian cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "cancer-other", Label: "Other cancer", Category: "Cancer", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis, FollowUpNotes}},
	// Cardiovascular
	{ID: "heart-disease", Label: "Heart disease", Category: "Heart Disease", FollowUps: []FollowUpType{FollowUpNotes}},
	{ID: "hypertension", Label: "Hypertension", Category: "Hypertension"},
	{ID: "stroke", Label: "Stroke", Category: "Stroke", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "cholesterol", Label: "High cholesterol"},
	// Metabolic
	{ID: "diabetes", Label: "Diabetes", Category: "Diabetes", FollowUps: []FollowUpType{FollowUpSubtype},
		Subtypes: []string{"Type 1", "Type 2", "Gestational", "Prediabetes"}},
	{ID: "thyroid", Label: "Thyroid disorder", FollowUps: []FollowUpType{FollowUpSubtype},
		Subtypes: []string{"Hypothyroidism", "Hyperthyroidism", "Hashimoto's", "Other"}},
	{ID: "pcos", Label: "PCOS", Category: "Autoimmune Disorder"},
	// Autoimmune & inflammatory
	{ID: "autoimmune", Label: "Autoimmune disease", Category: "Autoimmune Disorder", FollowUps: []FollowUpType{FollowUpSubtype, FollowUpNotes},
		Subtypes: []string{"Rheumatoid arthritis", "Lupus (SLE)", "Multiple sclerosis", "Crohn's / IBD", "Coeliac", "Psoriasis / psoriatic arthritis", "Sjögren's", "Other"}},
	{ID: "rheumatoid-arthritis", Label: "Rheumatoid arthritis", Category: "Autoimmune Disorder"},
	{ID: "lupus", Label: "Lupus (SLE)", Category: "Autoimmune Disorder"},
	{ID: "ms", Label: "Multiple sclerosis", Category: "Autoimmune Disorder"},
	{ID: "ibd", Label: "Crohn's / IBD", Category: "Autoimmune Disorder"},
	{ID: "coeliac", Label: "Coeliac disease", Category: "Autoimmune Disorder"},
	{ID: "asthma", Label: "Asthma", Category: "Asthma"},
	{ID: "eczema", Label: "Eczema"},
	// Mental health
	{ID: "mental-health", Label: "Mental health condition", Category: "Mental Health", FollowUps: []FollowUpType{FollowUpSubtype},
		Subtypes: []string{"Depression", "Anxiety", "Bipolar", "PTSD", "ADHD", "Other"}},
	{ID: "depression", Label: "Depression", Category: "Mental Health"},
	{ID: "anxiety", Label: "Anxiety disorder", Category: "Mental Health"},
	{ID: "bipolar", Label: "Bipolar disorder", Category: "Mental Health"},
	{ID: "adhd", Label: "ADHD", Category: "Mental Health"},
	// Neurological
	{ID: "alzheimers", Label: "Alzheimer's / dementia", Category: "Alzheimer's", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis}},
	{ID: "epilepsy", Label: "Epilepsy"},
	{ID: "migraine", Label: "Migraine"},
	// Kidney & liver
	{ID: "kidney-disease", Label: "Kidney disease", Category: "Kidney Disease"},
	{ID: "liver-disease", Label: "Liver disease"},
	// Gynaecological / reproductive
	{ID: "menopause", Label: "Menopause", FollowUps: []FollowUpType{FollowUpAgeAtDiagnosis, FollowUpNotes}},
	{ID: "endometriosis", Label: "Endometriosis"},
	{ID: "fibroids", Label: "Fibroids"},
	{ID: "irregular-periods", Label: "Irregular or heavy periods"},
	{ID: "infertility", Label: "Fertility issues / infertility"},
	// Other
	{ID: "osteoporosis", Label: "Osteoporosis"},
	{ID: "arthritis", Label: "Arthritis (osteo or other)"},
	{ID: "chronic-pain", Label: "Chronic pain"},
	{ID: "obesity", Label: "Obesity / weight-related"},
	{ID: "eating-disorder", Label: "Eating disorder"},
	{ID: "other", Label: "Other", FollowUps: []FollowUpType{FollowUpNotes}},
}

// RecommendationCategories are the category keys the recommendation rules use.
var RecommendationCategories = []string{
	"Heart Disease",
	"Hypertension",
	"Diabetes",
	"Cancer",
	"Autoimmune Disorder",
	"Mental Health",
	"Stroke",
	"Alzheimer's",
	"Asthma",
	"Kidney Disease",
	"Anaemia",
}

// Lookup finds a catalog entry by id first, then by label.
func Lookup(key string) (ConditionOption, bool) {
	for _, c := range All {
		if c.ID == key {
			return c, true
		}
	}
	for _, c := range All {
		if c.Label == key {
			return c, true
		}
	}
	return ConditionOption{}, false
}

// CategoryFor maps a stored condition id or label to the category used for
// recommendation matching. A key that is itself a category name maps to that
// category; a catalog entry without a category matches under the key itself.
// Historical free-text values that predate the catalog report no match.
func CategoryFor(key string) (string, bool) {
	for _, c := range All {
		if c.ID == key || c.Label == key || (c.Category != "" && c.Category == key) {
			if c.Category != "" {
				return c.Category, true
			}
			return key, true
		}
	}
	return "", false
}

// LabelFor returns the display label for a stored condition id or label.
// Unknown values are echoed back unchanged so legacy data still renders.
func LabelFor(key string) string {
	if c, ok := Lookup(key); ok {
		return c.Label
	}
	return key
}

// ToDisplayList turns structured detail records plus the legacy flat list into
// display strings. Detail records take precedence when any exist; order follows
// input order and nothing is deduplicated.
func ToDisplayList(details []ConditionDetail, fallback []string) []string {
	if len(details) == 0 {
		return fallback
	}
	out := make([]string, 0, len(details))
	for _, d := range details {
		if d.Subtype != "" {
			out = append(out, fmt.Sprintf("%s (%s)", d.Label, d.Subtype))
		} else {
			out = append(out, d.Label)
		}
	}
	return out
}
