package profile

import (
	"time"

	"github.com/lineage-health/platform/internal/shared/types"
)

// Profile is the subject of recommendations and the owner of all records.
type Profile struct {
	ID                  types.ID  `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Age                 *int      `json:"age"`
	Sex                 *string   `json:"sex"`
	Height              *string   `json:"height"`
	Weight              *string   `json:"weight"`
	Lifestyle           *string   `json:"lifestyle"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateProfileRequest is the request to update profile fields
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Sex       *string `json:"sex,omitempty"`
	Height    *string `json:"height,omitempty"`
	Weight    *string `json:"weight,omitempty"`
	Lifestyle *string `json:"lifestyle,omitempty"`
}

// OnboardingRequest completes first-run setup in one action: profile basics,
// the initial set of family members, and the subject's own health history.
type OnboardingRequest struct {
	Age       *int    `json:"age,omitempty"`
	Sex       *string `json:"sex,omitempty"`
	Height    *string `json:"height,omitempty"`
	Weight    *string `json:"weight,omitempty"`
	Lifestyle *string `json:"lifestyle,omitempty"`

	FamilyMembers []OnboardingFamilyMember `json:"family_members,omitempty"`

	CurrentConditions []string `json:"current_conditions,omitempty"`
	Medications       []string `json:"medications,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`
	Surgeries         []string `json:"surgeries,omitempty"`
}

// OnboardingFamilyMember is one relative captured during onboarding.
type OnboardingFamilyMember struct {
	Relation     string   `json:"relation"`
	Name         *string  `json:"name,omitempty"`
	Age          *int     `json:"age,omitempty"`
	AgeAtDeath   *int     `json:"age_at_death,omitempty"`
	IsAlive      bool     `json:"is_alive"`
	Conditions   []string `json:"conditions,omitempty"`
	CauseOfDeath *string  `json:"cause_of_death,omitempty"`
}
