// Package family manages the family members whose recorded conditions feed
// the screening recommendation engine.
package family

import (
	"time"

	"github.com/lineage-health/platform/internal/conditions"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Member is one relative in the user's family history. ConditionList holds
// plain condition labels; ConditionDetails carries the structured form with
// subtypes for members captured after subtype support was added.
type Member struct {
	ID               types.ID                     `json:"id"`
	UserID           types.ID                     `json:"user_id"`
	Relation         string                       `json:"relation"`
	Name             *string                      `json:"name,omitempty"`
	Age              *int                         `json:"age,omitempty"`
	AgeAtDeath       *int                         `json:"age_at_death,omitempty"`
	IsAlive          bool                         `json:"is_alive"`
	ConditionList    []string                     `json:"condition_list"`
	ConditionDetails []conditions.ConditionDetail `json:"condition_details,omitempty"`
	CauseOfDeath     *string                      `json:"cause_of_death,omitempty"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

// CreateMemberRequest is the request to add a family member
type CreateMemberRequest struct {
	Relation         string                       `json:"relation"`
	Name             *string                      `json:"name,omitempty"`
	Age              *int                         `json:"age,omitempty"`
	AgeAtDeath       *int                         `json:"age_at_death,omitempty"`
	IsAlive          *bool                        `json:"is_alive,omitempty"`
	ConditionList    []string                     `json:"condition_list,omitempty"`
	ConditionDetails []conditions.ConditionDetail `json:"condition_details,omitempty"`
	CauseOfDeath     *string                      `json:"cause_of_death,omitempty"`
}

// UpdateMemberRequest is the request to update a family member
type UpdateMemberRequest struct {
	Relation         *string                       `json:"relation,omitempty"`
	Name             *string                       `json:"name,omitempty"`
	Age              *int                          `json:"age,omitempty"`
	AgeAtDeath       *int                          `json:"age_at_death,omitempty"`
	IsAlive          *bool                         `json:"is_alive,omitempty"`
	ConditionList    *[]string                     `json:"condition_list,omitempty"`
	ConditionDetails *[]conditions.ConditionDetail `json:"condition_details,omitempty"`
	CauseOfDeath     *string                       `json:"cause_of_death,omitempty"`
}

// ListFilter narrows a member listing
type ListFilter struct {
	Relation string
}
