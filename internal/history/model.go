// Package history stores structured health history records: the subject's own
// record plus one optional record per family member. Records are upserted, not
// appended, so each (user, family member) pair has at most one row.
package history

import (
	"time"

	"github.com/lineage-health/platform/internal/conditions"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Record is one health history record. FamilyMemberID is nil for the subject's
// own record. ConditionDetails, when present, are the authoritative condition
// set; CurrentConditions is kept for records created before subtype capture.
type Record struct {
	ID                types.ID                     `json:"id"`
	UserID            types.ID                     `json:"user_id"`
	FamilyMemberID    *types.ID                    `json:"family_member_id,omitempty"`
	CurrentConditions []string                     `json:"current_conditions"`
	ConditionDetails  []conditions.ConditionDetail `json:"condition_details,omitempty"`
	Medications       []string                     `json:"medications"`
	Allergies         []string                     `json:"allergies"`
	Surgeries         []string                     `json:"surgeries"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

// UpsertRequest replaces the full content of one record.
type UpsertRequest struct {
	FamilyMemberID    *types.ID                    `json:"family_member_id,omitempty"`
	CurrentConditions []string                     `json:"current_conditions,omitempty"`
	ConditionDetails  []conditions.ConditionDetail `json:"condition_details,omitempty"`
	Medications       []string                     `json:"medications,omitempty"`
	Allergies         []string                     `json:"allergies,omitempty"`
	Surgeries         []string                     `json:"surgeries,omitempty"`
}
