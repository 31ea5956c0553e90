// Package results stores test results: manual entries typed in by the user,
// uploaded report files, and lab results imported from connected clinics.
package results

import (
	"time"

	"github.com/lineage-health/platform/internal/shared/types"
)

// ResultType distinguishes how a result entered the system
type ResultType string

const (
	ResultTypeManual   ResultType = "manual"
	ResultTypePDF      ResultType = "pdf"
	ResultTypeImported ResultType = "imported"
)

// Valid reports whether the type is one of the known values
func (t ResultType) Valid() bool {
	switch t {
	case ResultTypeManual, ResultTypePDF, ResultTypeImported:
		return true
	}
	return false
}

// Result is one stored test result. Manual and imported results carry their
// text in Content; uploaded results carry file metadata instead.
type Result struct {
	ID             types.ID   `json:"id"`
	UserID         types.ID   `json:"user_id"`
	FamilyMemberID *types.ID  `json:"family_member_id,omitempty"`
	Type           ResultType `json:"type"`
	Content        *string    `json:"content,omitempty"`
	FilePath       *string    `json:"-"`
	FileHash       *string    `json:"file_hash,omitempty"`
	FileSize       *int64     `json:"file_size,omitempty"`
	MimeType       *string    `json:"mime_type,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateResultRequest creates a manual result entry
type CreateResultRequest struct {
	FamilyMemberID *types.ID `json:"family_member_id,omitempty"`
	Content        string    `json:"content"`
}

// ListFilter narrows a result listing
type ListFilter struct {
	Type           *ResultType
	FamilyMemberID *types.ID
}
