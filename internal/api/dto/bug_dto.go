package dto

import (
	"time"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// CreateBugRequest payload. AssignedTo is optional and defaults to the
// project's first developer.
type CreateBugRequest struct {
	Title       string           `json:"title" form:"title"`
	Type        domain.BugType   `json:"type" form:"type"`
	Status      domain.BugStatus `json:"status" form:"status"`
	Description string           `json:"description" form:"description"`
	Deadline    string           `json:"deadline" form:"deadline"`
	ProjectID   string           `json:"project_id" form:"project_id"`
	AssignedTo  string           `json:"assigned_to" form:"assigned_to"`
}

// UpdateBugRequest payload for partial updates. Deadline accepts RFC3339 or
// an explicit empty string to clear it.
type UpdateBugRequest struct {
	Title       *string           `json:"title"`
	Type        *domain.BugType   `json:"type"`
	Status      *domain.BugStatus `json:"status"`
	Description *string           `json:"description"`
	Deadline    *string           `json:"deadline"`
	AssignedTo  *string           `json:"assigned_to"`
}

// UpdateBugStatusRequest payload for the status-only endpoint.
type UpdateBugStatusRequest struct {
	Status domain.BugStatus `json:"status"`
}

// BugResponse is the public view of a bug.
type BugResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Type          domain.BugType   `json:"type"`
	Status        domain.BugStatus `json:"status"`
	Description   string           `json:"description"`
	Deadline      *time.Time       `json:"deadline,omitempty"`
	ProjectID     string           `json:"project_id"`
	CreatedBy     string           `json:"created_by"`
	AssignedTo    string           `json:"assigned_to"`
	HasScreenshot bool             `json:"has_screenshot"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewBugResponse maps a domain bug.
func NewBugResponse(bug *domain.Bug) BugResponse {
	return BugResponse{
		ID:            bug.ID,
		Title:         bug.Title,
		Type:          bug.Type,
		Status:        bug.Status,
		Description:   bug.Description,
		Deadline:      bug.Deadline,
		ProjectID:     bug.ProjectID,
		CreatedBy:     bug.CreatedBy,
		AssignedTo:    bug.AssignedTo,
		HasScreenshot: bug.Screenshot != nil,
		CreatedAt:     bug.CreatedAt,
		UpdatedAt:     bug.UpdatedAt,
	}
}

// NewBugResponses maps a slice of domain bugs.
func NewBugResponses(bugs []domain.Bug) []BugResponse {
	result := make([]BugResponse, 0, len(bugs))
	for i := range bugs {
		result = append(result, NewBugResponse(&bugs[i]))
	}
	return result
}
