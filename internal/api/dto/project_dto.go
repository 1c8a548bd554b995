package dto

import (
	"time"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// CreateProjectRequest payload.
type CreateProjectRequest struct {
	Name               string   `json:"name" form:"name"`
	Description        string   `json:"description" form:"description"`
	QAAssigned         []string `json:"qa_assigned"`
	DevelopersAssigned []string `json:"developers_assigned"`
}

// UpdateProjectRequest payload for partial updates. A present empty
// description clears it; a present member set replaces the whole set.
type UpdateProjectRequest struct {
	Name               *string   `json:"name"`
	Description        *string   `json:"description"`
	QAAssigned         *[]string `json:"qa_assigned"`
	DevelopersAssigned *[]string `json:"developers_assigned"`
}

// AssignMembersRequest payload for the dedicated assignment endpoints.
type AssignMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// ProjectResponse is the public view of a project.
type ProjectResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	CreatedBy          string    `json:"created_by"`
	QAAssigned         []string  `json:"qa_assigned"`
	DevelopersAssigned []string  `json:"developers_assigned"`
	HasPicture         bool      `json:"has_picture"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:                 project.ID,
		Name:               project.Name,
		Description:        project.Description,
		CreatedBy:          project.CreatedBy,
		QAAssigned:         project.QAAssigned,
		DevelopersAssigned: project.DevelopersAssigned,
		HasPicture:         project.Picture != nil,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}
}

// NewProjectResponses maps a slice of domain projects.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	result := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, NewProjectResponse(&projects[i]))
	}
	return result
}
