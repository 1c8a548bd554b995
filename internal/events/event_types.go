package events

import (
	"time"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBugCreated             EventType = "bug_created"
	EventBugStatusChanged       EventType = "bug_status_changed"
	EventBugAssigned            EventType = "bug_assigned"
	EventBugDeleted             EventType = "bug_deleted"
	EventProjectMembersChanged  EventType = "project_members_changed"
	EventProjectDeleted         EventType = "project_deleted"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BugCreatedPayload payload.
type BugCreatedPayload struct {
	BugID      string         `json:"bug_id"`
	ProjectID  string         `json:"project_id"`
	Type       domain.BugType `json:"type"`
	Title      string         `json:"title"`
	AssignedTo string         `json:"assigned_to"`
}

// BugStatusChangedPayload payload.
type BugStatusChangedPayload struct {
	BugID     string           `json:"bug_id"`
	OldStatus domain.BugStatus `json:"old_status"`
	NewStatus domain.BugStatus `json:"new_status"`
}

// BugAssignedPayload payload.
type BugAssignedPayload struct {
	BugID       string `json:"bug_id"`
	OldAssignee string `json:"old_assignee"`
	NewAssignee string `json:"new_assignee"`
}

// BugDeletedPayload payload.
type BugDeletedPayload struct {
	BugID     string `json:"bug_id"`
	ProjectID string `json:"project_id"`
}

// ProjectMembersChangedPayload payload.
type ProjectMembersChangedPayload struct {
	ProjectID          string   `json:"project_id"`
	QAAssigned         []string `json:"qa_assigned"`
	DevelopersAssigned []string `json:"developers_assigned"`
}

// ProjectDeletedPayload payload.
type ProjectDeletedPayload struct {
	ProjectID string `json:"project_id"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
