package domain

import "time"

// BugType differentiates bug reports from feature requests.
type BugType string

const (
	BugTypeBug     BugType = "bug"
	BugTypeFeature BugType = "feature"
)

// Valid reports whether the type is known.
func (t BugType) Valid() bool {
	return t == BugTypeBug || t == BugTypeFeature
}

// BugStatus enumerates lifecycle values. The server validates against the
// union of both type domains; the UI limits choices per type.
type BugStatus string

const (
	BugStatusNew       BugStatus = "new"
	BugStatusStarted   BugStatus = "started"
	BugStatusResolved  BugStatus = "resolved"
	BugStatusCompleted BugStatus = "completed"
)

// Valid reports whether the status is a known value.
func (s BugStatus) Valid() bool {
	switch s {
	case BugStatusNew, BugStatusStarted, BugStatusResolved, BugStatusCompleted:
		return true
	}
	return false
}

// Bug is the aggregate for tracked work items. AssignedTo must always be a
// member of the project's developer set.
type Bug struct {
	ID          string
	Title       string
	Type        BugType
	Status      BugStatus
	Description string
	Deadline    *time.Time
	ProjectID   string
	CreatedBy   string
	AssignedTo  string
	Screenshot  *ImageBlob
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
