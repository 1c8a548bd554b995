package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bug-tracker/internal/authz"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/events"
	"github.com/spec-kit/bug-tracker/internal/repository"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// BugService coordinates bug workflows: creation, scoped listing, updates
// and deletion, all gated through the access policy and assignment
// invariants.
type BugService struct {
	bugs       repository.BugRepository
	projects   repository.ProjectRepository
	dispatcher events.Dispatcher
}

// BugDependencies bundles repositories for the bug service.
type BugDependencies struct {
	BugRepo     repository.BugRepository
	ProjectRepo repository.ProjectRepository
	Dispatcher  events.Dispatcher
}

// NewBugService constructs the service.
func NewBugService(deps BugDependencies) *BugService {
	return &BugService{
		bugs:       deps.BugRepo,
		projects:   deps.ProjectRepo,
		dispatcher: deps.Dispatcher,
	}
}

// BugCreateInput describes bug creation. AssignedTo defaults to the
// project's first developer when empty.
type BugCreateInput struct {
	Title       string
	Type        domain.BugType
	Status      domain.BugStatus
	Description string
	Deadline    *time.Time
	ProjectID   string
	AssignedTo  string
	Screenshot  *domain.ImageBlob
}

// BugUpdateInput carries a partial update; nil fields keep prior values.
// Description clears on explicit empty; ClearDeadline drops the deadline.
type BugUpdateInput struct {
	Title         *string
	Type          *domain.BugType
	Status        *domain.BugStatus
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	AssignedTo    *string
	Screenshot    *domain.ImageBlob
}

// BugListQuery captures listing filters supplied by the caller; role-based
// scoping is applied on top of it.
type BugListQuery struct {
	ProjectID *string
	Statuses  []domain.BugStatus
	Types     []domain.BugType
	Limit     int
	Offset    int
}

// CreateBug creates a bug or feature in a project the actor can access.
func (s *BugService) CreateBug(ctx context.Context, actor *domain.User, input BugCreateInput) (*domain.Bug, error) {
	project, err := s.fetchProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanCreateBug(actor, project); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("type must be bug or feature", map[string]any{"type": input.Type})
	}
	if input.Status == "" {
		input.Status = domain.BugStatusNew
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.Status})
	}
	if err := ValidateImage(input.Screenshot); err != nil {
		return nil, err
	}

	assignee := input.AssignedTo
	if assignee == "" {
		assignee, err = DefaultAssignee(project)
		if err != nil {
			return nil, err
		}
	} else if err := AssigneeInProject(project, assignee); err != nil {
		return nil, err
	}

	bug := &domain.Bug{
		Title:       input.Title,
		Type:        input.Type,
		Status:      input.Status,
		Description: input.Description,
		Deadline:    input.Deadline,
		ProjectID:   project.ID,
		CreatedBy:   actor.ID,
		AssignedTo:  assignee,
		Screenshot:  input.Screenshot,
	}
	if err := s.bugs.Create(ctx, bug); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor.ID, events.EventBugCreated, events.BugCreatedPayload{
		BugID:      bug.ID,
		ProjectID:  bug.ProjectID,
		Type:       bug.Type,
		Title:      bug.Title,
		AssignedTo: bug.AssignedTo,
	})
	return bug, nil
}

// ListBugs returns bugs within the actor's scope. An explicit projectId
// filter is applied before the role filter: developers still only see their
// own assignments, qa only bugs of projects they test.
func (s *BugService) ListBugs(ctx context.Context, actor *domain.User, query BugListQuery) ([]domain.Bug, error) {
	filter := repository.BugFilter{
		ProjectID: query.ProjectID,
		Statuses:  query.Statuses,
		Types:     query.Types,
		Limit:     query.Limit,
		Offset:    query.Offset,
	}

	switch actor.Role {
	case domain.RoleAdmin, domain.RoleManager:
		// unrestricted
	case domain.RoleDeveloper:
		assignee := actor.ID
		filter.AssignedTo = &assignee
	case domain.RoleQA:
		memberProjects, err := s.projects.ListByMember(ctx, domain.RoleQA, actor.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		memberIDs := make([]string, 0, len(memberProjects))
		for _, project := range memberProjects {
			memberIDs = append(memberIDs, project.ID)
		}
		if filter.ProjectID != nil {
			if !containsString(memberIDs, *filter.ProjectID) {
				return []domain.Bug{}, nil
			}
		} else {
			filter.ProjectIDs = memberIDs
		}
	default:
		return nil, apperrors.NewForbidden("insufficient role")
	}

	bugs, err := s.bugs.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return bugs, nil
}

// GetBug fetches a single bug within the actor's scope.
func (s *BugService) GetBug(ctx context.Context, actor *domain.User, id string) (*domain.Bug, error) {
	bug, project, err := s.fetchBugWithProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReadBug(actor, bug, project); err != nil {
		return nil, err
	}
	return bug, nil
}

// UpdateBug applies a partial update. Naming a field outside the developer
// allowlist is a denial, even when the rest of the payload is valid.
func (s *BugService) UpdateBug(ctx context.Context, actor *domain.User, id string, input BugUpdateInput) (*domain.Bug, error) {
	bug, project, err := s.fetchBugWithProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanUpdateBug(actor, bug, project); err != nil {
		return nil, err
	}
	if err := authz.CanTouchBugFields(actor, touchedBugFields(input)); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, apperrors.NewValidationError("type must be bug or feature", map[string]any{"type": *input.Type})
	}
	if err := ValidateImage(input.Screenshot); err != nil {
		return nil, err
	}
	if input.AssignedTo != nil {
		if err := AssigneeInProject(project, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	oldStatus := bug.Status
	oldAssignee := bug.AssignedTo

	if input.Title != nil && *input.Title != "" {
		bug.Title = *input.Title
	}
	if input.Type != nil {
		bug.Type = *input.Type
	}
	if input.Status != nil {
		bug.Status = *input.Status
	}
	if input.Description != nil {
		bug.Description = *input.Description
	}
	if input.ClearDeadline {
		bug.Deadline = nil
	} else if input.Deadline != nil {
		bug.Deadline = input.Deadline
	}
	if input.AssignedTo != nil {
		bug.AssignedTo = *input.AssignedTo
	}
	if input.Screenshot != nil {
		bug.Screenshot = input.Screenshot
	}

	if err := s.bugs.Update(ctx, bug); err != nil {
		return nil, apperrors.MapError(err)
	}

	if bug.Status != oldStatus {
		s.publish(ctx, actor.ID, events.EventBugStatusChanged, events.BugStatusChangedPayload{
			BugID:     bug.ID,
			OldStatus: oldStatus,
			NewStatus: bug.Status,
		})
	}
	if bug.AssignedTo != oldAssignee {
		s.publish(ctx, actor.ID, events.EventBugAssigned, events.BugAssignedPayload{
			BugID:       bug.ID,
			OldAssignee: oldAssignee,
			NewAssignee: bug.AssignedTo,
		})
	}
	return bug, nil
}

// UpdateStatus sets only the status, under the same project/assignment
// restriction as a full update but without the field allowlist.
func (s *BugService) UpdateStatus(ctx context.Context, actor *domain.User, id string, status domain.BugStatus) (*domain.Bug, error) {
	bug, project, err := s.fetchBugWithProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanUpdateBug(actor, bug, project); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	oldStatus := bug.Status
	bug.Status = status
	if err := s.bugs.Update(ctx, bug); err != nil {
		return nil, apperrors.MapError(err)
	}
	if bug.Status != oldStatus {
		s.publish(ctx, actor.ID, events.EventBugStatusChanged, events.BugStatusChangedPayload{
			BugID:     bug.ID,
			OldStatus: oldStatus,
			NewStatus: bug.Status,
		})
	}
	return bug, nil
}

// DeleteBug removes a bug within the actor's scope.
func (s *BugService) DeleteBug(ctx context.Context, actor *domain.User, id string) error {
	bug, project, err := s.fetchBugWithProject(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteBug(actor, project); err != nil {
		return err
	}
	if err := s.bugs.Delete(ctx, bug.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actor.ID, events.EventBugDeleted, events.BugDeletedPayload{
		BugID:     bug.ID,
		ProjectID: bug.ProjectID,
	})
	return nil
}

// touchedBugFields names the fields a partial update attempts to set, for
// the developer allowlist check.
func touchedBugFields(input BugUpdateInput) []string {
	fields := []string{}
	if input.Title != nil {
		fields = append(fields, "title")
	}
	if input.Type != nil {
		fields = append(fields, "type")
	}
	if input.Status != nil {
		fields = append(fields, "status")
	}
	if input.Description != nil {
		fields = append(fields, "description")
	}
	if input.Deadline != nil || input.ClearDeadline {
		fields = append(fields, "deadline")
	}
	if input.AssignedTo != nil {
		fields = append(fields, "assignedTo")
	}
	if input.Screenshot != nil {
		fields = append(fields, "screenshot")
	}
	return fields
}

func (s *BugService) fetchProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

func (s *BugService) fetchBugWithProject(ctx context.Context, id string) (*domain.Bug, *domain.Project, error) {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("bug", map[string]any{"bug_id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	project, err := s.fetchProject(ctx, bug.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return bug, project, nil
}

func (s *BugService) publish(ctx context.Context, actorID string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
