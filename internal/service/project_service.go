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

// ProjectService coordinates project workflows and staffing invariants.
type ProjectService struct {
	projects   repository.ProjectRepository
	bugs       repository.BugRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// ProjectDependencies bundles repositories for the project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	BugRepo     repository.BugRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	return &ProjectService{
		projects:   deps.ProjectRepo,
		bugs:       deps.BugRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ProjectCreateInput describes project creation.
type ProjectCreateInput struct {
	Name               string
	Description        string
	QAAssigned         []string
	DevelopersAssigned []string
	Picture            *domain.ImageBlob
}

// ProjectUpdateInput carries a partial update; nil fields keep prior values.
// Description clears on explicit empty; name is required and blank values
// are ignored.
type ProjectUpdateInput struct {
	Name               *string
	Description        *string
	QAAssigned         *[]string
	DevelopersAssigned *[]string
	Picture            *domain.ImageBlob
}

// CreateProject creates a project after validating member roles and the
// QA-first staffing rule.
func (s *ProjectService) CreateProject(ctx context.Context, actor *domain.User, input ProjectCreateInput) (*domain.Project, error) {
	if err := authz.CanCreateProject(actor); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperrors.NewValidationError("project name required", nil)
	}
	if err := ValidateImage(input.Picture); err != nil {
		return nil, err
	}
	if err := ValidateMemberRoles(ctx, s.users, input.QAAssigned, domain.RoleQA); err != nil {
		return nil, err
	}
	if err := ValidateMemberRoles(ctx, s.users, input.DevelopersAssigned, domain.RoleDeveloper); err != nil {
		return nil, err
	}
	if err := CheckQARequired(input.QAAssigned, input.DevelopersAssigned); err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:               input.Name,
		Description:        input.Description,
		CreatedBy:          actor.ID,
		QAAssigned:         input.QAAssigned,
		DevelopersAssigned: input.DevelopersAssigned,
		Picture:            input.Picture,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// ListProjects returns all projects for admin/manager.
func (s *ProjectService) ListProjects(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Project, error) {
	if err := authz.CanListAllProjects(actor); err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// ListAssignedProjects returns the projects where the actor appears in the
// role-appropriate assignment set.
func (s *ProjectService) ListAssignedProjects(ctx context.Context, actor *domain.User) ([]domain.Project, error) {
	if err := authz.CanListAssignedProjects(actor); err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByMember(ctx, actor.Role, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// GetProject fetches a project by id. Any authenticated user may read a
// project by id; only the list endpoints are scoped.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.fetch(ctx, id)
}

// UpdateProject applies a partial update, revalidating membership invariants
// against the effective (incoming or current) sets.
func (s *ProjectService) UpdateProject(ctx context.Context, actor *domain.User, id string, input ProjectUpdateInput) (*domain.Project, error) {
	if err := authz.CanMutateProject(actor); err != nil {
		return nil, err
	}
	project, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateImage(input.Picture); err != nil {
		return nil, err
	}

	effectiveQA := project.QAAssigned
	if input.QAAssigned != nil {
		if err := ValidateMemberRoles(ctx, s.users, *input.QAAssigned, domain.RoleQA); err != nil {
			return nil, err
		}
		effectiveQA = *input.QAAssigned
	}
	effectiveDevs := project.DevelopersAssigned
	if input.DevelopersAssigned != nil {
		if err := ValidateMemberRoles(ctx, s.users, *input.DevelopersAssigned, domain.RoleDeveloper); err != nil {
			return nil, err
		}
		effectiveDevs = *input.DevelopersAssigned
	}
	if err := CheckQARequired(effectiveQA, effectiveDevs); err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	project.QAAssigned = effectiveQA
	project.DevelopersAssigned = effectiveDevs
	if input.Picture != nil {
		project.Picture = input.Picture
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishMembersChanged(ctx, actor.ID, project)
	return project, nil
}

// AssignQA replaces the project's QA set.
func (s *ProjectService) AssignQA(ctx context.Context, actor *domain.User, id string, qaIDs []string) (*domain.Project, error) {
	if err := authz.CanMutateProject(actor); err != nil {
		return nil, err
	}
	project, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateMemberRoles(ctx, s.users, qaIDs, domain.RoleQA); err != nil {
		return nil, err
	}
	if err := CheckQARequired(qaIDs, project.DevelopersAssigned); err != nil {
		return nil, err
	}

	project.QAAssigned = qaIDs
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishMembersChanged(ctx, actor.ID, project)
	return project, nil
}

// AssignDevelopers replaces the project's developer set. The endpoint takes
// no QA payload, so the QA-first rule consults the current QA set.
func (s *ProjectService) AssignDevelopers(ctx context.Context, actor *domain.User, id string, developerIDs []string) (*domain.Project, error) {
	if err := authz.CanMutateProject(actor); err != nil {
		return nil, err
	}
	project, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateMemberRoles(ctx, s.users, developerIDs, domain.RoleDeveloper); err != nil {
		return nil, err
	}
	if err := CheckQARequired(project.QAAssigned, developerIDs); err != nil {
		return nil, err
	}

	project.DevelopersAssigned = developerIDs
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishMembersChanged(ctx, actor.ID, project)
	return project, nil
}

// DeleteProject removes a project and, synchronously before the project row,
// every bug referencing it.
func (s *ProjectService) DeleteProject(ctx context.Context, actor *domain.User, id string) error {
	if err := authz.CanMutateProject(actor); err != nil {
		return err
	}
	project, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bugs.DeleteByProject(ctx, project.ID); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventProjectDeleted,
			ActorID:   actor.ID,
			Timestamp: time.Now(),
			Payload: events.ProjectDeletedPayload{
				ProjectID: project.ID,
			},
		})
	}
	return nil
}

func (s *ProjectService) publishMembersChanged(ctx context.Context, actorID string, project *domain.Project) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventProjectMembersChanged,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.ProjectMembersChangedPayload{
			ProjectID:          project.ID,
			QAAssigned:         project.QAAssigned,
			DevelopersAssigned: project.DevelopersAssigned,
		},
	})
}

func (s *ProjectService) fetch(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}
