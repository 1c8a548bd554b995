package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/repository"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// Assignment invariants. These run strictly before any write; the first
// violation aborts the operation with no partial mutation. Membership
// validation reads user documents one by one, so a role change between check
// and commit is an accepted weak-consistency window.

// ValidateMemberRoles fails unless every id resolves to an existing user
// whose role is exactly the expected one. The offending id is named in the
// error details.
func ValidateMemberRoles(ctx context.Context, users repository.UserRepository, ids []string, expected domain.Role) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperrors.NewValidationError("duplicate member id", map[string]any{"user_id": id})
		}
		seen[id] = true

		user, err := users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("member does not exist", map[string]any{"user_id": id})
			}
			return apperrors.MapError(err)
		}
		if user.Role != expected {
			return apperrors.NewValidationError("member has wrong role", map[string]any{
				"user_id":       id,
				"expected_role": expected,
				"actual_role":   user.Role,
			})
		}
	}
	return nil
}

// CheckQARequired enforces the QA-first staffing rule: the developer set may
// be non-empty only while the QA set is non-empty. Callers pass the effective
// sets (incoming when the field is part of the mutation, current otherwise).
func CheckQARequired(qaAssigned, developersAssigned []string) error {
	if len(developersAssigned) > 0 && len(qaAssigned) == 0 {
		return apperrors.NewValidationError("at least one QA must be assigned before developers", nil)
	}
	return nil
}

// AssigneeInProject fails unless developerID belongs to the project's
// developer set.
func AssigneeInProject(project *domain.Project, developerID string) error {
	if !project.HasDeveloper(developerID) {
		return apperrors.NewValidationError("assignee is not a developer on this project", map[string]any{
			"user_id":    developerID,
			"project_id": project.ID,
		})
	}
	return nil
}

// DefaultAssignee picks the project's first developer for bugs created
// without an explicit assignee. A project with zero developers cannot
// receive bugs.
func DefaultAssignee(project *domain.Project) (string, error) {
	if len(project.DevelopersAssigned) == 0 {
		return "", apperrors.NewValidationError("project has no developers to assign", map[string]any{
			"project_id": project.ID,
		})
	}
	return project.DevelopersAssigned[0], nil
}
