// Package authz centralizes every permission decision so the rule table can
// be audited and tested in isolation instead of being inlined per handler.
package authz

import (
	"github.com/spec-kit/bug-tracker/internal/domain"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// manageTable fixes who may create/edit/delete accounts of which role.
// QA can view developers but never manage them, so the qa row is empty.
var manageTable = map[domain.Role]map[domain.Role]bool{
	domain.RoleAdmin: {
		domain.RoleManager:   true,
		domain.RoleQA:        true,
		domain.RoleDeveloper: true,
	},
	domain.RoleManager: {
		domain.RoleQA:        true,
		domain.RoleDeveloper: true,
	},
	domain.RoleQA:        {},
	domain.RoleDeveloper: {},
}

// CanManageRole reports whether actorRole may administer accounts of
// targetRole. Pure and total over the 4x4 role product; unknown roles
// manage nothing.
func CanManageRole(actorRole, targetRole domain.Role) bool {
	return manageTable[actorRole][targetRole]
}

func isElevated(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager
}

// ProjectAccess is the derived "actor may act on entities of this project"
// boolean: admin/manager always, qa/developer only via assignment membership.
func ProjectAccess(actor *domain.User, project *domain.Project) bool {
	if actor == nil || project == nil {
		return false
	}
	if isElevated(actor.Role) {
		return true
	}
	switch actor.Role {
	case domain.RoleQA:
		return project.HasQA(actor.ID)
	case domain.RoleDeveloper:
		return project.HasDeveloper(actor.ID)
	}
	return false
}

// Project rules.

// CanCreateProject gates project creation.
func CanCreateProject(actor *domain.User) error {
	if !isElevated(actor.Role) {
		return apperrors.NewForbidden("only admin or manager can create projects")
	}
	return nil
}

// CanMutateProject gates project update, delete and member assignment.
func CanMutateProject(actor *domain.User) error {
	if !isElevated(actor.Role) {
		return apperrors.NewForbidden("only admin or manager can modify projects")
	}
	return nil
}

// CanListAllProjects gates the unfiltered project listing.
func CanListAllProjects(actor *domain.User) error {
	if !isElevated(actor.Role) {
		return apperrors.NewForbidden("only admin or manager can list all projects")
	}
	return nil
}

// CanListAssignedProjects gates the "my projects" listing.
func CanListAssignedProjects(actor *domain.User) error {
	if actor.Role != domain.RoleQA && actor.Role != domain.RoleDeveloper {
		return apperrors.NewForbidden("assigned projects listing is for qa and developers")
	}
	return nil
}

// Read-by-id has no ownership check for any authenticated user; the list
// endpoints stay scoped. Kept as observed upstream.

// Bug rules.

// CanCreateBug gates bug creation: developers cannot file bugs, and every
// other role needs project access.
func CanCreateBug(actor *domain.User, project *domain.Project) error {
	if actor.Role == domain.RoleDeveloper {
		return apperrors.NewForbidden("developers cannot create bugs")
	}
	if !ProjectAccess(actor, project) {
		return apperrors.NewForbidden("no access to this project")
	}
	return nil
}

// CanReadBug gates single-bug reads; developers are further restricted to
// bugs assigned to them.
func CanReadBug(actor *domain.User, bug *domain.Bug, project *domain.Project) error {
	if !ProjectAccess(actor, project) {
		return apperrors.NewForbidden("no access to this project")
	}
	if actor.Role == domain.RoleDeveloper && bug.AssignedTo != actor.ID {
		return apperrors.NewForbidden("bug is not assigned to you")
	}
	return nil
}

// CanUpdateBug gates bug updates. The developer field allowlist is enforced
// separately via CanTouchBugFields.
func CanUpdateBug(actor *domain.User, bug *domain.Bug, project *domain.Project) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleManager:
		return nil
	case domain.RoleQA:
		if !project.HasQA(actor.ID) {
			return apperrors.NewForbidden("qa may only update bugs in assigned projects")
		}
		return nil
	case domain.RoleDeveloper:
		if bug.AssignedTo != actor.ID {
			return apperrors.NewForbidden("developers may only update bugs assigned to them")
		}
		return nil
	}
	return apperrors.NewForbidden("insufficient role")
}

// developerEditableBugFields is the allowlist for developer updates.
// Touching anything outside it is a denial, not a silent no-op.
var developerEditableBugFields = map[string]bool{
	"status":      true,
	"description": true,
}

// CanTouchBugFields rejects a developer update that names fields outside the
// allowlist. Other roles are unrestricted.
func CanTouchBugFields(actor *domain.User, fields []string) error {
	if actor.Role != domain.RoleDeveloper {
		return nil
	}
	for _, field := range fields {
		if !developerEditableBugFields[field] {
			return apperrors.NewForbidden("developers may only change status and description")
		}
	}
	return nil
}

// CanDeleteBug gates bug deletion: developers never, qa within assigned
// projects, admin/manager always.
func CanDeleteBug(actor *domain.User, project *domain.Project) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleManager:
		return nil
	case domain.RoleQA:
		if !project.HasQA(actor.ID) {
			return apperrors.NewForbidden("qa may only delete bugs in assigned projects")
		}
		return nil
	}
	return apperrors.NewForbidden("developers cannot delete bugs")
}

// User administration rules.

// CanCreateUser gates account creation for a given role.
func CanCreateUser(actor *domain.User, targetRole domain.Role) error {
	if !isElevated(actor.Role) {
		return apperrors.NewForbidden("only admin or manager can create users")
	}
	if !CanManageRole(actor.Role, targetRole) {
		return apperrors.NewForbidden("cannot create users with this role")
	}
	return nil
}

// CanUpdateUser gates administrative updates of another account. A role
// change requires management rights over both the current and the new role.
func CanUpdateUser(actor *domain.User, target *domain.User, newRole *domain.Role) error {
	if !isElevated(actor.Role) {
		return apperrors.NewForbidden("only admin or manager can update users")
	}
	if !CanManageRole(actor.Role, target.Role) {
		return apperrors.NewForbidden("cannot manage users with this role")
	}
	if newRole != nil && *newRole != target.Role && !CanManageRole(actor.Role, *newRole) {
		return apperrors.NewForbidden("cannot assign this role")
	}
	return nil
}

// CanDeleteUser gates account deletion. Self-deletion is checked in the
// service because it is a validation failure, not a role failure.
func CanDeleteUser(actor *domain.User, target *domain.User) error {
	if !isElevated(actor.Role) {
		return apperrors.NewForbidden("only admin or manager can delete users")
	}
	if !CanManageRole(actor.Role, target.Role) {
		return apperrors.NewForbidden("cannot delete users with this role")
	}
	return nil
}

// CanReadUser gates single-user reads; qa may only look at developers.
func CanReadUser(actor *domain.User, target *domain.User) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleManager:
		return nil
	case domain.RoleQA:
		if target.Role != domain.RoleDeveloper {
			return apperrors.NewForbidden("qa may only view developers")
		}
		return nil
	}
	return apperrors.NewForbidden("insufficient role to view users")
}

// UserListRoleFilter resolves the effective role filter for a user listing:
// qa is forced to developers, a manager asking for an explicit role must be
// allowed to manage it, admin passes through.
func UserListRoleFilter(actor *domain.User, requested *domain.Role) (*domain.Role, error) {
	switch actor.Role {
	case domain.RoleQA:
		developer := domain.RoleDeveloper
		return &developer, nil
	case domain.RoleAdmin:
		return requested, nil
	case domain.RoleManager:
		if requested != nil && !CanManageRole(actor.Role, *requested) {
			return nil, apperrors.NewForbidden("cannot list users with this role")
		}
		return requested, nil
	}
	return nil, apperrors.NewForbidden("insufficient role to list users")
}
