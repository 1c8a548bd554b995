package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

func userWithRole(id string, role domain.Role) *domain.User {
	return &domain.User{ID: id, Role: role}
}

func TestCanManageRole(t *testing.T) {
	cases := []struct {
		actor  domain.Role
		target domain.Role
		want   bool
	}{
		{domain.RoleAdmin, domain.RoleAdmin, false},
		{domain.RoleAdmin, domain.RoleManager, true},
		{domain.RoleAdmin, domain.RoleQA, true},
		{domain.RoleAdmin, domain.RoleDeveloper, true},
		{domain.RoleManager, domain.RoleAdmin, false},
		{domain.RoleManager, domain.RoleManager, false},
		{domain.RoleManager, domain.RoleQA, true},
		{domain.RoleManager, domain.RoleDeveloper, true},
		{domain.RoleQA, domain.RoleAdmin, false},
		{domain.RoleQA, domain.RoleManager, false},
		{domain.RoleQA, domain.RoleQA, false},
		{domain.RoleQA, domain.RoleDeveloper, false},
		{domain.RoleDeveloper, domain.RoleAdmin, false},
		{domain.RoleDeveloper, domain.RoleManager, false},
		{domain.RoleDeveloper, domain.RoleQA, false},
		{domain.RoleDeveloper, domain.RoleDeveloper, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanManageRole(tc.actor, tc.target),
			"%s managing %s", tc.actor, tc.target)
	}
}

func TestCanManageRoleUnknownRoles(t *testing.T) {
	assert.False(t, CanManageRole(domain.Role("intern"), domain.RoleDeveloper))
	assert.False(t, CanManageRole(domain.RoleAdmin, domain.Role("intern")))
}

func TestProjectAccess(t *testing.T) {
	project := &domain.Project{
		ID:                 "p1",
		QAAssigned:         []string{"q1"},
		DevelopersAssigned: []string{"d1"},
	}

	assert.True(t, ProjectAccess(userWithRole("a1", domain.RoleAdmin), project))
	assert.True(t, ProjectAccess(userWithRole("m1", domain.RoleManager), project))
	assert.True(t, ProjectAccess(userWithRole("q1", domain.RoleQA), project))
	assert.False(t, ProjectAccess(userWithRole("q2", domain.RoleQA), project))
	assert.True(t, ProjectAccess(userWithRole("d1", domain.RoleDeveloper), project))
	assert.False(t, ProjectAccess(userWithRole("d2", domain.RoleDeveloper), project))

	// qa membership does not grant developer-style access and vice versa
	assert.False(t, ProjectAccess(userWithRole("d1", domain.RoleQA), project))
	assert.False(t, ProjectAccess(userWithRole("q1", domain.RoleDeveloper), project))

	assert.False(t, ProjectAccess(nil, project))
	assert.False(t, ProjectAccess(userWithRole("a1", domain.RoleAdmin), nil))
}

func TestProjectGates(t *testing.T) {
	assert.NoError(t, CanCreateProject(userWithRole("a1", domain.RoleAdmin)))
	assert.NoError(t, CanCreateProject(userWithRole("m1", domain.RoleManager)))
	assert.Error(t, CanCreateProject(userWithRole("q1", domain.RoleQA)))
	assert.Error(t, CanCreateProject(userWithRole("d1", domain.RoleDeveloper)))

	assert.NoError(t, CanListAllProjects(userWithRole("m1", domain.RoleManager)))
	assert.Error(t, CanListAllProjects(userWithRole("q1", domain.RoleQA)))

	assert.NoError(t, CanListAssignedProjects(userWithRole("q1", domain.RoleQA)))
	assert.NoError(t, CanListAssignedProjects(userWithRole("d1", domain.RoleDeveloper)))
	assert.Error(t, CanListAssignedProjects(userWithRole("a1", domain.RoleAdmin)))
}

func TestCanCreateBug(t *testing.T) {
	project := &domain.Project{ID: "p1", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1"}}

	assert.NoError(t, CanCreateBug(userWithRole("a1", domain.RoleAdmin), project))
	assert.NoError(t, CanCreateBug(userWithRole("q1", domain.RoleQA), project))
	assert.Error(t, CanCreateBug(userWithRole("q2", domain.RoleQA), project))

	// developers cannot file bugs even on their own project
	assert.Error(t, CanCreateBug(userWithRole("d1", domain.RoleDeveloper), project))
}

func TestCanReadBug(t *testing.T) {
	project := &domain.Project{ID: "p1", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1", "d2"}}
	bug := &domain.Bug{ID: "b1", ProjectID: "p1", AssignedTo: "d1"}

	assert.NoError(t, CanReadBug(userWithRole("a1", domain.RoleAdmin), bug, project))
	assert.NoError(t, CanReadBug(userWithRole("q1", domain.RoleQA), bug, project))
	assert.NoError(t, CanReadBug(userWithRole("d1", domain.RoleDeveloper), bug, project))
	assert.Error(t, CanReadBug(userWithRole("d2", domain.RoleDeveloper), bug, project))
	assert.Error(t, CanReadBug(userWithRole("q2", domain.RoleQA), bug, project))
}

func TestCanUpdateBug(t *testing.T) {
	project := &domain.Project{ID: "p1", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1", "d2"}}
	bug := &domain.Bug{ID: "b1", ProjectID: "p1", AssignedTo: "d1"}

	assert.NoError(t, CanUpdateBug(userWithRole("a1", domain.RoleAdmin), bug, project))
	assert.NoError(t, CanUpdateBug(userWithRole("m1", domain.RoleManager), bug, project))
	assert.NoError(t, CanUpdateBug(userWithRole("q1", domain.RoleQA), bug, project))
	assert.Error(t, CanUpdateBug(userWithRole("q2", domain.RoleQA), bug, project))
	assert.NoError(t, CanUpdateBug(userWithRole("d1", domain.RoleDeveloper), bug, project))
	assert.Error(t, CanUpdateBug(userWithRole("d2", domain.RoleDeveloper), bug, project))
}

func TestCanTouchBugFields(t *testing.T) {
	dev := userWithRole("d1", domain.RoleDeveloper)

	assert.NoError(t, CanTouchBugFields(dev, []string{"status"}))
	assert.NoError(t, CanTouchBugFields(dev, []string{"status", "description"}))
	assert.NoError(t, CanTouchBugFields(dev, nil))

	// naming a forbidden field fails the whole update
	assert.Error(t, CanTouchBugFields(dev, []string{"title"}))
	assert.Error(t, CanTouchBugFields(dev, []string{"status", "assignedTo"}))
	assert.Error(t, CanTouchBugFields(dev, []string{"deadline"}))

	assert.NoError(t, CanTouchBugFields(userWithRole("q1", domain.RoleQA), []string{"title", "assignedTo"}))
	assert.NoError(t, CanTouchBugFields(userWithRole("a1", domain.RoleAdmin), []string{"title"}))
}

func TestCanDeleteBug(t *testing.T) {
	project := &domain.Project{ID: "p1", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1"}}

	assert.NoError(t, CanDeleteBug(userWithRole("a1", domain.RoleAdmin), project))
	assert.NoError(t, CanDeleteBug(userWithRole("q1", domain.RoleQA), project))
	assert.Error(t, CanDeleteBug(userWithRole("q2", domain.RoleQA), project))
	assert.Error(t, CanDeleteBug(userWithRole("d1", domain.RoleDeveloper), project))
}

func TestCanCreateUser(t *testing.T) {
	assert.NoError(t, CanCreateUser(userWithRole("a1", domain.RoleAdmin), domain.RoleManager))
	assert.Error(t, CanCreateUser(userWithRole("a1", domain.RoleAdmin), domain.RoleAdmin))
	assert.NoError(t, CanCreateUser(userWithRole("m1", domain.RoleManager), domain.RoleDeveloper))
	assert.Error(t, CanCreateUser(userWithRole("m1", domain.RoleManager), domain.RoleManager))
	assert.Error(t, CanCreateUser(userWithRole("q1", domain.RoleQA), domain.RoleDeveloper))
}

func TestCanUpdateUserRoleChange(t *testing.T) {
	manager := userWithRole("m1", domain.RoleManager)
	dev := userWithRole("d1", domain.RoleDeveloper)

	assert.NoError(t, CanUpdateUser(manager, dev, nil))

	qa := domain.RoleQA
	assert.NoError(t, CanUpdateUser(manager, dev, &qa))

	// promoting to a role the actor cannot manage is rejected
	managerRole := domain.RoleManager
	assert.Error(t, CanUpdateUser(manager, dev, &managerRole))

	admin := userWithRole("a1", domain.RoleAdmin)
	assert.NoError(t, CanUpdateUser(admin, dev, &managerRole))

	// managers cannot touch other managers at all
	otherManager := userWithRole("m2", domain.RoleManager)
	assert.Error(t, CanUpdateUser(manager, otherManager, nil))
}

func TestCanReadUser(t *testing.T) {
	dev := userWithRole("d1", domain.RoleDeveloper)
	qaTarget := userWithRole("q2", domain.RoleQA)

	assert.NoError(t, CanReadUser(userWithRole("a1", domain.RoleAdmin), qaTarget))
	assert.NoError(t, CanReadUser(userWithRole("q1", domain.RoleQA), dev))
	assert.Error(t, CanReadUser(userWithRole("q1", domain.RoleQA), qaTarget))
	assert.Error(t, CanReadUser(dev, dev))
}

func TestUserListRoleFilter(t *testing.T) {
	manager := domain.RoleManager
	developer := domain.RoleDeveloper

	// qa is always forced onto developers, even when asking for more
	filter, err := UserListRoleFilter(userWithRole("q1", domain.RoleQA), &manager)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, domain.RoleDeveloper, *filter)

	filter, err = UserListRoleFilter(userWithRole("a1", domain.RoleAdmin), nil)
	require.NoError(t, err)
	assert.Nil(t, filter)

	filter, err = UserListRoleFilter(userWithRole("m1", domain.RoleManager), &developer)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, domain.RoleDeveloper, *filter)

	_, err = UserListRoleFilter(userWithRole("m1", domain.RoleManager), &manager)
	assert.Error(t, err)

	_, err = UserListRoleFilter(userWithRole("d1", domain.RoleDeveloper), nil)
	assert.Error(t, err)
}
