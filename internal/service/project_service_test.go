package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

func newProjectServiceForTest(users *fakeUserRepo, projects *fakeProjectRepo, bugs *fakeBugRepo) *ProjectService {
	return NewProjectService(ProjectDependencies{
		ProjectRepo: projects,
		BugRepo:     bugs,
		UserRepo:    users,
	})
}

func staffedUserRepo() *fakeUserRepo {
	return newFakeUserRepo(
		domain.User{ID: "q1", Role: domain.RoleQA},
		domain.User{ID: "q2", Role: domain.RoleQA},
		domain.User{ID: "d1", Role: domain.RoleDeveloper},
		domain.User{ID: "d2", Role: domain.RoleDeveloper},
	)
}

func TestCreateProject(t *testing.T) {
	svc := newProjectServiceForTest(staffedUserRepo(), newFakeProjectRepo(), newFakeBugRepo())
	manager := testActor("m1", domain.RoleManager)

	project, err := svc.CreateProject(context.Background(), manager, ProjectCreateInput{
		Name:               "payments",
		QAAssigned:         []string{"q1"},
		DevelopersAssigned: []string{"d1", "d2"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "m1", project.CreatedBy)
	assert.Equal(t, []string{"d1", "d2"}, project.DevelopersAssigned)
}

func TestCreateProjectForbiddenRoles(t *testing.T) {
	svc := newProjectServiceForTest(staffedUserRepo(), newFakeProjectRepo(), newFakeBugRepo())

	_, err := svc.CreateProject(context.Background(), testActor("q1", domain.RoleQA), ProjectCreateInput{Name: "x"})
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.CreateProject(context.Background(), testActor("d1", domain.RoleDeveloper), ProjectCreateInput{Name: "x"})
	requireCode(t, err, "FORBIDDEN")
}

func TestCreateProjectQAFirstRule(t *testing.T) {
	svc := newProjectServiceForTest(staffedUserRepo(), newFakeProjectRepo(), newFakeBugRepo())
	admin := testActor("a1", domain.RoleAdmin)

	_, err := svc.CreateProject(context.Background(), admin, ProjectCreateInput{
		Name:               "payments",
		DevelopersAssigned: []string{"d1"},
	})
	requireCode(t, err, "VALIDATION_FAILED")

	// developers without QA is the only illegal combination
	_, err = svc.CreateProject(context.Background(), admin, ProjectCreateInput{
		Name:       "payments",
		QAAssigned: []string{"q1"},
	})
	require.NoError(t, err)
}

func TestCreateProjectMemberRoleMismatch(t *testing.T) {
	svc := newProjectServiceForTest(staffedUserRepo(), newFakeProjectRepo(), newFakeBugRepo())
	admin := testActor("a1", domain.RoleAdmin)

	_, err := svc.CreateProject(context.Background(), admin, ProjectCreateInput{
		Name:       "payments",
		QAAssigned: []string{"d1"},
	})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.CreateProject(context.Background(), admin, ProjectCreateInput{
		Name:               "payments",
		QAAssigned:         []string{"q1"},
		DevelopersAssigned: []string{"q2"},
	})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateProjectEffectiveSets(t *testing.T) {
	projects := newFakeProjectRepo(domain.Project{
		ID:                 "p1",
		Name:               "payments",
		QAAssigned:         []string{"q1"},
		DevelopersAssigned: []string{"d1"},
	})
	svc := newProjectServiceForTest(staffedUserRepo(), projects, newFakeBugRepo())
	admin := testActor("a1", domain.RoleAdmin)

	// emptying the QA set while developers remain violates QA-first
	empty := []string{}
	_, err := svc.UpdateProject(context.Background(), admin, "p1", ProjectUpdateInput{
		QAAssigned: &empty,
	})
	requireCode(t, err, "VALIDATION_FAILED")

	// emptying both is fine
	_, err = svc.UpdateProject(context.Background(), admin, "p1", ProjectUpdateInput{
		QAAssigned:         &empty,
		DevelopersAssigned: &empty,
	})
	require.NoError(t, err)

	stored, err := projects.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, stored.QAAssigned)
	assert.Empty(t, stored.DevelopersAssigned)
}

func TestUpdateProjectPartialFields(t *testing.T) {
	projects := newFakeProjectRepo(domain.Project{
		ID:          "p1",
		Name:        "payments",
		Description: "legacy billing",
		QAAssigned:  []string{"q1"},
	})
	svc := newProjectServiceForTest(staffedUserRepo(), projects, newFakeBugRepo())
	admin := testActor("a1", domain.RoleAdmin)

	blank := ""
	cleared := ""
	newName := "billing"
	project, err := svc.UpdateProject(context.Background(), admin, "p1", ProjectUpdateInput{
		Name:        &newName,
		Description: &cleared,
	})
	require.NoError(t, err)
	assert.Equal(t, "billing", project.Name)
	assert.Equal(t, "", project.Description)

	// blank name is ignored, not applied
	project, err = svc.UpdateProject(context.Background(), admin, "p1", ProjectUpdateInput{Name: &blank})
	require.NoError(t, err)
	assert.Equal(t, "billing", project.Name)
}

func TestAssignQA(t *testing.T) {
	projects := newFakeProjectRepo(domain.Project{
		ID:                 "p1",
		QAAssigned:         []string{"q1"},
		DevelopersAssigned: []string{"d1"},
	})
	svc := newProjectServiceForTest(staffedUserRepo(), projects, newFakeBugRepo())
	admin := testActor("a1", domain.RoleAdmin)

	project, err := svc.AssignQA(context.Background(), admin, "p1", []string{"q2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"q2"}, project.QAAssigned)

	// cannot clear QA while developers remain assigned
	_, err = svc.AssignQA(context.Background(), admin, "p1", []string{})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestAssignDevelopersRequiresQA(t *testing.T) {
	projects := newFakeProjectRepo(
		domain.Project{ID: "staffed", QAAssigned: []string{"q1"}},
		domain.Project{ID: "unstaffed"},
	)
	svc := newProjectServiceForTest(staffedUserRepo(), projects, newFakeBugRepo())
	admin := testActor("a1", domain.RoleAdmin)

	project, err := svc.AssignDevelopers(context.Background(), admin, "staffed", []string{"d1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, project.DevelopersAssigned)

	_, err = svc.AssignDevelopers(context.Background(), admin, "unstaffed", []string{"d1"})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestListAssignedProjects(t *testing.T) {
	projects := newFakeProjectRepo(
		domain.Project{ID: "p1", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1"}},
		domain.Project{ID: "p2", QAAssigned: []string{"q2"}, DevelopersAssigned: []string{"d1"}},
	)
	svc := newProjectServiceForTest(staffedUserRepo(), projects, newFakeBugRepo())

	mine, err := svc.ListAssignedProjects(context.Background(), testActor("q1", domain.RoleQA))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "p1", mine[0].ID)

	mine, err = svc.ListAssignedProjects(context.Background(), testActor("d1", domain.RoleDeveloper))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.ListAssignedProjects(context.Background(), testActor("a1", domain.RoleAdmin))
	requireCode(t, err, "FORBIDDEN")
}

func TestDeleteProjectCascadesBugs(t *testing.T) {
	projects := newFakeProjectRepo(
		domain.Project{ID: "p1", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1"}},
		domain.Project{ID: "p2", QAAssigned: []string{"q1"}, DevelopersAssigned: []string{"d1"}},
	)
	bugs := newFakeBugRepo(
		domain.Bug{ID: "b1", ProjectID: "p1", AssignedTo: "d1"},
		domain.Bug{ID: "b2", ProjectID: "p1", AssignedTo: "d1"},
		domain.Bug{ID: "b3", ProjectID: "p2", AssignedTo: "d1"},
	)
	svc := newProjectServiceForTest(staffedUserRepo(), projects, bugs)

	err := svc.DeleteProject(context.Background(), testActor("a1", domain.RoleAdmin), "p1")
	require.NoError(t, err)

	_, err = projects.GetByID(context.Background(), "p1")
	assert.Error(t, err)
	_, err = bugs.GetByID(context.Background(), "b1")
	assert.Error(t, err)
	_, err = bugs.GetByID(context.Background(), "b2")
	assert.Error(t, err)

	// the sibling project's bugs survive
	_, err = bugs.GetByID(context.Background(), "b3")
	assert.NoError(t, err)
}

func TestDeleteProjectNotFound(t *testing.T) {
	svc := newProjectServiceForTest(staffedUserRepo(), newFakeProjectRepo(), newFakeBugRepo())
	err := svc.DeleteProject(context.Background(), testActor("a1", domain.RoleAdmin), "missing")
	requireCode(t, err, "NOT_FOUND")
}
