package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/repository"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

// In-memory repository fakes. They mirror the Postgres implementations'
// contract: pgx.ErrNoRows for missing rows, copies on read so tests cannot
// mutate stored state by accident.

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	result := []domain.User{}
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type fakeProjectRepo struct {
	projects map[string]domain.Project
}

func newFakeProjectRepo(projects ...domain.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: make(map[string]domain.Project)}
	for _, project := range projects {
		repo.projects[project.ID] = project
	}
	return repo
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	project.UpdatedAt = time.Now()
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := project
	return &copied, nil
}

func (r *fakeProjectRepo) List(_ context.Context, _, _ int) ([]domain.Project, error) {
	result := []domain.Project{}
	for _, project := range r.projects {
		result = append(result, project)
	}
	return result, nil
}

func (r *fakeProjectRepo) ListByMember(_ context.Context, role domain.Role, userID string) ([]domain.Project, error) {
	result := []domain.Project{}
	for _, project := range r.projects {
		switch role {
		case domain.RoleQA:
			if project.HasQA(userID) {
				result = append(result, project)
			}
		case domain.RoleDeveloper:
			if project.HasDeveloper(userID) {
				result = append(result, project)
			}
		}
	}
	return result, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.projects, id)
	return nil
}

type fakeBugRepo struct {
	bugs map[string]domain.Bug
}

func newFakeBugRepo(bugs ...domain.Bug) *fakeBugRepo {
	repo := &fakeBugRepo{bugs: make(map[string]domain.Bug)}
	for _, bug := range bugs {
		repo.bugs[bug.ID] = bug
	}
	return repo
}

func (r *fakeBugRepo) Create(_ context.Context, bug *domain.Bug) error {
	if bug.ID == "" {
		bug.ID = uuid.NewString()
	}
	bug.CreatedAt = time.Now()
	bug.UpdatedAt = bug.CreatedAt
	r.bugs[bug.ID] = *bug
	return nil
}

func (r *fakeBugRepo) Update(_ context.Context, bug *domain.Bug) error {
	if _, ok := r.bugs[bug.ID]; !ok {
		return pgx.ErrNoRows
	}
	bug.UpdatedAt = time.Now()
	r.bugs[bug.ID] = *bug
	return nil
}

func (r *fakeBugRepo) GetByID(_ context.Context, id string) (*domain.Bug, error) {
	bug, ok := r.bugs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := bug
	return &copied, nil
}

func (r *fakeBugRepo) ListWithFilter(_ context.Context, filter repository.BugFilter) ([]domain.Bug, error) {
	if filter.ProjectIDs != nil && len(filter.ProjectIDs) == 0 {
		return []domain.Bug{}, nil
	}
	result := []domain.Bug{}
	for _, bug := range r.bugs {
		if filter.ProjectID != nil && bug.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.ProjectIDs != nil && !containsString(filter.ProjectIDs, bug.ProjectID) {
			continue
		}
		if filter.AssignedTo != nil && bug.AssignedTo != *filter.AssignedTo {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, bug.Status) {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, bug.Type) {
			continue
		}
		result = append(result, bug)
	}
	return result, nil
}

func (r *fakeBugRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.bugs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.bugs, id)
	return nil
}

func (r *fakeBugRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, bug := range r.bugs {
		if bug.ProjectID == projectID {
			delete(r.bugs, id)
		}
	}
	return nil
}

func containsStatus(statuses []domain.BugStatus, target domain.BugStatus) bool {
	for _, status := range statuses {
		if status == target {
			return true
		}
	}
	return false
}

func containsType(types []domain.BugType, target domain.BugType) bool {
	for _, bugType := range types {
		if bugType == target {
			return true
		}
	}
	return false
}
