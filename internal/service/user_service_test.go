package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bug-tracker/internal/auth"
	"github.com/spec-kit/bug-tracker/internal/domain"
)

const testBcryptCost = 4

func TestCreateUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, testBcryptCost)
	admin := testActor("a1", domain.RoleAdmin)

	user, err := svc.CreateUser(context.Background(), admin, UserCreateInput{
		FirstName: "Dana",
		LastName:  "Lopez",
		Email:     "dana@example.com",
		Password:  "hunter22",
		Role:      domain.RoleDeveloper,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "hunter22"))
}

func TestCreateUserRoleGate(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testBcryptCost)
	manager := testActor("m1", domain.RoleManager)

	_, err := svc.CreateUser(context.Background(), manager, UserCreateInput{
		FirstName: "Max",
		LastName:  "Ivanov",
		Email:     "max@example.com",
		Password:  "hunter22",
		Role:      domain.RoleManager,
	})
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.CreateUser(context.Background(), testActor("q1", domain.RoleQA), UserCreateInput{
		FirstName: "Max",
		LastName:  "Ivanov",
		Email:     "max@example.com",
		Password:  "hunter22",
		Role:      domain.RoleDeveloper,
	})
	requireCode(t, err, "FORBIDDEN")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo(domain.User{ID: "u1", Email: "dana@example.com", Role: domain.RoleDeveloper})
	svc := NewUserService(users, testBcryptCost)

	_, err := svc.CreateUser(context.Background(), testActor("a1", domain.RoleAdmin), UserCreateInput{
		FirstName: "Dana",
		LastName:  "Lopez",
		Email:     "dana@example.com",
		Password:  "hunter22",
		Role:      domain.RoleDeveloper,
	})
	requireCode(t, err, "CONFLICT")
}

func TestListUsersScoping(t *testing.T) {
	users := newFakeUserRepo(
		domain.User{ID: "m1", Role: domain.RoleManager},
		domain.User{ID: "q1", Role: domain.RoleQA},
		domain.User{ID: "d1", Role: domain.RoleDeveloper},
	)
	svc := NewUserService(users, testBcryptCost)
	ctx := context.Background()

	all, err := svc.ListUsers(ctx, testActor("a1", domain.RoleAdmin), nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// qa is forced onto developers regardless of the requested filter
	manager := domain.RoleManager
	devsOnly, err := svc.ListUsers(ctx, testActor("q1", domain.RoleQA), &manager, 20, 0)
	require.NoError(t, err)
	require.Len(t, devsOnly, 1)
	assert.Equal(t, "d1", devsOnly[0].ID)

	_, err = svc.ListUsers(ctx, testActor("m1", domain.RoleManager), &manager, 20, 0)
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.ListUsers(ctx, testActor("d1", domain.RoleDeveloper), nil, 20, 0)
	requireCode(t, err, "FORBIDDEN")
}

func TestUpdateUserPartial(t *testing.T) {
	users := newFakeUserRepo(domain.User{
		ID:        "d1",
		FirstName: "Dana",
		LastName:  "Lopez",
		Email:     "dana@example.com",
		Role:      domain.RoleDeveloper,
	})
	svc := NewUserService(users, testBcryptCost)
	admin := testActor("a1", domain.RoleAdmin)

	blank := ""
	newName := "Dana-Marie"
	qa := domain.RoleQA
	user, err := svc.UpdateUser(context.Background(), admin, "d1", UserUpdateInput{
		FirstName: &newName,
		Email:     &blank,
		Role:      &qa,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana-Marie", user.FirstName)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, domain.RoleQA, user.Role)
}

func TestUpdateUserRoleEscalationDenied(t *testing.T) {
	users := newFakeUserRepo(domain.User{ID: "d1", Role: domain.RoleDeveloper})
	svc := NewUserService(users, testBcryptCost)

	managerRole := domain.RoleManager
	_, err := svc.UpdateUser(context.Background(), testActor("m1", domain.RoleManager), "d1", UserUpdateInput{
		Role: &managerRole,
	})
	requireCode(t, err, "FORBIDDEN")
}

func TestGetUserVisibility(t *testing.T) {
	users := newFakeUserRepo(
		domain.User{ID: "q2", Role: domain.RoleQA},
		domain.User{ID: "d1", Role: domain.RoleDeveloper},
	)
	svc := NewUserService(users, testBcryptCost)
	ctx := context.Background()

	_, err := svc.GetUser(ctx, testActor("q1", domain.RoleQA), "d1")
	require.NoError(t, err)

	_, err = svc.GetUser(ctx, testActor("q1", domain.RoleQA), "q2")
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.GetUser(ctx, testActor("a1", domain.RoleAdmin), "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserRepo(
		domain.User{ID: "a1", Role: domain.RoleAdmin},
		domain.User{ID: "m2", Role: domain.RoleManager},
		domain.User{ID: "d1", Role: domain.RoleDeveloper},
	)
	svc := NewUserService(users, testBcryptCost)
	ctx := context.Background()

	// self-deletion is a validation failure, not a permission one
	err := svc.DeleteUser(ctx, testActor("a1", domain.RoleAdmin), "a1")
	requireCode(t, err, "VALIDATION_FAILED")

	err = svc.DeleteUser(ctx, testActor("m1", domain.RoleManager), "m2")
	requireCode(t, err, "FORBIDDEN")

	err = svc.DeleteUser(ctx, testActor("a1", domain.RoleAdmin), "d1")
	require.NoError(t, err)

	_, err = users.GetByID(ctx, "d1")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo(domain.User{
		ID:        "d1",
		FirstName: "Dana",
		LastName:  "Lopez",
		Role:      domain.RoleDeveloper,
	})
	svc := NewUserService(users, testBcryptCost)

	newLast := "Lopez-Reyes"
	user, err := svc.UpdateProfile(context.Background(), testActor("d1", domain.RoleDeveloper), ProfileUpdateInput{
		LastName: &newLast,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana", user.FirstName)
	assert.Equal(t, "Lopez-Reyes", user.LastName)
}
