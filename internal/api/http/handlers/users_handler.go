package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/dto"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/service"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// UsersHandler manages account administration and self-profile endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var roleFilter *domain.Role
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.Role(roleStr)
		roleFilter = &role
	}
	limit, offset := paginationFromQuery(c)

	users, err := h.users.ListUsers(c.Context(), actor, roleFilter, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("users", dto.NewUserResponses(users)))
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	picture, err := parseImageFile(c, "picture")
	if err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.Context(), actor, service.UserCreateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Picture:   picture,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("user created", dto.NewUserResponse(user)))
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("profile", dto.NewUserResponse(actor)))
}

// UpdateProfile PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	picture, err := parseImageFile(c, "picture")
	if err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Context(), actor, service.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Picture:   picture,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("profile updated", dto.NewUserResponse(user)))
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("user", dto.NewUserResponse(user)))
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	picture, err := parseImageFile(c, "picture")
	if err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.Context(), actor, c.Params("id"), service.UserUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Picture:   picture,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("user updated", dto.NewUserResponse(user)))
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("user deleted", nil))
}
