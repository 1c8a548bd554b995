package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/dto"
	"github.com/spec-kit/bug-tracker/internal/service"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projectService}
}

// List GET /projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := paginationFromQuery(c)
	projects, err := h.projects.ListProjects(c.Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("projects", dto.NewProjectResponses(projects)))
}

// ListAssigned GET /projects/assigned-projects.
func (h *ProjectsHandler) ListAssigned(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	projects, err := h.projects.ListAssignedProjects(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("assigned projects", dto.NewProjectResponses(projects)))
}

// Create POST /projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	picture, err := parseImageFile(c, "picture")
	if err != nil {
		return err
	}

	project, err := h.projects.CreateProject(c.Context(), actor, service.ProjectCreateInput{
		Name:               req.Name,
		Description:        req.Description,
		QAAssigned:         req.QAAssigned,
		DevelopersAssigned: req.DevelopersAssigned,
		Picture:            picture,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("project created", dto.NewProjectResponse(project)))
}

// Get GET /projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	if _, err := requireActor(c); err != nil {
		return err
	}
	project, err := h.projects.GetProject(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("project", dto.NewProjectResponse(project)))
}

// Update PUT /projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	picture, err := parseImageFile(c, "picture")
	if err != nil {
		return err
	}

	project, err := h.projects.UpdateProject(c.Context(), actor, c.Params("id"), service.ProjectUpdateInput{
		Name:               req.Name,
		Description:        req.Description,
		QAAssigned:         req.QAAssigned,
		DevelopersAssigned: req.DevelopersAssigned,
		Picture:            picture,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("project updated", dto.NewProjectResponse(project)))
}

// Delete DELETE /projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.projects.DeleteProject(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("project deleted", nil))
}

// AssignQA PUT /projects/:id/assign-qa.
func (h *ProjectsHandler) AssignQA(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	project, err := h.projects.AssignQA(c.Context(), actor, c.Params("id"), req.UserIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("qa assigned", dto.NewProjectResponse(project)))
}

// AssignDevelopers PUT /projects/:id/assign-developers.
func (h *ProjectsHandler) AssignDevelopers(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	project, err := h.projects.AssignDevelopers(c.Context(), actor, c.Params("id"), req.UserIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("developers assigned", dto.NewProjectResponse(project)))
}
