package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/dto"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/service"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// BugsHandler manages bug and feature endpoints.
type BugsHandler struct {
	bugs *service.BugService
}

// NewBugsHandler constructs handler.
func NewBugsHandler(bugService *service.BugService) *BugsHandler {
	return &BugsHandler{bugs: bugService}
}

// List GET /bugs. Supports projectId, status and type filters; the actor's
// role scope is applied on top.
func (h *BugsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := paginationFromQuery(c)
	query := service.BugListQuery{Limit: limit, Offset: offset}

	if projectID := c.Query("projectId"); projectID != "" {
		query.ProjectID = &projectID
	}
	for _, raw := range splitQueryList(c.Query("status")) {
		query.Statuses = append(query.Statuses, domain.BugStatus(raw))
	}
	for _, raw := range splitQueryList(c.Query("type")) {
		query.Types = append(query.Types, domain.BugType(raw))
	}

	bugs, err := h.bugs.ListBugs(c.Context(), actor, query)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("bugs", dto.NewBugResponses(bugs)))
}

// Create POST /bugs.
func (h *BugsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateBugRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	screenshot, err := parseImageFile(c, "screenshot")
	if err != nil {
		return err
	}

	input := service.BugCreateInput{
		Title:       req.Title,
		Type:        req.Type,
		Status:      req.Status,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Screenshot:  screenshot,
	}
	if req.Deadline != "" {
		deadline, err := parseDeadline(req.Deadline)
		if err != nil {
			return err
		}
		input.Deadline = deadline
	}

	bug, err := h.bugs.CreateBug(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("bug created", dto.NewBugResponse(bug)))
}

// Get GET /bugs/:id.
func (h *BugsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	bug, err := h.bugs.GetBug(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("bug", dto.NewBugResponse(bug)))
}

// Update PUT /bugs/:id.
func (h *BugsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBugRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	screenshot, err := parseImageFile(c, "screenshot")
	if err != nil {
		return err
	}

	input := service.BugUpdateInput{
		Title:       req.Title,
		Type:        req.Type,
		Status:      req.Status,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Screenshot:  screenshot,
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			input.ClearDeadline = true
		} else {
			deadline, err := parseDeadline(*req.Deadline)
			if err != nil {
				return err
			}
			input.Deadline = deadline
		}
	}

	bug, err := h.bugs.UpdateBug(c.Context(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("bug updated", dto.NewBugResponse(bug)))
}

// UpdateStatus PATCH /bugs/:id/status.
func (h *BugsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBugStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	bug, err := h.bugs.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("status updated", dto.NewBugResponse(bug)))
}

// Delete DELETE /bugs/:id.
func (h *BugsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.bugs.DeleteBug(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("bug deleted", nil))
}

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
