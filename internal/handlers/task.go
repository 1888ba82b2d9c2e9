package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamdash/internal/authz"
	"teamdash/internal/dto"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/middleware"
	"teamdash/internal/models"
	"teamdash/internal/services"
	"teamdash/internal/utils"
)

// TaskHandler coordinates task HTTP handlers. Per-task authorization happens
// in the task access middleware; the handler authorizes create and team
// reassignment through the gate before applying the mutation.
type TaskHandler struct {
	taskService *services.TaskService
	gate        *authz.Gate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, gate *authz.Gate) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		gate:        gate,
	}
}

// ListTasks returns tasks visible to the current user: tasks they own plus
// tasks assigned to teams they belong to. Supports status, team, and
// owned-only filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		UserID:    userID,
		OwnedOnly: c.Query("owned") == "true",
		Page:      params.Page,
		PageSize:  params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}

	if teamIDStr := c.Query("team_id"); teamIDStr != "" {
		teamID, err := strconv.ParseUint(teamIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		input.TeamID = &teamID
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// ListTeamTasks returns all tasks assigned to a team. Access is guarded by
// RequireTeamAccess.
func (h *TaskHandler) ListTeamTasks(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	tasks, total, err := h.taskService.ListTeamTasks(team.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, utils.PaginationParams{Page: 1, Limit: int(total)}, total))
}

// GetTask returns a task loaded and authorized by RequireTaskView.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task owned by the current user, optionally assigned
// to a team.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		DueDate     *time.Time `json:"due_date"`
		TeamID      *uint64    `json:"team_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.gate.Authorize(user, authz.ActionTaskCreate, authz.Resource{NewTeamID: req.TeamID}); err != nil {
		respondGateError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		DueDate:     req.DueDate,
		OwnerID:     user.ID,
		TeamID:      req.TeamID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task loaded and authorized by
// RequireTaskMutate. Reassigning the team re-validates the assignment.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		Status       *string    `json:"status"`
		DueDate      *time.Time `json:"due_date"`
		ClearDueDate bool       `json:"clear_due_date"`
		TeamID       *uint64    `json:"team_id"`
		ClearTeam    bool       `json:"clear_team"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.TeamID != nil {
		if err := h.gate.Authorize(user, authz.ActionTaskUpdate, authz.Resource{Task: task, NewTeamID: req.TeamID}); err != nil {
			respondGateError(c, err)
			return
		}
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		TeamID:       req.TeamID,
		ClearTeam:    req.ClearTeam,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}

	updated, err := h.taskService.UpdateTask(task, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task loaded and authorized by RequireTaskMutate.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondGateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, authz.ErrOwnerNotFound),
		errors.Is(err, authz.ErrTeamNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
