package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdash/internal/authz"
	"teamdash/internal/constants"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/models"
	"teamdash/internal/repository"
)

// RequireTaskView checks that the authenticated user may read the task in
// the URL: its owner or any member of its assigned team. Outsiders get 404
// so the task's existence is not leaked.
func RequireTaskView(taskRepo repository.TaskRepository, gate *authz.Gate) gin.HandlerFunc {
	return requireTask(taskRepo, gate, authz.ActionTaskRead)
}

// RequireTaskMutate checks that the authenticated user may update or delete
// the task: its owner or a moderator of its assigned team. Unlike reads, a
// denied mutation is reported as 403.
func RequireTaskMutate(taskRepo repository.TaskRepository, gate *authz.Gate) gin.HandlerFunc {
	return requireTask(taskRepo, gate, authz.ActionTaskUpdate)
}

func requireTask(taskRepo repository.TaskRepository, gate *authz.Gate, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := taskRepo.FindByID(taskID, "Owner", "Team")
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		if err := gate.Authorize(user, action, authz.Resource{Task: task}); err != nil {
			if action == authz.ActionTaskRead {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.Forbidden(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by the task access middleware
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}

	task, ok := value.(*models.Task)
	return task, ok
}
