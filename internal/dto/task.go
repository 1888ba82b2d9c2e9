package dto

import (
	"time"

	"teamdash/internal/models"
	"teamdash/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date"`
	OwnerID     uint64            `json:"owner_id"`
	TeamID      *uint64           `json:"team_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Owner       *UserDTO          `json:"owner,omitempty"`
	Team        *TeamDTO          `json:"team,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		OwnerID:     task.OwnerID,
		TeamID:      task.TeamID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include owner if preloaded
	if task.Owner.ID != 0 {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}

	// Include team if preloaded
	if task.Team != nil && task.Team.ID != 0 {
		team := ToTeamDTO(*task.Team)
		dto.Team = &team
	}

	return dto
}

// ToTaskListResponse converts tasks and pagination metadata to a list response
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
