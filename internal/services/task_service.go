package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("unknown task status")
)

// TaskService handles task business logic. Authorization decisions are made
// by the gate before these methods run; the service validates input shape and
// applies the mutation.
type TaskService struct {
	taskRepo repository.TaskRepository
	teamRepo repository.TeamRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, teamRepo repository.TeamRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		teamRepo: teamRepo,
	}
}

// ListTasksInput represents filters for listing tasks visible to a user.
type ListTasksInput struct {
	UserID    uint64
	TeamID    *uint64
	OwnedOnly bool
	Status    *models.TaskStatus
	Page      int
	PageSize  int
}

// ListTasks returns tasks the user owns or can see through team membership.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	filter := repository.TaskFilter{
		Status:   input.Status,
		TeamID:   input.TeamID,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.OwnedOnly {
		filter.OwnerID = &input.UserID
	} else {
		filter.VisibleTo = &input.UserID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListTeamTasks returns all tasks assigned to a team.
func (s *TaskService) ListTeamTasks(teamID uint64) ([]models.Task, int64, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrTeamNotFound
		}
		return nil, 0, fmt.Errorf("failed to find team: %w", err)
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{TeamID: &teamID})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list team tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask retrieves a task with its owner and team preloaded.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Owner", "Team")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
	OwnerID     uint64
	TeamID      *uint64
}

// CreateTask persists a new task. The assignment (owner, optional team) has
// already been validated by the gate.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		OwnerID:     input.OwnerID,
		TeamID:      input.TeamID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a partial task update.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
	TeamID       *uint64
	ClearTeam    bool
}

// UpdateTask applies a partial update to an already-authorized task.
func (s *TaskService) UpdateTask(task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}

	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.ClearTeam {
		task.TeamID = nil
	} else if input.TeamID != nil {
		task.TeamID = input.TeamID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
