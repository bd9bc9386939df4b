package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("task title is required")
	ErrListIDRequired         = errors.New("listId is required")
	ErrInvalidPriority        = errors.New("priority must be one of low, medium, high")
	ErrSuggestTextRequired    = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	listRepo  repository.ListRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, listRepo repository.ListRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		listRepo:  listRepo,
		aiService: aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ActorID   uint64
	ListID    *uint64
	BoardID   *uint64
	Priority  *models.Priority
	Completed *bool
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	ListID      uint64
	// UserID is optional; when set it must name the principal
	UserID    *uint64
	Priority  models.Priority
	Completed bool
	DueDate   *time.Time
	Tags      []string
	ActorID   uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
}

// ListTasks returns the actor's tasks matching the filters, newest first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		UserID:    input.ActorID,
		ListID:    input.ListID,
		BoardID:   input.BoardID,
		Priority:  input.Priority,
		Completed: input.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by the actor
func (s *TaskService) GetTask(id, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(id, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task in a list the actor owns
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.ListID == 0 {
		return nil, ErrListIDRequired
	}
	if input.UserID != nil && *input.UserID != input.ActorID {
		return nil, ErrForeignUserTarget
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if err := s.ensureListOwner(input.ListID, input.ActorID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		ListID:      input.ListID,
		UserID:      input.ActorID,
		Completed:   input.Completed,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Tags:        normalizeTags(input.Tags),
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask updates the editable fields of a task owned by the actor
func (s *TaskService) UpdateTask(id, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(id, actorID)
	if err != nil {
		return nil, err
	}

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
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = normalizeTags(*input.Tags)
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(id, actorID)
}

// MoveTask reassigns a task to another list the actor owns. Only the list
// reference changes.
func (s *TaskService) MoveTask(id, actorID, listID uint64) (*models.Task, error) {
	if listID == 0 {
		return nil, ErrListIDRequired
	}

	task, err := s.GetTask(id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureListOwner(listID, actorID); err != nil {
		return nil, err
	}

	if task.ListID == listID {
		return task, nil
	}

	if err := s.taskRepo.Move(id, actorID, listID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	return s.GetTask(id, actorID)
}

// DeleteTask deletes a task owned by the actor
func (s *TaskService) DeleteTask(id, actorID uint64) error {
	if err := s.taskRepo.Delete(id, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// SuggestTasksInput represents input for AI task suggestions
type SuggestTasksInput struct {
	Text    string
	ActorID uint64
}

// SuggestTasks uses AI to propose tasks from free text. Nothing is persisted.
func (s *TaskService) SuggestTasks(ctx context.Context, input SuggestTasksInput) ([]GeneratedTask, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrSuggestTextRequired
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}
		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.PriorityMedium
		}
		aiTask.Tags = normalizeTags(aiTask.Tags)
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// ensureListOwner verifies that the list exists on a board owned by actorID
func (s *TaskService) ensureListOwner(listID, actorID uint64) error {
	if _, err := s.listRepo.FindOwned(listID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to verify list ownership: %w", err)
	}
	return nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping order
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	return result
}
