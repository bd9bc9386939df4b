package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

const suggestTimeout = 30 * time.Second

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns the current user's tasks, newest first.
// Supports listId, boardId, priority and completed filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{ActorID: userID}

	var err error
	if input.ListID, err = queryUint(c, "listId"); err != nil {
		apierrors.BadRequest(c, "Invalid listId")
		return
	}
	if input.BoardID, err = queryUint(c, "boardId"); err != nil {
		apierrors.BadRequest(c, "Invalid boardId")
		return
	}
	if p := c.Query("priority"); p != "" {
		priority := models.Priority(p)
		input.Priority = &priority
	}
	if v := c.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed filter")
			return
		}
		input.Completed = &completed
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	task, err := h.taskService.GetTask(middleware.ParamID(c), userID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task in a list the current user owns
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		ListID      uint64          `json:"listId"`
		UserID      *uint64         `json:"userId"`
		Priority    models.Priority `json:"priority"`
		Completed   bool            `json:"completed"`
		DueDate     nullableTime    `json:"dueDate"`
		Tags        []string        `json:"tags"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ListID:      req.ListID,
		UserID:      req.UserID,
		Priority:    req.Priority,
		Completed:   req.Completed,
		DueDate:     req.DueDate.Value,
		Tags:        req.Tags,
		ActorID:     userID,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}

// UpdateTask updates an existing task. A null dueDate clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type UpdateTaskRequest struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		Completed   *bool            `json:"completed"`
		Priority    *models.Priority `json:"priority"`
		DueDate     nullableTime     `json:"dueDate"`
		Tags        *[]string        `json:"tags"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(middleware.ParamID(c), userID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Completed:    req.Completed,
		Priority:     req.Priority,
		DueDate:      req.DueDate.Value,
		ClearDueDate: req.DueDate.Set && req.DueDate.Value == nil,
		Tags:         req.Tags,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// MoveTask moves a task to another list
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type MoveTaskRequest struct {
		ListID uint64 `json:"listId"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.MoveTask(middleware.ParamID(c), userID, req.ListID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.taskService.DeleteTask(middleware.ParamID(c), userID); err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SuggestTasks generates task suggestions from text using AI
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), suggestTimeout)
	defer cancel()

	suggestions, err := h.taskService.SuggestTasks(ctx, services.SuggestTasksInput{
		Text:    req.Text,
		ActorID: userID,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": dto.ToSuggestionDTOs(suggestions)})
}

// nullableTime records whether a JSON field was present, so that an explicit
// null can be told apart from an omitted field.
type nullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *nullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		n.Value = nil
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			n.Value = &t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}

// queryUint parses an optional positive integer query parameter
func queryUint(c *gin.Context, key string) (*uint64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}
