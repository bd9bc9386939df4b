package dto

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// BoardDTO represents a board with its lists in API responses
type BoardDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Lists     []ListDTO `json:"lists"`
}

// ListDTO represents a list with its tasks in API responses
type ListDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	BoardID   uint64    `json:"boardId"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tasks     []TaskDTO `json:"tasks"`
}

// TaskDTO represents a task in API responses. Tags is never null.
type TaskDTO struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ListID      uint64          `json:"listId"`
	UserID      uint64          `json:"userId"`
	Completed   bool            `json:"completed"`
	Priority    models.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SuggestionDTO represents an AI task suggestion
type SuggestionDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	Tags        []string        `json:"tags"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// ToBoardDTO converts a Board model, including any preloaded lists
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:        board.ID,
		Title:     board.Title,
		UserID:    board.UserID,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
		Lists:     ToListDTOs(board.Lists),
	}
}

// ToBoardDTOs converts a slice of boards
func ToBoardDTOs(boards []models.Board) []BoardDTO {
	dtos := make([]BoardDTO, len(boards))
	for i, board := range boards {
		dtos[i] = ToBoardDTO(board)
	}
	return dtos
}

// ToListDTO converts a List model, including any preloaded tasks
func ToListDTO(list models.List) ListDTO {
	return ListDTO{
		ID:        list.ID,
		Title:     list.Title,
		BoardID:   list.BoardID,
		Color:     list.Color,
		Order:     list.Order,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
		Tasks:     ToTaskDTOs(list.Tasks),
	}
}

// ToListDTOs converts a slice of lists
func ToListDTOs(lists []models.List) []ListDTO {
	dtos := make([]ListDTO, len(lists))
	for i, list := range lists {
		dtos[i] = ToListDTO(list)
	}
	return dtos
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		ListID:      task.ListID,
		UserID:      task.UserID,
		Completed:   task.Completed,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Tags:        tagsOrEmpty(task.Tags),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToSuggestionDTOs converts AI suggestions
func ToSuggestionDTOs(tasks []services.GeneratedTask) []SuggestionDTO {
	dtos := make([]SuggestionDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = SuggestionDTO{
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			DueDate:     task.DueDate,
			Tags:        tagsOrEmpty(task.Tags),
		}
	}
	return dtos
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
