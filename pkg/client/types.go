package client

import (
	"encoding/json"
	"time"
)

// Priority is a task priority as sent on the wire.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Role is a user role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Board struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Lists     []List    `json:"lists"`
}

type List struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	BoardID   uint64    `json:"boardId"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tasks     []Task    `json:"tasks"`
}

type Task struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ListID      uint64     `json:"listId"`
	UserID      uint64     `json:"userId"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Suggestion is an AI generated task proposal. It is not persisted.
type Suggestion struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type MonthlyGrowth struct {
	Month  string `json:"month"`
	Users  int64  `json:"users"`
	Boards int64  `json:"boards"`
	Tasks  int64  `json:"tasks"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers      int64            `json:"totalUsers"`
	TotalAdmins     int64            `json:"totalAdmins"`
	TotalBoards     int64            `json:"totalBoards"`
	TotalLists      int64            `json:"totalLists"`
	TotalTasks      int64            `json:"totalTasks"`
	CompletedTasks  int64            `json:"completedTasks"`
	TasksByPriority map[string]int64 `json:"tasksByPriority"`
	Growth          []MonthlyGrowth  `json:"growth"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateBoardRequest struct {
	Title  string  `json:"title"`
	UserID *uint64 `json:"userId,omitempty"`
}

type CreateListRequest struct {
	Title   string `json:"title"`
	BoardID uint64 `json:"boardId"`
	Color   string `json:"color,omitempty"`
	Order   *int   `json:"order,omitempty"`
}

type UpdateListRequest struct {
	Title *string `json:"title,omitempty"`
	Color *string `json:"color,omitempty"`
	Order *int    `json:"order,omitempty"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ListID      uint64     `json:"listId"`
	UserID      *uint64    `json:"userId,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Completed   bool       `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateTaskRequest carries a partial task update. Nil fields are left
// untouched; ClearDueDate sends an explicit null for dueDate.
type UpdateTaskRequest struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
}

func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]any)
	if r.Title != nil {
		body["title"] = *r.Title
	}
	if r.Description != nil {
		body["description"] = *r.Description
	}
	if r.Completed != nil {
		body["completed"] = *r.Completed
	}
	if r.Priority != nil {
		body["priority"] = *r.Priority
	}
	if r.ClearDueDate {
		body["dueDate"] = nil
	} else if r.DueDate != nil {
		body["dueDate"] = r.DueDate.Format(time.RFC3339Nano)
	}
	if r.Tags != nil {
		tags := *r.Tags
		if tags == nil {
			tags = []string{}
		}
		body["tags"] = tags
	}
	return json.Marshal(body)
}

// TaskQuery filters GET /api/tasks. Zero values are omitted.
type TaskQuery struct {
	ListID    uint64
	BoardID   uint64
	Priority  Priority
	Completed *bool
}
