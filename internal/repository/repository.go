package repository

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(email string) (*models.User, error)

	// FindByGoogleID finds a user linked to a Google account
	FindByGoogleID(googleID string) (*models.User, error)

	// Update saves changes to a user
	Update(user *models.User) error

	// List returns a page of users ordered by creation time
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// Count returns the number of users
	Count() (int64, error)

	// Delete removes a user together with every board, list and task they own
	Delete(id uint64) error
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// CreateWithLists creates a board and its initial lists atomically
	CreateWithLists(board *models.Board, lists []models.List) error

	// FindByID finds a board by ID regardless of owner
	FindByID(id uint64) (*models.Board, error)

	// FindOwned finds a board owned by userID with its lists and tasks loaded
	FindOwned(id, userID uint64) (*models.Board, error)

	// ListByUser lists all boards owned by userID with lists and tasks loaded
	ListByUser(userID uint64) ([]models.Board, error)

	// Update updates a board
	Update(board *models.Board) error

	// Delete removes a board with all of its lists and tasks
	Delete(id uint64) error
}

// ListRepository defines the interface for list data access
type ListRepository interface {
	// Create creates a new list
	Create(list *models.List) error

	// FindByID finds a list by ID regardless of owner
	FindByID(id uint64) (*models.List, error)

	// FindOwned finds a list whose board is owned by userID
	FindOwned(id, userID uint64) (*models.List, error)

	// ListByUser lists lists on boards owned by userID, optionally for one board
	ListByUser(userID uint64, boardID *uint64) ([]models.List, error)

	// Update updates a list
	Update(list *models.List) error

	// Delete removes a list with all of its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID regardless of owner
	FindByID(id uint64) (*models.Task, error)

	// FindOwned finds a task owned by userID
	FindOwned(id, userID uint64) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task owned by task.UserID
	Update(task *models.Task) error

	// Move changes only the list reference of a task owned by userID
	Move(id, userID, listID uint64) error

	// Delete deletes a task owned by userID
	Delete(id, userID uint64) error
}

// TaskFilter holds filtering options for listing tasks. UserID is required.
type TaskFilter struct {
	UserID    uint64
	ListID    *uint64
	BoardID   *uint64
	Priority  *models.Priority
	Completed *bool
}

// StatsRepository defines aggregate queries for the admin dashboard
type StatsRepository interface {
	// Totals returns global entity counts
	Totals() (*Totals, error)

	// CreatedSince returns creation timestamps of rows in model's table newer than since
	CreatedSince(model interface{}, since time.Time) ([]time.Time, error)
}

// Totals holds global entity counts
type Totals struct {
	Users           int64
	Admins          int64
	Boards          int64
	Lists           int64
	Tasks           int64
	CompletedTasks  int64
	TasksByPriority map[models.Priority]int64
}
