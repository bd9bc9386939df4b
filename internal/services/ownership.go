package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
)

// OwnerResolver resolves the user that transitively owns a resource.
// Implementations return ErrResourceNotFound when the resource is absent or
// its ownership chain is inconsistent.
type OwnerResolver interface {
	// Kind names the resource type, e.g. "board"
	Kind() string

	// ResolveOwner returns the owning user's ID
	ResolveOwner(id uint64) (uint64, error)
}

// BoardOwner resolves a board's owner directly.
type BoardOwner struct {
	Boards repository.BoardRepository
}

func (BoardOwner) Kind() string { return "board" }

func (r BoardOwner) ResolveOwner(id uint64) (uint64, error) {
	board, err := r.Boards.FindByID(id)
	if err != nil {
		return 0, notFoundOr(err, "board")
	}
	return board.UserID, nil
}

// ListOwner resolves a list's owner through its board.
type ListOwner struct {
	Lists  repository.ListRepository
	Boards repository.BoardRepository
}

func (ListOwner) Kind() string { return "list" }

func (r ListOwner) ResolveOwner(id uint64) (uint64, error) {
	list, err := r.Lists.FindByID(id)
	if err != nil {
		return 0, notFoundOr(err, "list")
	}
	return BoardOwner{Boards: r.Boards}.ResolveOwner(list.BoardID)
}

// TaskOwner walks Task -> List -> Board. The task's own user id must agree
// with the owner of its board.
type TaskOwner struct {
	Tasks  repository.TaskRepository
	Lists  repository.ListRepository
	Boards repository.BoardRepository
}

func (TaskOwner) Kind() string { return "task" }

func (r TaskOwner) ResolveOwner(id uint64) (uint64, error) {
	task, err := r.Tasks.FindByID(id)
	if err != nil {
		return 0, notFoundOr(err, "task")
	}

	boardOwner, err := ListOwner{Lists: r.Lists, Boards: r.Boards}.ResolveOwner(task.ListID)
	if err != nil {
		return 0, err
	}

	if boardOwner != task.UserID {
		return 0, ErrResourceNotFound
	}
	return task.UserID, nil
}

func notFoundOr(err error, kind string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound
	}
	return fmt.Errorf("failed to resolve %s owner: %w", kind, err)
}

// notFoundAs maps a missing record to target and wraps anything else
func notFoundAs(err, target error, kind string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return fmt.Errorf("failed to find %s: %w", kind, err)
}
