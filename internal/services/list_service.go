package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrListNotFound   = errors.New("list not found")
	ErrListTitleEmpty = errors.New("list title is required")
	ErrBoardIDMissing = errors.New("boardId is required")
)

// ListService handles list business logic
type ListService struct {
	listRepo  repository.ListRepository
	boardRepo repository.BoardRepository
}

// NewListService creates a new ListService
func NewListService(listRepo repository.ListRepository, boardRepo repository.BoardRepository) *ListService {
	return &ListService{
		listRepo:  listRepo,
		boardRepo: boardRepo,
	}
}

// CreateListInput represents input for creating a list
type CreateListInput struct {
	Title   string
	BoardID uint64
	Color   string
	Order   *int
	ActorID uint64
}

// UpdateListInput represents input for updating a list
type UpdateListInput struct {
	Title *string
	Color *string
	Order *int
}

// ListLists returns lists on the actor's boards, optionally restricted to one board
func (s *ListService) ListLists(actorID uint64, boardID *uint64) ([]models.List, error) {
	if boardID != nil {
		if _, err := s.ownedBoard(*boardID, actorID); err != nil {
			return nil, err
		}
	}

	lists, err := s.listRepo.ListByUser(actorID, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// GetList returns a list whose board is owned by the actor
func (s *ListService) GetList(id, actorID uint64) (*models.List, error) {
	list, err := s.listRepo.FindOwned(id, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}
	return list, nil
}

// CreateList adds a list to a board owned by the actor. Without an explicit
// order the list is appended after the board's last list.
func (s *ListService) CreateList(input CreateListInput) (*models.List, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrListTitleEmpty
	}
	if input.BoardID == 0 {
		return nil, ErrBoardIDMissing
	}

	board, err := s.ownedBoard(input.BoardID, input.ActorID)
	if err != nil {
		return nil, err
	}

	order := len(board.Lists)
	for _, l := range board.Lists {
		if l.Order >= order {
			order = l.Order + 1
		}
	}
	if input.Order != nil {
		order = *input.Order
	}

	list := &models.List{
		Title:   title,
		BoardID: board.ID,
		Color:   input.Color,
		Order:   order,
	}

	if err := s.listRepo.Create(list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return list, nil
}

// UpdateList updates a list whose board is owned by the actor
func (s *ListService) UpdateList(id, actorID uint64, input UpdateListInput) (*models.List, error) {
	list, err := s.GetList(id, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrListTitleEmpty
		}
		list.Title = title
	}
	if input.Color != nil {
		list.Color = *input.Color
	}
	if input.Order != nil {
		list.Order = *input.Order
	}

	if err := s.listRepo.Update(list); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	return list, nil
}

// DeleteList deletes a list and its tasks
func (s *ListService) DeleteList(id, actorID uint64) error {
	if _, err := s.GetList(id, actorID); err != nil {
		return err
	}

	if err := s.listRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

func (s *ListService) ownedBoard(boardID, actorID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindOwned(boardID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}
