package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound     = errors.New("board not found")
	ErrBoardTitleEmpty   = errors.New("board title is required")
	ErrForeignUserTarget = errors.New("cannot act on behalf of a different user")
)

// BoardService handles board business logic
type BoardService struct {
	boardRepo repository.BoardRepository
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	return &BoardService{boardRepo: boardRepo}
}

// CreateBoardInput represents input for creating a board
type CreateBoardInput struct {
	Title string
	// UserID is optional; when set it must name the principal
	UserID  *uint64
	ActorID uint64
}

// ListBoards returns the actor's boards with their lists and tasks
func (s *BoardService) ListBoards(actorID uint64) ([]models.Board, error) {
	boards, err := s.boardRepo.ListByUser(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns a board owned by the actor
func (s *BoardService) GetBoard(id, actorID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindOwned(id, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

// CreateBoard creates a board together with the default lists
func (s *BoardService) CreateBoard(input CreateBoardInput) (*models.Board, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrBoardTitleEmpty
	}
	if input.UserID != nil && *input.UserID != input.ActorID {
		return nil, ErrForeignUserTarget
	}

	board := &models.Board{
		Title:  title,
		UserID: input.ActorID,
	}

	lists := make([]models.List, len(constants.DefaultLists))
	for i, def := range constants.DefaultLists {
		lists[i] = models.List{
			Title: def.Title,
			Color: def.Color,
			Order: def.Order,
		}
	}

	if err := s.boardRepo.CreateWithLists(board, lists); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// UpdateBoard renames a board owned by the actor
func (s *BoardService) UpdateBoard(id, actorID uint64, title *string) (*models.Board, error) {
	board, err := s.GetBoard(id, actorID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, ErrBoardTitleEmpty
		}
		board.Title = trimmed
	}

	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

// DeleteBoard deletes a board owned by the actor along with its lists and tasks
func (s *BoardService) DeleteBoard(id, actorID uint64) error {
	if _, err := s.GetBoard(id, actorID); err != nil {
		return err
	}

	if err := s.boardRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}
