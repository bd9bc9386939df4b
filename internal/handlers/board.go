package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
)

type BoardHandler struct {
	boardService *services.BoardService
}

func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// ListBoards returns the current user's boards with lists and tasks nested
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	boards, err := h.boardService.ListBoards(userID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"boards": dto.ToBoardDTOs(boards)})
}

// GetBoard returns a single board. Ownership is checked by RequireOwner.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	board, err := h.boardService.GetBoard(middleware.ParamID(c), userID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": dto.ToBoardDTO(*board)})
}

// CreateBoard creates a board with the default lists
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateBoardRequest struct {
		Title  string  `json:"title"`
		UserID *uint64 `json:"userId"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(services.CreateBoardInput{
		Title:   req.Title,
		UserID:  req.UserID,
		ActorID: userID,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"board": dto.ToBoardDTO(*board)})
}

// UpdateBoard renames a board
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type UpdateBoardRequest struct {
		Title *string `json:"title"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.UpdateBoard(middleware.ParamID(c), userID, req.Title)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": dto.ToBoardDTO(*board)})
}

// DeleteBoard deletes a board with its lists and tasks
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.boardService.DeleteBoard(middleware.ParamID(c), userID); err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

// respondResourceError maps board, list and task service errors to responses
func respondResourceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, "Board not found")
	case errors.Is(err, services.ErrListNotFound):
		apierrors.NotFound(c, "List not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrForeignUserTarget):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrBoardTitleEmpty):
		apierrors.BadRequest(c, "Board title is required")
	case errors.Is(err, services.ErrListTitleEmpty):
		apierrors.BadRequest(c, "List title is required")
	case errors.Is(err, services.ErrBoardIDMissing):
		apierrors.BadRequest(c, "boardId is required")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Task title is required")
	case errors.Is(err, services.ErrListIDRequired):
		apierrors.BadRequest(c, "listId is required")
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, "Priority must be one of low, medium, high")
	case errors.Is(err, services.ErrSuggestTextRequired):
		apierrors.BadRequest(c, "Text is required")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, "No tasks could be extracted from the text")
	default:
		apierrors.InternalError(c, err)
	}
}
