package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
)

type ListHandler struct {
	listService *services.ListService
}

func NewListHandler(listService *services.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// ListLists returns the current user's lists, optionally for one board
func (h *ListHandler) ListLists(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	boardID, err := queryUint(c, "boardId")
	if err != nil {
		apierrors.BadRequest(c, "Invalid boardId")
		return
	}

	lists, err := h.listService.ListLists(userID, boardID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lists": dto.ToListDTOs(lists)})
}

// CreateList adds a list to a board the current user owns
func (h *ListHandler) CreateList(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateListRequest struct {
		Title   string `json:"title"`
		BoardID uint64 `json:"boardId"`
		Color   string `json:"color"`
		Order   *int   `json:"order"`
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.listService.CreateList(services.CreateListInput{
		Title:   req.Title,
		BoardID: req.BoardID,
		Color:   req.Color,
		Order:   req.Order,
		ActorID: userID,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"list": dto.ToListDTO(*list)})
}

// UpdateList updates a list's title, color or order
func (h *ListHandler) UpdateList(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type UpdateListRequest struct {
		Title *string `json:"title"`
		Color *string `json:"color"`
		Order *int    `json:"order"`
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.listService.UpdateList(middleware.ParamID(c), userID, services.UpdateListInput{
		Title: req.Title,
		Color: req.Color,
		Order: req.Order,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": dto.ToListDTO(*list)})
}

// DeleteList deletes a list and its tasks
func (h *ListHandler) DeleteList(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.listService.DeleteList(middleware.ParamID(c), userID); err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List deleted successfully"})
}
