package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// AdminHandler serves the admin-only user management and stats endpoints
type AdminHandler struct {
	userService  *services.UserService
	statsService *services.StatsService
}

func NewAdminHandler(userService *services.UserService, statsService *services.StatsService) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		statsService: statsService,
	}
}

// ListUsers returns a page of users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(params)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      dto.ToUserDTOs(users),
		"pagination": params.Response(total),
	})
}

// DeleteUser removes a user and everything they own
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(id, actorID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ChangeRole sets a user's role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type ChangeRoleRequest struct {
		Role models.Role `json:"role"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.ChangeRole(id, req.Role)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// GetStats returns the dashboard totals and monthly growth
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats()
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": dto.ToStatsDTO(*stats)})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequestWithDetails(c, "Invalid role", gin.H{
			"allowed": []models.Role{models.RoleUser, models.RoleAdmin},
		})
	case errors.Is(err, services.ErrCannotDeleteYourself):
		apierrors.BadRequest(c, "You cannot delete your own account")
	case errors.Is(err, services.ErrCannotDeleteSeedAdmin):
		apierrors.Forbidden(c, "The seed admin account cannot be deleted")
	case errors.Is(err, services.ErrCannotDemoteSeedAdmin):
		apierrors.Forbidden(c, "The seed admin account cannot be demoted")
	default:
		apierrors.InternalError(c, err)
	}
}
