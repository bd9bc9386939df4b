package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// RequireOwner checks that the principal owns the resource named by the :id
// parameter. Both a missing resource and a foreign one answer 404 so the
// response does not reveal existence.
func RequireOwner(resolver services.OwnerResolver) gin.HandlerFunc {
	kind := resolver.Kind()
	notFound := strings.ToUpper(kind[:1]) + kind[1:] + " not found"

	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+kind+" ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		ownerID, err := resolver.ResolveOwner(id)
		if err != nil {
			if errors.Is(err, services.ErrResourceNotFound) {
				apierrors.NotFound(c, notFound)
			} else {
				apierrors.InternalError(c, err)
			}
			c.Abort()
			return
		}

		if ownerID != userID {
			apierrors.NotFound(c, notFound)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOwnerID, ownerID)
		c.Next()
	}
}

// ParamID returns the numeric :id parameter validated by RequireOwner
func ParamID(c *gin.Context) uint64 {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	return id
}
