package admin

import (
	"net/http"
	"strconv"

	"apistarter/internal/middleware"
	"apistarter/internal/pkg/apierror"
	"apistarter/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already behind Authenticate +
// RequireAnyRole(admin).
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/users", h.ListUsers)
	admin.POST("/users/:id/deactivate", h.DeactivateUser)
	admin.POST("/users/:id/activate", h.ActivateUser)
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	users, total, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{
		"users": users,
		"total": total,
	})
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}
	id, err := userID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.DeactivateUser(c.Request.Context(), id, actor.ID, c.ClientIP()); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User deactivated", nil)
}

func (h *Handler) ActivateUser(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}
	id, err := userID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.ActivateUser(c.Request.Context(), id, actor.ID, c.ClientIP()); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User activated", nil)
}

func userID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apierror.BadRequest("Invalid user ID")
	}
	return id, nil
}
