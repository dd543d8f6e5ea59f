package notes

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

// RegisterRoutes wires both visibility tiers: reads run under optional
// auth, writes require a full bearer identity.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, optionalAuth, authenticate gin.HandlerFunc) {
	public := v1.Group("/notes", optionalAuth)
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
	}

	protected := v1.Group("/notes", authenticate)
	{
		protected.POST("", h.Create)
		protected.PUT("/:id", h.Update)
		protected.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	viewer, _ := middleware.CurrentUser(c)
	offset, limit := pagination(c)

	notes, err := h.service.List(c.Request.Context(), viewer, offset, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{"notes": notes})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	viewer, _ := middleware.CurrentUser(c)

	note, err := h.service.Get(c.Request.Context(), id, viewer)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{"note": note})
}

func (h *Handler) Create(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apierror.Validation("Invalid request body", err.Error()))
		return
	}

	note, err := h.service.Create(c.Request.Context(), owner, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Note created", gin.H{"note": note})
}

func (h *Handler) Update(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}
	id, err := noteID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apierror.Validation("Invalid request body", err.Error()))
		return
	}

	note, err := h.service.Update(c.Request.Context(), id, owner, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Note updated", gin.H{"note": note})
}

func (h *Handler) Delete(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}
	id, err := noteID(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, owner); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Note deleted", nil)
}

func noteID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apierror.BadRequest("Invalid note ID")
	}
	return id, nil
}

func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return (page - 1) * perPage, perPage
}
