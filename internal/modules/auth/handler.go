package auth

import (
	"net/http"

	"apistarter/internal/middleware"
	"apistarter/internal/pkg/apierror"
	"apistarter/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/change-password", h.ChangePassword)
		authGroup.GET("/me", h.Me)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apierror.Validation("Invalid request body", err.Error()))
		return
	}
	if req.Password != req.ConfirmPassword {
		response.HandleError(c, apierror.Validation("Passwords do not match", gin.H{"confirmPassword": "must match password"}))
		return
	}

	user, tokens, err := h.service.Register(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Registered", gin.H{
		"user":   toUserResponse(user),
		"tokens": tokens,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apierror.Validation("Invalid request body", err.Error()))
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logged in", gin.H{
		"user":   toUserResponse(user),
		"tokens": tokens,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apierror.Validation("Invalid request body", err.Error()))
		return
	}

	user, tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed", gin.H{
		"user":   toUserResponse(user),
		"tokens": tokens,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	// Body is optional: logout without a refresh token still succeeds,
	// it just has nothing to revoke.
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken, c.ClientIP()); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out", nil)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apierror.Validation("Invalid request body", err.Error()))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		response.HandleError(c, apierror.Validation("Passwords do not match", gin.H{"confirmPassword": "must match newPassword"}))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), user.ID, req, c.ClientIP()); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password changed", nil)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.HandleError(c, apierror.Unauthorized("Authentication required"))
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{
		"user": toUserResponse(user),
	})
}
