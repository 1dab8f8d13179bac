package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

type Service interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints. loginGuards run before the login
// handler, typically a per-client rate limiter.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.GET("/health", h.Health)
		auth.POST("/login", append(loginGuards, h.Login)...)
	}
}

func (h *Handler) Health(c *gin.Context) {
	httputil.RespondWithMessage(c, "Auth service is up and running!")
}

// Login always answers 200 once the request is well formed; the outcome is
// carried in the body.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}
