package nurse

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

type Service interface {
	CreateNurse(ctx context.Context, req *model.CreateNurseRequest) (*model.Nurse, error)
	GetNurse(ctx context.Context, nurseID string) (*model.Nurse, error)
	ListNurses(ctx context.Context) ([]model.NurseDTO, error)
	ListActiveNurses(ctx context.Context) ([]model.NurseDTO, error)
	UpdateNurse(ctx context.Context, nurseID string, req *model.UpdateNurseRequest) (*model.Nurse, error)
	UpdateStatus(ctx context.Context, nurseID, status string) error
	DeleteNurse(ctx context.Context, nurseID string) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	nurses := r.Group("/nurses")
	{
		nurses.GET("", h.ListNurses)
		nurses.GET("/active", h.ListActiveNurses)
		nurses.GET("/:id", h.GetNurse)
		nurses.GET("/find-by-nurse-id/:nurseId", h.FindByNurseID)
		nurses.POST("", h.CreateNurse)
		nurses.PUT("/:id", h.UpdateNurse)
		nurses.PUT("/status/:nurseId", h.UpdateStatus)
		nurses.DELETE("/:id", h.DeleteNurse)
	}
}

func (h *Handler) ListNurses(c *gin.Context) {
	nurses, err := h.service.ListNurses(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nurses)
}

func (h *Handler) ListActiveNurses(c *gin.Context) {
	nurses, err := h.service.ListActiveNurses(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nurses)
}

func (h *Handler) GetNurse(c *gin.Context) {
	h.respondNurse(c, c.Param("id"))
}

func (h *Handler) FindByNurseID(c *gin.Context) {
	h.respondNurse(c, c.Param("nurseId"))
}

func (h *Handler) respondNurse(c *gin.Context, nurseID string) {
	n, err := h.service.GetNurse(c.Request.Context(), nurseID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, n)
}

func (h *Handler) CreateNurse(c *gin.Context) {
	var req model.CreateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	n, err := h.service.CreateNurse(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, n)
}

func (h *Handler) UpdateNurse(c *gin.Context) {
	var req model.UpdateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	n, err := h.service.UpdateNurse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, n)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("nurseId"), c.Query("status")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Status updated successfully")
}

func (h *Handler) DeleteNurse(c *gin.Context) {
	if err := h.service.DeleteNurse(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondNoContent(c)
}
