package visit

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/service/visit"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
	"github.com/jwalitptl/frontdesk-api/pkg/payload"
)

type Service interface {
	CreateVisit(ctx context.Context, patientID string, visit *model.Visit) (*model.Visit, error)
	GetVisit(ctx context.Context, id int64) (*model.Visit, error)
	ListVisits(ctx context.Context) ([]*model.Visit, error)
	ListPatientVisits(ctx context.Context, patientID string) ([]*model.Visit, error)
	ListRecentPatientVisits(ctx context.Context, patientID string) ([]*model.Visit, error)
	UpdateVisit(ctx context.Context, id int64, details *model.Visit) (*model.Visit, error)
	UpdatePrescription(ctx context.Context, id int64, prescription string) (*model.Visit, error)
	DeleteVisit(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	visits := r.Group("/visits")
	{
		visits.GET("", h.ListVisits)
		visits.GET("/:visitId", h.GetVisit)
		visits.GET("/patient/:patientId", h.ListPatientVisits)
		visits.GET("/patient/:patientId/recent", h.ListRecentPatientVisits)
		visits.POST("/patient/:patientId", h.CreateVisit)
		visits.PUT("/:visitId", h.UpdateVisit)
		visits.PATCH("/:visitId/prescription", h.UpdatePrescription)
		visits.DELETE("/:visitId", h.DeleteVisit)
	}
}

func bindVisit(c *gin.Context) (*model.Visit, error) {
	var body payload.Fields
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, apperrors.BadRequest(httputil.BindingMessage(err), err)
	}
	v, err := visit.FromPayload(body)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return v, nil
}

func (h *Handler) CreateVisit(c *gin.Context) {
	v, err := bindVisit(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	created, err := h.service.CreateVisit(c.Request.Context(), c.Param("patientId"), v)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) ListVisits(c *gin.Context) {
	visits, err := h.service.ListVisits(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, visits)
}

func (h *Handler) GetVisit(c *gin.Context) {
	id, err := httputil.Int64Param(c, "visitId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	v, err := h.service.GetVisit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, v)
}

func (h *Handler) ListPatientVisits(c *gin.Context) {
	visits, err := h.service.ListPatientVisits(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, visits)
}

func (h *Handler) ListRecentPatientVisits(c *gin.Context) {
	visits, err := h.service.ListRecentPatientVisits(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, visits)
}

func (h *Handler) UpdateVisit(c *gin.Context) {
	id, err := httputil.Int64Param(c, "visitId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	details, err := bindVisit(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	v, err := h.service.UpdateVisit(c.Request.Context(), id, details)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, v)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, err := httputil.Int64Param(c, "visitId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	v, err := h.service.UpdatePrescription(c.Request.Context(), id, req.Prescription)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, v)
}

func (h *Handler) DeleteVisit(c *gin.Context) {
	id, err := httputil.Int64Param(c, "visitId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteVisit(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondNoContent(c)
}
