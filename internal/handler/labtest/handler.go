package labtest

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

type Service interface {
	CreateLabTest(ctx context.Context, patientID string, visitID *int64, req *model.CreateLabTestRequest) (*model.LabTest, error)
	GetLabTest(ctx context.Context, id int64) (*model.LabTest, error)
	ListLabTests(ctx context.Context) ([]*model.LabTest, error)
	ListPatientLabTests(ctx context.Context, patientID string) ([]*model.LabTest, error)
	ListVisitLabTests(ctx context.Context, visitID int64) ([]*model.LabTest, error)
	ListLabTestsByStatus(ctx context.Context, status string) ([]*model.LabTest, error)
	UpdateLabTest(ctx context.Context, id int64, req *model.UpdateLabTestRequest) (*model.LabTest, error)
	RecordResult(ctx context.Context, id int64, req *model.RecordResultRequest) (*model.LabTest, error)
	DeleteLabTest(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tests := r.Group("/labtests")
	{
		tests.GET("", h.ListLabTests)
		tests.GET("/:testId", h.GetLabTest)
		tests.GET("/patient/:patientId", h.ListPatientLabTests)
		tests.GET("/visit/:visitId", h.ListVisitLabTests)
		tests.GET("/status/:status", h.ListLabTestsByStatus)
		tests.POST("/patient/:patientId", h.CreateLabTest)
		tests.POST("/patient/:patientId/visit/:visitId", h.CreateLabTest)
		tests.PUT("/:testId", h.UpdateLabTest)
		tests.PATCH("/:testId/result", h.RecordResult)
		tests.DELETE("/:testId", h.DeleteLabTest)
	}
}

// CreateLabTest serves both the patient-only and the patient-and-visit routes.
func (h *Handler) CreateLabTest(c *gin.Context) {
	var visitID *int64
	if c.Param("visitId") != "" {
		id, err := httputil.Int64Param(c, "visitId")
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		visitID = &id
	}

	var req model.CreateLabTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	test, err := h.service.CreateLabTest(c.Request.Context(), c.Param("patientId"), visitID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, test)
}

func (h *Handler) ListLabTests(c *gin.Context) {
	respondList(c, func(ctx context.Context) ([]*model.LabTest, error) {
		return h.service.ListLabTests(ctx)
	})
}

func (h *Handler) ListPatientLabTests(c *gin.Context) {
	respondList(c, func(ctx context.Context) ([]*model.LabTest, error) {
		return h.service.ListPatientLabTests(ctx, c.Param("patientId"))
	})
}

func (h *Handler) ListVisitLabTests(c *gin.Context) {
	id, err := httputil.Int64Param(c, "visitId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	respondList(c, func(ctx context.Context) ([]*model.LabTest, error) {
		return h.service.ListVisitLabTests(ctx, id)
	})
}

func (h *Handler) ListLabTestsByStatus(c *gin.Context) {
	respondList(c, func(ctx context.Context) ([]*model.LabTest, error) {
		return h.service.ListLabTestsByStatus(ctx, c.Param("status"))
	})
}

func respondList(c *gin.Context, list func(ctx context.Context) ([]*model.LabTest, error)) {
	tests, err := list(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tests)
}

func (h *Handler) GetLabTest(c *gin.Context) {
	id, err := httputil.Int64Param(c, "testId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	test, err := h.service.GetLabTest(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, test)
}

func (h *Handler) UpdateLabTest(c *gin.Context) {
	id, err := httputil.Int64Param(c, "testId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateLabTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	test, err := h.service.UpdateLabTest(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, test)
}

func (h *Handler) RecordResult(c *gin.Context) {
	id, err := httputil.Int64Param(c, "testId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	test, err := h.service.RecordResult(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, test)
}

func (h *Handler) DeleteLabTest(c *gin.Context) {
	id, err := httputil.Int64Param(c, "testId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteLabTest(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondNoContent(c)
}
