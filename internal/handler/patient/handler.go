package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/service/patient"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
	"github.com/jwalitptl/frontdesk-api/pkg/payload"
)

const (
	msgRegistered   = "Patient registered successfully"
	msgVisitCreated = "Visit created successfully"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.RegisterPatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:patientId", h.GetPatient)
		patients.GET("/aadhar/:aadhar", h.GetPatientByAadhar)
		patients.GET("/check-aadhar/:aadhar", h.CheckAadhar)
		patients.PUT("/:patientId", h.UpdatePatient)
		patients.DELETE("/:patientId", h.DeletePatient)
	}
}

// RegistrationResponse reports the patient and, separately, the outcome of
// the optional visit.
type RegistrationResponse struct {
	PatientID    string              `json:"patientId"`
	Message      string              `json:"message"`
	VisitStatus  patient.VisitStatus `json:"visitStatus"`
	VisitID      *int64              `json:"visitId,omitempty"`
	VisitMessage string              `json:"visitMessage,omitempty"`
	VisitError   string              `json:"visitError,omitempty"`
}

func newRegistrationResponse(res *patient.RegistrationResult) RegistrationResponse {
	resp := RegistrationResponse{
		PatientID:   res.Patient.PatientID,
		Message:     msgRegistered,
		VisitStatus: res.Visit.Status,
	}

	switch res.Visit.Status {
	case patient.VisitCreated:
		id := res.Visit.Visit.VisitID
		resp.VisitID = &id
		resp.VisitMessage = msgVisitCreated
	case patient.VisitFailed:
		resp.VisitError = "Failed to create visit: " + res.Visit.ErrorMessage()
	}
	return resp
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var body payload.Fields
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	res, err := h.service.RegisterPatient(c.Request.Context(), body)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, newRegistrationResponse(res))
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.service.GetPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) GetPatientByAadhar(c *gin.Context) {
	p, err := h.service.GetPatientByAadhar(c.Request.Context(), c.Param("aadhar"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

// CheckAadhar answers with the patient holding the number, or false.
func (h *Handler) CheckAadhar(c *gin.Context) {
	p, found, err := h.service.FindByAadhar(c.Request.Context(), c.Param("aadhar"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !found {
		httputil.RespondWithSuccess(c, false)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	p, err := h.service.UpdatePatient(c.Request.Context(), c.Param("patientId"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.service.DeletePatient(c.Request.Context(), c.Param("patientId")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondNoContent(c)
}
