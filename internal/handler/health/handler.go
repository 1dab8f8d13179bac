package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PatientCounter interface {
	CountPatients(ctx context.Context) (int64, error)
}

type Handler struct {
	db       Pinger
	patients PatientCounter
	metrics  gin.HandlerFunc
}

// NewHandler builds the health endpoints. db is nil when the API runs on
// in-memory storage.
func NewHandler(db Pinger, patients PatientCounter, metrics gin.HandlerFunc) *Handler {
	return &Handler{
		db:       db,
		patients: patients,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
		health.GET("/db-connection", h.DBConnection)
		if h.metrics != nil {
			health.GET("/metrics", h.metrics)
		}
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "DOWN",
				"reason": "Database connection failed",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// DBConnection proves the store answers queries by counting patients.
func (h *Handler) DBConnection(c *gin.Context) {
	count, err := h.patients.CountPatients(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "connected",
		"patientCount": count,
	})
}
