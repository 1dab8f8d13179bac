// Package app assembles services, handlers and the router on top of a
// Storage.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/frontdesk-api/internal/email"
	authhandler "github.com/jwalitptl/frontdesk-api/internal/handler/auth"
	"github.com/jwalitptl/frontdesk-api/internal/handler/health"
	labtesthandler "github.com/jwalitptl/frontdesk-api/internal/handler/labtest"
	nursehandler "github.com/jwalitptl/frontdesk-api/internal/handler/nurse"
	patienthandler "github.com/jwalitptl/frontdesk-api/internal/handler/patient"
	promhandler "github.com/jwalitptl/frontdesk-api/internal/handler/prometheus"
	visithandler "github.com/jwalitptl/frontdesk-api/internal/handler/visit"
	"github.com/jwalitptl/frontdesk-api/internal/router"
	authservice "github.com/jwalitptl/frontdesk-api/internal/service/auth"
	eventservice "github.com/jwalitptl/frontdesk-api/internal/service/event"
	labtestservice "github.com/jwalitptl/frontdesk-api/internal/service/labtest"
	nurseservice "github.com/jwalitptl/frontdesk-api/internal/service/nurse"
	patientservice "github.com/jwalitptl/frontdesk-api/internal/service/patient"
	visitservice "github.com/jwalitptl/frontdesk-api/internal/service/visit"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

const metricsNamespace = "frontdesk"

type Options struct {
	Broker              messaging.Broker
	EventChannel        string
	Mailer              email.Service
	Registry            *prometheus.Registry
	Logger              *logger.Logger
	PhotoColumnWritable bool
	Router              router.RouterConfig
}

// New wires the HTTP API. Nil collaborators in opts fall back to no-op
// implementations.
func New(storage *Storage, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Mailer == nil {
		opts.Mailer = email.NopService{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	m := metrics.New(opts.Registry, metricsNamespace)
	events := eventservice.NewService(opts.Broker, opts.EventChannel, m, opts.Logger)

	visitSvc := visitservice.NewService(storage.Visits, storage.Patients, events, opts.Logger)
	patientSvc := patientservice.NewService(storage.Patients, visitSvc, events, m, opts.Logger, patientservice.Options{
		PhotoColumnWritable: opts.PhotoColumnWritable,
	})
	labTestSvc := labtestservice.NewService(storage.LabTests, storage.Patients, storage.Visits, events, opts.Logger)
	nurseSvc := nurseservice.NewService(storage.Nurses, opts.Mailer, events, opts.Logger)
	authSvc := authservice.NewService(storage.Nurses, m, opts.Logger)

	metricsHandler := promhandler.New(opts.Registry, m)

	var db health.Pinger
	if storage.DB != nil {
		db = storage.DB
	}

	r := router.NewRouter(router.Handlers{
		Patient: patienthandler.NewHandler(patientSvc),
		Visit:   visithandler.NewHandler(visitSvc),
		LabTest: labtesthandler.NewHandler(labTestSvc),
		Nurse:   nursehandler.NewHandler(nurseSvc),
		Health:  health.NewHandler(db, patientSvc, metricsHandler.Handler()),
		Auth:    authhandler.NewHandler(authSvc),
	}, metricsHandler, opts.Router)
	r.Setup()

	return r.Engine()
}
