package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/api"
	"github.com/citizenvoice/pqrs-dashboard-api/api/scheduler"
	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// App stores the router, gateway clients and config, so they can be reused
type App struct {
	Router      *mux.Router
	Config      config.Config
	Cases       gateways.CaseService
	Transcriber gateways.Transcriber
	Hub         *NotificationHub
	Scheduler   *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	auth := api.Auth{}
	auth.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	c := Case{Service: a.Cases}
	t := Transcribe{Service: a.Transcriber}
	s := Stats{Cases: a.Cases}
	m := Media{}
	admin := Admin{}
	a.Hub = NewNotificationHub()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", http.HandlerFunc(auth.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/cases", api.Middleware(http.HandlerFunc(c.CaseHandler))).Methods("GET")
	apiCreate.Handle("/cases/{case_id}", api.Middleware(http.HandlerFunc(c.CaseByIDHandler))).Methods("GET")
	apiCreate.Handle("/cases/{case_id}", api.Middleware(http.HandlerFunc(c.UpdateCaseByIDHandler))).Methods("PUT")

	apiCreate.Handle("/transcribe", api.Middleware(http.HandlerFunc(t.TranscribeHandler))).Methods("POST")

	apiCreate.Handle("/stats", api.Middleware(http.HandlerFunc(s.StatsHandler))).Methods("GET")

	apiCreate.Handle("/attachments", api.Middleware(http.HandlerFunc(m.UploadAttachmentHandler))).Methods("POST")
	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(m.GenerateSignature))).Methods("POST")

	// browsers cannot attach auth headers on the websocket handshake, so
	// the hub route stays open like the rest of the delivery path
	apiCreate.Handle("/notifications/ws", http.HandlerFunc(a.Hub.ServeWS)).Methods("GET")
	apiCreate.Handle("/notifications/broadcast", AdminMiddleware(http.HandlerFunc(a.Hub.BroadcastHandler))).Methods("POST")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/digest/run", AdminMiddleware(http.HandlerFunc(a.runDigestHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to build the gateway clients, the router
// and the background scheduler
func (a *App) Initialize() error {
	a.Cases = gateways.NewCaseService(&a.Config)
	a.Transcriber = gateways.NewTranscriber(&a.Config)

	a.initializeRoutes()

	a.Scheduler = scheduler.New(a.Cases)
	a.Scheduler.Start()
	zap.S().Info("pqrs-dashboard-api initialized")
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func (a *App) runDigestHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Scheduler.RunDigest(r.Context()); err != nil {
		config.ErrorStatus("failed to run digest", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "digest completed",
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
