package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	applog "kulutus/internal/log"
	"kulutus/internal/services"
)

var validate = validator.New()

const utilityPattern = "{utility:heat|electricity|water}"

// Server exposes the property registry and the per-utility consumption
// collections over JSON.
type Server struct {
	properties  *services.PropertyService
	readings    *services.ReadingService
	consumption *services.ConsumptionService
	handler     http.Handler
}

// NewServer wires routes, CORS and the observability middleware,
// returning a ready http.Handler.
func NewServer(
	properties *services.PropertyService,
	readings *services.ReadingService,
	consumption *services.ConsumptionService,
	corsOrigins []string,
	logger *applog.Logger,
) *Server {
	s := &Server{
		properties:  properties,
		readings:    readings,
		consumption: consumption,
	}

	r := mux.NewRouter()
	r.HandleFunc("/property", s.handleListProperties).Methods(http.MethodGet)
	r.HandleFunc("/property", s.handleCreateProperty).Methods(http.MethodPost)
	r.HandleFunc("/property/{key}", s.handleUpdateProperty).Methods(http.MethodPut)
	r.HandleFunc("/property/{key}", s.handleDeleteProperty).Methods(http.MethodDelete)

	r.HandleFunc("/"+utilityPattern, s.handleListConsumption).Methods(http.MethodGet)
	r.HandleFunc("/"+utilityPattern, s.handleInsertReading).Methods(http.MethodPost)
	r.HandleFunc("/"+utilityPattern+"/{id:[0-9]+}", s.handleUpdateReading).Methods(http.MethodPut)
	r.HandleFunc("/"+utilityPattern+"/{id:[0-9]+}", s.handleDeleteReading).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.handler = withObservability(logger, c.Handler(r))
	return s
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
