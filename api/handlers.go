package api

import (
	"appointment-service/appointment"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options tunes the optional parts of the API. The zero value is usable.
type Options struct {
	Logger    *zap.Logger
	AccessLog io.Writer
	// Ready backs /health; nil means always healthy.
	Ready func(ctx context.Context) error
	// ServeDocs exposes the OpenAPI document. Disabled in production.
	ServeDocs bool
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
}

type API struct {
	router  *mux.Router
	store   appointment.Store
	log     *zap.Logger
	opts    Options
	limiter *clientLimiter
}

func NewAPI(store appointment.Store, opts Options) *API {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}
	a := &API{
		router: mux.NewRouter(),
		store:  store,
		log:    opts.Logger,
		opts:   opts,
	}
	if opts.RateLimit > 0 {
		a.limiter = newClientLimiter(opts.RateLimit, opts.RateBurst)
	}
	return a
}

// Router returns the bare router without middleware.
func (a *API) Router() http.Handler {
	return a.router
}

func (a *API) Handler() http.Handler {
	var h http.Handler = a.router
	h = a.rateLimit(h)
	h = requestID(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{"Location", requestIDHeader}),
	)(h)
	// Use Gorilla's built-in logging handler
	h = handlers.LoggingHandler(a.opts.AccessLog, h)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{a.log}))(h)
}

// Response is the envelope used for error bodies.
type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	a.writeJSON(w, status, Response{
		Status:   status,
		Response: data,
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.log.Warn("encode response", zap.Error(err))
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/availability/{date}", a.getAvailability).Methods(http.MethodGet)

	for _, base := range []string{"/appointmentitems", "/appointmentitems/"} {
		a.router.HandleFunc(base, a.getAppointments).Methods(http.MethodGet)
		a.router.HandleFunc(base, a.createAppointment).Methods(http.MethodPost)
	}
	a.router.HandleFunc("/appointmentitems/{id}", a.getAppointment).Methods(http.MethodGet)
	a.router.HandleFunc("/appointmentitems/{id}", a.updateAppointment).Methods(http.MethodPut)
	a.router.HandleFunc("/appointmentitems/{id}", a.deleteAppointment).Methods(http.MethodDelete)

	if a.opts.ServeDocs {
		a.router.HandleFunc(openAPIPath, a.openAPI).Methods(http.MethodGet)
	}
}
