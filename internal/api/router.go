package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter builds the HTTP router with all API routes.
func NewRouter(h *Handler, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(recoveryMiddleware(log))
	router.Use(requestLogMiddleware(log))

	router.HandleFunc("/api/health", h.Health).Methods("GET")

	router.HandleFunc("/api/sessions", h.CreateSession).Methods("POST")
	router.HandleFunc("/api/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/api/sessions/{id}", h.PatchSession).Methods("PATCH")

	router.HandleFunc("/api/sessions/{id}/plan", h.GeneratePlan).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/plan/days/{day:[0-9]+}/swap", h.SwapDay).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/commit", h.Commit).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/today", h.Today).Methods("GET")

	router.HandleFunc("/api/sessions/{id}/hotline", h.Hotline).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/profile/infer", h.InferProfile).Methods("POST")

	router.HandleFunc("/api/sessions/{id}/payment-captured", h.PaymentCaptured).Methods("POST")

	return router
}

func dayVar(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("day number %d out of range", n)
	}
	return n, nil
}

// recoveryMiddleware turns handler panics into 500s instead of dropping
// the connection.
func recoveryMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Str("path", r.URL.Path).
						Msg("handler panicked")
					writeInternalError(w, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("latency", time.Since(start)).
				Msg("request")
		})
	}
}
