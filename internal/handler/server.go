// Package handler implements the HTTP handlers for the Waypost API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, checkin.go) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmfraser/waypost/internal/domain"
	"github.com/jmfraser/waypost/internal/service"
	"github.com/jmfraser/waypost/spec"
)

// CheckinServicer defines the business operations the check-in handler
// depends on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type CheckinServicer interface {
	Create(ctx context.Context, in service.CreateCheckin) (domain.Checkin, error)
	List(ctx context.Context) ([]domain.Checkin, error)
}

// Server holds the handler dependencies for all API endpoints.
// Wire it in main.go via Routes.
type Server struct {
	checkins CheckinServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(checkins CheckinServicer) *Server {
	return &Server{checkins: checkins}
}

// Routes registers every endpoint on the given chi router. Unsupported
// methods on a known path get the JSON 405 body naming the rejected method,
// not chi's default empty response.
func (s *Server) Routes(r chi.Router) {
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/checkin", s.ListCheckins)
	r.Post("/checkin", s.CreateCheckin)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
}

// methodNotAllowed answers 405 with a JSON body naming the rejected method.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	fmt.Fprintf(w, `{"error":"Method '%s' Not Allowed"}`, r.Method)
}

// serveOpenAPI returns the embedded OpenAPI document.
// Serving it from the binary means the spec and the running code are always
// in sync.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
