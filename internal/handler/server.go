// Package handler implements the HTTP handlers for the tour API.
// All handlers are methods on Server so they share the same dependencies.
// Request decoding, response mapping, and error-to-status translation live
// here; the document rules themselves live in the service layer.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourforge/pano360/internal/domain"
	"github.com/tourforge/pano360/spec"
)

// TourServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the service layer or the disk.
type TourServicer interface {
	Create(ctx context.Context, name, title string) (domain.Tour, error)
	Get(ctx context.Context, slug string) (domain.Tour, error)
	Exists(ctx context.Context, slug string) (bool, error)
	UploadScene(ctx context.Context, slug, filename, sceneName string, img io.Reader) (domain.Scene, domain.Tour, error)
	Save(ctx context.Context, slug string, payload domain.TourPayload) (domain.Tour, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	tours TourServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(tours TourServicer) *Server {
	return &Server{tours: tours}
}

// RegisterRoutes attaches all API endpoints to r. Static hosting is
// mounted separately in main so the API surface stays testable on its own.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/api/tours", func(r chi.Router) {
		r.Post("/", s.CreateTour)
		r.Get("/{slug}", s.GetTour)
		r.Post("/{slug}/upload", s.UploadScene)
		r.Post("/{slug}/save", s.SaveTour)
	})
}

// serveOpenAPI returns the embedded API specification.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(spec.OpenAPI)
}
