package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tourforge/pano360/internal/domain"
)

// createTourRequest is the body of POST /api/tours.
type createTourRequest struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// CreateTour handles POST /api/tours.
// Creating a tour whose name maps to an existing slug updates only the
// title, so the endpoint is safe to call repeatedly.
func (s *Server) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req createTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "JSON inválido")
		return
	}

	tour, err := s.tours.Create(r.Context(), req.Name, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tourToResponse(tour))
}

// GetTour handles GET /api/tours/{slug}.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	tour, err := s.tours.Get(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tourToResponse(tour))
}

// UploadScene handles POST /api/tours/{slug}/upload.
// The request is a multipart form with the image under "scene" and an
// optional "sceneName" field for the display label.
func (s *Server) UploadScene(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Se esperaba un formulario de tipo multipart")
		return
	}

	// Large parts are spooled to temp files by net/http, so memory use
	// stays bounded regardless of image size.
	file, header, err := r.FormFile("scene")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "La fotografía supera el tamaño máximo permitido")
			return
		}
		writeError(w, http.StatusBadRequest, "missing_attachment", "Debes adjuntar una fotografía 360")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "missing_attachment", "Archivo de escena inválido")
		return
	}

	scene, tour, err := s.tours.UploadScene(r.Context(), slug, header.Filename, r.FormValue("sceneName"), file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Scene: sceneToResponse(tour.Slug, scene),
		Tour:  uploadTourInfo{InitialSceneID: optString(tour.InitialSceneID)},
	})
}

// SaveTour handles POST /api/tours/{slug}/save: a full-document save of
// the client's scene and hotspot list.
func (s *Server) SaveTour(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	var payload domain.TourPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "JSON inválido")
		return
	}

	tour, err := s.tours.Save(r.Context(), slug, payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tourToResponse(tour))
}

// --- response mapping -------------------------------------------------------

// tourResponse is the external read representation of a tour. It never
// feeds back into the store; mapping is pure projection.
type tourResponse struct {
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	InitialSceneID *string         `json:"initialSceneId"`
	Scenes         []sceneResponse `json:"scenes"`
	FolderPath     string          `json:"folderPath"`
}

// sceneResponse is a scene plus its derived public image URL.
type sceneResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	File     string           `json:"file"`
	Hotspots []domain.Hotspot `json:"hotspots"`
	URL      string           `json:"url"`
}

// uploadResponse is the body of a successful scene upload: the new scene
// and the tour fields the editor needs to refresh.
type uploadResponse struct {
	Scene sceneResponse  `json:"scene"`
	Tour  uploadTourInfo `json:"tour"`
}

type uploadTourInfo struct {
	InitialSceneID *string `json:"initialSceneId"`
}

// tourToResponse projects a stored tour into its external representation,
// defaulting the title to the slug when unset.
func tourToResponse(t domain.Tour) tourResponse {
	resp := tourResponse{
		Slug:           t.Slug,
		Title:          t.Title,
		InitialSceneID: optString(t.InitialSceneID),
		Scenes:         make([]sceneResponse, len(t.Scenes)),
		FolderPath:     "/" + t.Slug,
	}
	if resp.Title == "" {
		resp.Title = t.Slug
	}
	for i, sc := range t.Scenes {
		resp.Scenes[i] = sceneToResponse(t.Slug, sc)
	}
	return resp
}

// sceneToResponse adds the public URL under which the scene image is
// served: /tours/<slug>/<file>.
func sceneToResponse(slug string, sc domain.Scene) sceneResponse {
	hotspots := sc.Hotspots
	if hotspots == nil {
		hotspots = []domain.Hotspot{}
	}
	return sceneResponse{
		ID:       sc.ID,
		Name:     sc.Name,
		File:     sc.File,
		Hotspots: hotspots,
		URL:      "/tours/" + slug + "/" + sc.File,
	}
}

// optString maps "" to JSON null.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
