// Package service contains the business logic for the tour server.
// Services validate inputs, enforce the document invariants, and
// orchestrate repo calls. No file I/O lives here — services depend on the
// repo interface, not its filesystem implementation.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tourforge/pano360/internal/domain"
	"github.com/tourforge/pano360/internal/repo"
)

// allowedExtensions is the upload allowlist. Extensions are compared
// lowercase, taken after the last dot of the client filename.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

const (
	defaultSceneName    = "Escena"
	defaultHotspotLabel = "Hotspot"
)

// TourService implements the tour document operations: idempotent
// creation, scene ingestion, sanitized full-document save, and reads.
type TourService struct {
	tours repo.TourRepo

	// mu guards slugLocks. One mutex per slug serializes the whole
	// load-modify-save cycle, so two concurrent requests against the same
	// tour cannot lose each other's changes.
	mu        sync.Mutex
	slugLocks map[string]*sync.Mutex
}

// NewTourService constructs a TourService backed by the provided TourRepo.
func NewTourService(tours repo.TourRepo) *TourService {
	return &TourService{
		tours:     tours,
		slugLocks: make(map[string]*sync.Mutex),
	}
}

// lockSlug takes the per-slug mutex, creating it on first use, and
// returns the matching unlock.
func (s *TourService) lockSlug(slug string) func() {
	s.mu.Lock()
	m, ok := s.slugLocks[slug]
	if !ok {
		m = &sync.Mutex{}
		s.slugLocks[slug] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Create derives a slug from name and creates the tour, or updates only
// its title when the tour already exists. Re-creating by the same name is
// deliberately idempotent so the editor can call it freely.
func (s *TourService) Create(ctx context.Context, name, title string) (domain.Tour, error) {
	name = strings.TrimSpace(name)
	title = strings.TrimSpace(title)

	if name == "" {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w: Debes indicar un nombre para la carpeta", domain.ErrInvalidSlug)
	}
	slug := domain.Slugify(name)
	if slug == "" || !domain.IsValidSlug(slug) {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w: El nombre solo puede contener letras, números y guiones", domain.ErrInvalidSlug)
	}
	if domain.IsReservedSlug(slug) {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w: Este nombre está reservado, elige otro", domain.ErrInvalidSlug)
	}

	unlock := s.lockSlug(slug)
	defer unlock()

	tour, err := s.tours.Load(ctx, slug)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		tour = domain.Tour{Slug: slug, Title: name, Scenes: []domain.Scene{}}
		if title != "" {
			tour.Title = title
		}
	case err != nil:
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w", err)
	default:
		if title != "" {
			tour.Title = title
		}
	}

	if err := s.tours.Save(ctx, slug, tour); err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w", err)
	}
	return tour, nil
}

// Get returns the stored document for slug.
func (s *TourService) Get(ctx context.Context, slug string) (domain.Tour, error) {
	if !domain.IsValidSlug(slug) {
		return domain.Tour{}, fmt.Errorf("service.TourService.Get: %w: Carpeta del tour inválida", domain.ErrInvalidSlug)
	}
	tour, err := s.tours.Load(ctx, slug)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Get: %w", err)
	}
	return tour, nil
}

// Exists reports whether slug names an existing tour. Reserved and
// malformed slugs report false rather than an error, so the static layer
// can probe arbitrary path segments safely.
func (s *TourService) Exists(ctx context.Context, slug string) (bool, error) {
	if !domain.IsValidSlug(slug) || domain.IsReservedSlug(slug) {
		return false, nil
	}
	ok, err := s.tours.Exists(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("service.TourService.Exists: %w", err)
	}
	return ok, nil
}

// UploadScene ingests one panorama image as a new scene of an existing
// tour. The stored filename is always the generated scene id plus the
// validated extension — the client filename only contributes its extension
// and a fallback display name, so it can never traverse paths or collide.
//
// Nothing is written before the format check passes; a rejected upload
// leaves the document untouched.
func (s *TourService) UploadScene(ctx context.Context, slug, filename, sceneName string, img io.Reader) (domain.Scene, domain.Tour, error) {
	if !domain.IsValidSlug(slug) {
		return domain.Scene{}, domain.Tour{}, fmt.Errorf("service.TourService.UploadScene: %w: Carpeta del tour inválida", domain.ErrInvalidSlug)
	}

	unlock := s.lockSlug(slug)
	defer unlock()

	tour, err := s.tours.Load(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Scene{}, domain.Tour{}, fmt.Errorf("service.TourService.UploadScene: %w: Primero debes crear el tour", domain.ErrNotFound)
		}
		return domain.Scene{}, domain.Tour{}, fmt.Errorf("service.TourService.UploadScene: %w", err)
	}

	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		// Browsers occasionally send camera captures without an extension.
		ext = ".jpg"
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return domain.Scene{}, domain.Tour{}, fmt.Errorf("service.TourService.UploadScene: %w: Formato no soportado. Usa JPG, PNG o WEBP", domain.ErrUnsupportedFormat)
	}

	name := strings.TrimSpace(sceneName)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if name == "" {
		name = defaultSceneName
	}

	scene := domain.Scene{
		ID:       domain.NewSceneID(),
		Name:     name,
		Hotspots: []domain.Hotspot{},
	}
	scene.File = scene.ID + ext

	if err := s.tours.SaveSceneImage(ctx, slug, scene.File, img); err != nil {
		return domain.Scene{}, domain.Tour{}, fmt.Errorf("service.TourService.UploadScene: %w", err)
	}

	tour.Scenes = append(tour.Scenes, scene)
	if tour.InitialSceneID == "" {
		tour.InitialSceneID = scene.ID
	}

	if err := s.tours.Save(ctx, slug, tour); err != nil {
		return domain.Scene{}, domain.Tour{}, fmt.Errorf("service.TourService.UploadScene: %w", err)
	}
	return scene, tour, nil
}

// Save sanitizes a client-submitted full document and persists it over
// the stored one. Malformed elements are dropped individually — a bad
// hotspot never rejects the whole request. This lenient-write policy is
// what the editor depends on: partial success beats losing an entire
// editing session over one bad angle.
func (s *TourService) Save(ctx context.Context, slug string, payload domain.TourPayload) (domain.Tour, error) {
	if !domain.IsValidSlug(slug) {
		return domain.Tour{}, fmt.Errorf("service.TourService.Save: %w: Carpeta del tour inválida", domain.ErrInvalidSlug)
	}

	unlock := s.lockSlug(slug)
	defer unlock()

	tour, err := s.tours.Load(ctx, slug)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Save: %w", err)
	}

	cleaned := make([]domain.Scene, 0, len(payload.Scenes))
	for _, sp := range payload.Scenes {
		if scene, ok := cleanScene(sp); ok {
			cleaned = append(cleaned, scene)
		}
	}
	tour.Scenes = cleaned

	if title := strings.TrimSpace(payload.Title); title != "" {
		tour.Title = title
	}
	tour.InitialSceneID = resolveInitialScene(payload.InitialSceneID, cleaned)

	if err := s.tours.Save(ctx, slug, tour); err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Save: %w", err)
	}
	return tour, nil
}

// cleanScene sanitizes one submitted scene. Scenes without an id or file
// cannot have come from a real upload and are dropped entirely.
func cleanScene(sp domain.ScenePayload) (domain.Scene, bool) {
	if sp.ID == "" || sp.File == "" {
		return domain.Scene{}, false
	}
	name := strings.TrimSpace(sp.Name)
	if name == "" {
		name = defaultSceneName
	}
	return domain.Scene{
		ID:       sp.ID,
		Name:     name,
		File:     sp.File,
		Hotspots: cleanHotspots(sp.Hotspots),
	}, true
}

// cleanHotspots keeps the hotspots whose angles parse as numbers,
// assigning ids and default labels where missing. Target scene ids are
// carried through unvalidated; a dangling target is a tolerated editing
// state, not an error.
func cleanHotspots(hps []domain.HotspotPayload) []domain.Hotspot {
	clean := make([]domain.Hotspot, 0, len(hps))
	for _, hp := range hps {
		yaw, ok := domain.ParseAngle(hp.Yaw)
		if !ok {
			continue
		}
		pitch, ok := domain.ParseAngle(hp.Pitch)
		if !ok {
			continue
		}

		h := domain.Hotspot{
			ID:            hp.ID,
			Label:         strings.TrimSpace(hp.Label),
			TargetSceneID: hp.TargetSceneID,
			Yaw:           yaw,
			Pitch:         pitch,
		}
		if h.ID == "" {
			h.ID = domain.NewHotspotID()
		}
		if h.Label == "" {
			h.Label = defaultHotspotLabel
		}
		clean = append(clean, h)
	}
	return clean
}

// resolveInitialScene keeps the requested initial scene only when it
// survived sanitization, falls back to the first surviving scene, and
// clears it when no scenes remain.
func resolveInitialScene(requested string, scenes []domain.Scene) string {
	if requested != "" {
		for _, sc := range scenes {
			if sc.ID == requested {
				return requested
			}
		}
	}
	if len(scenes) > 0 {
		return scenes[0].ID
	}
	return ""
}
