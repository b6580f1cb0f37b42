// Package repo contains all persistence logic for the tour server.
// Tours live on the filesystem: one directory per slug holding a
// human-indented tour.json plus the scene image files referenced by it.
// No business logic lives here — only file layout and JSON mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tourforge/pano360/internal/domain"
)

// TourRepo defines the persistence operations for tour documents and their
// scene images. The service layer depends on this interface, not the
// filesystem implementation, which allows the service to be unit-tested
// with a mock.
type TourRepo interface {
	// Load returns the parsed document for slug.
	// Returns domain.ErrNotFound when no document exists — callers
	// distinguish "not created yet" from real failure via errors.Is.
	Load(ctx context.Context, slug string) (domain.Tour, error)

	// Save serializes the full document, creating the tour directory if
	// missing and overwriting any prior content. The write is atomic: a
	// concurrent reader never observes a partially written document.
	Save(ctx context.Context, slug string, tour domain.Tour) error

	// Exists reports whether a document exists for slug.
	Exists(ctx context.Context, slug string) (bool, error)

	// SaveSceneImage streams an uploaded image into the tour directory
	// under filename, creating the directory if missing.
	SaveSceneImage(ctx context.Context, slug, filename string, img io.Reader) error
}

// fsTourRepo is the filesystem implementation of TourRepo.
// All paths are built under root, which is <data dir>/tours.
type fsTourRepo struct {
	root string
}

// NewTourRepo constructs a TourRepo storing documents under
// dataDir/tours/<slug>/tour.json.
func NewTourRepo(dataDir string) TourRepo {
	return &fsTourRepo{root: filepath.Join(dataDir, "tours")}
}

// Load reads and parses tour.json for slug.
func (r *fsTourRepo) Load(_ context.Context, slug string) (domain.Tour, error) {
	path, err := r.tourFile(slug)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Load: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Tour{}, fmt.Errorf("repo.TourRepo.Load: %w", domain.ErrNotFound)
		}
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Load: %w", err)
	}

	var tour domain.Tour
	if err := json.Unmarshal(raw, &tour); err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Load: parse %s: %w", path, err)
	}
	return tour, nil
}

// Save writes the document atomically: it serializes into a temp file in
// the tour directory and renames it over tour.json, so readers see either
// the old document or the new one, never a partial write.
func (r *fsTourRepo) Save(_ context.Context, slug string, tour domain.Tour) error {
	dir, err := r.tourDir(slug)
	if err != nil {
		return fmt.Errorf("repo.TourRepo.Save: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repo.TourRepo.Save: %w", err)
	}

	data, err := json.MarshalIndent(tour, "", "  ")
	if err != nil {
		return fmt.Errorf("repo.TourRepo.Save: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tour-*.json")
	if err != nil {
		return fmt.Errorf("repo.TourRepo.Save: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("repo.TourRepo.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("repo.TourRepo.Save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, tourDocument)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("repo.TourRepo.Save: rename: %w", err)
	}
	return nil
}

// Exists reports whether tour.json exists for slug.
func (r *fsTourRepo) Exists(_ context.Context, slug string) (bool, error) {
	path, err := r.tourFile(slug)
	if err != nil {
		return false, fmt.Errorf("repo.TourRepo.Exists: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("repo.TourRepo.Exists: %w", err)
	}
	return true, nil
}

// SaveSceneImage streams img to dir/filename. The filename is always
// server-generated (scene id + validated extension) so it can never
// escape the tour directory.
func (r *fsTourRepo) SaveSceneImage(_ context.Context, slug, filename string, img io.Reader) error {
	dir, err := r.tourDir(slug)
	if err != nil {
		return fmt.Errorf("repo.TourRepo.SaveSceneImage: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repo.TourRepo.SaveSceneImage: %w", err)
	}

	out, err := os.Create(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("repo.TourRepo.SaveSceneImage: %w", err)
	}
	if _, err := io.Copy(out, img); err != nil {
		out.Close()
		os.Remove(out.Name())
		return fmt.Errorf("repo.TourRepo.SaveSceneImage: copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("repo.TourRepo.SaveSceneImage: close: %w", err)
	}
	return nil
}

// tourDocument is the document filename inside each tour directory.
const tourDocument = "tour.json"

// tourDir returns the directory for slug, refusing any slug that fails
// validation. This is the single choke point that keeps client-supplied
// identifiers from reaching filepath.Join unchecked.
func (r *fsTourRepo) tourDir(slug string) (string, error) {
	if !domain.IsValidSlug(slug) {
		return "", domain.ErrInvalidSlug
	}
	return filepath.Join(r.root, slug), nil
}

func (r *fsTourRepo) tourFile(slug string) (string, error) {
	dir, err := r.tourDir(slug)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tourDocument), nil
}
