// Package domain contains the core data types for the 360° tour server.
// This package has zero external dependencies beyond id generation and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Tour is the top-level aggregate: one named collection of panoramic scenes,
// persisted as a single JSON document under its slug directory.
// The document is the single source of truth — it is fully loaded, mutated
// in memory, and fully rewritten on every change.
type Tour struct {
	// Slug is the canonical identifier and the on-disk directory name.
	// Immutable once the tour exists.
	Slug string `json:"slug"`

	// Title is the display name. Defaults to the original creation name.
	Title string `json:"title"`

	// InitialSceneID is the scene shown first, or empty when the tour has
	// no scenes yet. When set it always matches the ID of some entry in
	// Scenes — the service layer maintains this invariant on every save.
	InitialSceneID string `json:"initialSceneId,omitempty"`

	// Scenes are stored in client-submitted order; there is no sort key.
	Scenes []Scene `json:"scenes"`
}

// Scene is one panoramic image plus its navigation hotspots.
// A scene belongs to exactly one tour; there is no cross-tour sharing.
type Scene struct {
	// ID is unique within the tour, format "scene-<hex>".
	// Always assigned by the server, never client-chosen.
	ID string `json:"id"`

	// Name is the display label, "Escena" when the client supplies none.
	Name string `json:"name"`

	// File is the image filename inside the tour directory, derived from
	// the scene ID plus the validated upload extension.
	File string `json:"file"`

	Hotspots []Hotspot `json:"hotspots"`
}

// Hotspot is a clickable navigation point on a scene.
type Hotspot struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// TargetSceneID is carried through as submitted. It is deliberately
	// not checked against the tour's scene IDs, so dangling targets are
	// representable (the editor relies on this while scenes are being
	// rearranged).
	TargetSceneID string `json:"targetSceneId,omitempty"`

	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// NewSceneID returns a fresh scene identifier, "scene-" plus 32 hex chars.
func NewSceneID() string {
	return "scene-" + randomHex()
}

// NewHotspotID returns a fresh hotspot identifier, "hotspot-" plus 32 hex chars.
func NewHotspotID() string {
	return "hotspot-" + randomHex()
}

func randomHex() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
