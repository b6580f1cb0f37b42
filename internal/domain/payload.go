package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// TourPayload is a client-submitted full-document save. Client input is
// never trusted as-is: the service layer sanitizes it into a Tour,
// discarding malformed scenes and hotspots element by element.
type TourPayload struct {
	Title          string         `json:"title"`
	InitialSceneID string         `json:"initialSceneId"`
	Scenes         []ScenePayload `json:"scenes"`
}

// ScenePayload is one scene as submitted by the editor. ID and File must
// originate from a prior upload; a scene without them cannot be
// reconstructed and is dropped during sanitization.
type ScenePayload struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	File     string           `json:"file"`
	Hotspots []HotspotPayload `json:"hotspots"`
}

// HotspotPayload is one hotspot as submitted. Yaw and Pitch are kept raw
// because editors send them as either JSON numbers or numeric strings;
// ParseAngle decides whether the hotspot survives.
type HotspotPayload struct {
	ID            string          `json:"id"`
	Label         string          `json:"label"`
	TargetSceneID string          `json:"targetSceneId"`
	Yaw           json.RawMessage `json:"yaw"`
	Pitch         json.RawMessage `json:"pitch"`
}

// ParseAngle interprets a raw hotspot angle as a float. It accepts JSON
// numbers and strings containing a number ("12.5", " -3 "). Anything else
// — absent, null, booleans, objects, non-numeric strings — reports false,
// which causes the whole hotspot to be discarded.
func ParseAngle(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		// Unmarshalling null into a float is a silent no-op, so it has to
		// be rejected up front.
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		// ParseFloat accepts "nan" and "inf", but neither can be stored
		// in a JSON document.
		return 0, false
	}
	return n, true
}
