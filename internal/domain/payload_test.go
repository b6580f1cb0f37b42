package domain_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourforge/pano360/internal/domain"
)

// TestParseAngle_accepted verifies that JSON numbers and numeric strings
// both parse, since editors send angles in either form.
func TestParseAngle_accepted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"integer", `42`, 42},
		{"float", `-12.5`, -12.5},
		{"zero", `0`, 0},
		{"numeric string", `"90.25"`, 90.25},
		{"padded numeric string", `"  -3 "`, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ParseAngle(json.RawMessage(tt.raw))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseAngle_rejected verifies everything that should cause the
// enclosing hotspot to be discarded.
func TestParseAngle_rejected(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"absent", nil},
		{"null", json.RawMessage(`null`)},
		{"non-numeric string", json.RawMessage(`"x"`)},
		{"empty string", json.RawMessage(`""`)},
		{"nan string", json.RawMessage(`"nan"`)},
		{"inf string", json.RawMessage(`"inf"`)},
		{"negative inf string", json.RawMessage(`"-Inf"`)},
		{"boolean", json.RawMessage(`true`)},
		{"object", json.RawMessage(`{}`)},
		{"array", json.RawMessage(`[1]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := domain.ParseAngle(tt.raw)
			assert.False(t, ok)
		})
	}
}

// TestNewSceneID_format pins the identifier scheme the on-disk layout
// depends on: "scene-" plus 32 hex characters, unique per call.
func TestNewSceneID_format(t *testing.T) {
	a := domain.NewSceneID()
	b := domain.NewSceneID()

	assert.Regexp(t, `^scene-[0-9a-f]{32}$`, a)
	assert.NotEqual(t, a, b)
}

func TestNewHotspotID_format(t *testing.T) {
	assert.Regexp(t, `^hotspot-[0-9a-f]{32}$`, domain.NewHotspotID())
}
