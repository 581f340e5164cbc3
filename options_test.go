package faceoverlay

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValid(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, ContourFace, opts.Contour)
	assert.Equal(t, 0.15, opts.BracketRatio)
	assert.Equal(t, 30.0, opts.ArcSweep)
	assert.Equal(t, 120.0, opts.ArcSpacing)
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(`
padding: 10
draw_brackets: true
styles:
  box:
    color: "#ff000080"
    stroke_width: 4
`))
	require.NoError(t, err)

	assert.Equal(t, 10.0, opts.Padding)
	assert.True(t, opts.DrawBrackets)
	assert.Equal(t, Color{255, 0, 0, 128}, opts.Styles.Box.Color)
	assert.Equal(t, 4.0, opts.Styles.Box.StrokeWidth)

	// untouched values keep their defaults
	assert.True(t, opts.DrawArcs)
	assert.Equal(t, 40.0, opts.ArcMargin)
	assert.Equal(t, DefaultStyles().Arc, opts.Styles.Arc)
}

func TestParseOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "paddding: 3"},
		{"bad color", "styles: {arc: {color: mauve}}"},
		{"negative padding", "padding: -1"},
		{"bad rotation", "thumbnail_rotation: 45"},
		{"bracket ratio", "bracket_ratio: 0.9"},
		{"empty contour", `contour: ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("draw_outline: true\n"), 0644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.True(t, opts.DrawOutline)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
