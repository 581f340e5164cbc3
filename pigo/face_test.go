package pigo

import (
	"testing"

	pigo "github.com/esimov/pigo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muesli/faceoverlay"
)

func TestFacesFromDetections(t *testing.T) {
	dets := []pigo.Detection{
		{Row: 150, Col: 100, Scale: 100, Q: 12},
		{Row: 10, Col: 10, Scale: 20, Q: 1}, // below quality threshold
	}

	faces := facesFromDetections(dets, 5, 36)
	require.Len(t, faces, 1)

	pts := faces[0].Contours[faceoverlay.ContourFace]
	require.Len(t, pts, 36)

	box, err := faceoverlay.BoundingBoxOf(pts)
	require.NoError(t, err)
	assert.InDelta(t, 60, box.MinX, 1e-9)
	assert.InDelta(t, 140, box.MaxX, 1e-9)
	assert.InDelta(t, 100, box.MinY, 1e-9)
	assert.InDelta(t, 200, box.MaxY, 1e-9)
}

func TestFacesFromDetectionsEmpty(t *testing.T) {
	assert.Empty(t, facesFromDetections(nil, 5, 36))
}

func TestDetectNilImage(t *testing.T) {
	d := &FaceDetector{}
	_, err := d.Detect(nil)
	assert.Error(t, err)
}
