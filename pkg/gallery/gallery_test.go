package gallery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
)

const sample = `
collections:
  - id: travel
    name: Travel
  - id: street
    name: Street
images:
  - path: images/lisbon.jpg
    meta:
      title: Lisbon
      description: Tram 28 at dusk
      collections: [travel, street]
    exif:
      focalLength: 35
      iso: 400
      fNumber: 2.8
      shutterSpeed: 0.008
      captureDate: 2023-05-14T19:42:00Z
      model: X100V
  - path: images/porto.jpg
    meta:
      title: Porto
      collections: [travel]
  - path: images/alley.jpg
    meta:
      title: Alley
      collections: [street]
`

func TestParse(t *testing.T) {
	g, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, g.Collections, 2)
	require.Len(t, g.Images, 3)

	img := g.Images[0]
	assert.Equal(t, "images/lisbon.jpg", img.Path)
	assert.Equal(t, []string{"travel", "street"}, img.Meta.Collections)
	require.NotNil(t, img.Exif)
	require.NotNil(t, img.Exif.ISO)
	assert.Equal(t, 400, *img.Exif.ISO)
	require.NotNil(t, img.Exif.CaptureDate)
	assert.Equal(t, 2023, img.Exif.CaptureDate.Year())
	assert.Nil(t, g.Images[1].Exif)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("images:\n  - path: a.jpg\n    titel: typo\n"))
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeDecode))
}

func TestParseEmpty(t *testing.T) {
	g, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, g.Images)
}

func TestInCollection(t *testing.T) {
	g, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"images/lisbon.jpg", "images/porto.jpg"}, Paths(g.InCollection("travel")))
	assert.Equal(t, []string{"images/lisbon.jpg", "images/alley.jpg"}, Paths(g.InCollection("street")))
	assert.Len(t, g.InCollection(""), 3)
	assert.Empty(t, g.InCollection("nope"))

	c, ok := g.Collection("street")
	assert.True(t, ok)
	assert.Equal(t, "Street", c.Name)
	_, ok = g.Collection("nope")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	g, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Images, 3)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound))
}

func TestMarshalRoundTrip(t *testing.T) {
	g, err := Parse([]byte(sample))
	require.NoError(t, err)
	data, err := Marshal(g)
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, g, again)
}

func TestMongoSource(t *testing.T) {
	uri := os.Getenv("PHOTOGRID_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PHOTOGRID_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	src, err := DialMongo(ctx, MongoConfig{URI: uri, Database: "photogrid_test", GalleryID: "roundtrip"})
	require.NoError(t, err)
	defer src.Close(ctx)

	g, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, src.Save(ctx, g))

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Paths(g.Images), Paths(got.Images))
}
