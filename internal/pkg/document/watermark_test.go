package document

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLoader struct {
	files map[string][]byte
	err   error
}

func (m *memLoader) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadWatermark_MissingAsset(t *testing.T) {
	loader := &memLoader{err: errors.New("connection refused")}

	wm := LoadWatermark(context.Background(), loader, "assets/svce.png", "")

	require.NotNil(t, wm)
	assert.False(t, wm.HasImage())
	assert.Equal(t, DefaultWatermarkText, wm.Text())

	regions := wm.Regions(DefaultLayout())
	require.Len(t, regions, 1)
	assert.Equal(t, RegionWatermarkText, regions[0].Kind)
}

func TestLoadWatermark_NoLoader(t *testing.T) {
	wm := LoadWatermark(context.Background(), nil, "assets/svce.png", "Custom College")
	assert.False(t, wm.HasImage())
	assert.Equal(t, "Custom College", wm.Text())

	wm = LoadWatermark(context.Background(), &memLoader{}, "", "")
	assert.False(t, wm.HasImage())
}

func TestLoadWatermark_PNG(t *testing.T) {
	loader := &memLoader{files: map[string][]byte{"assets/svce.png": encodePNG(t, 64, 64)}}

	wm := LoadWatermark(context.Background(), loader, "assets/svce.png", "")
	require.True(t, wm.HasImage())

	cfg, format, err := image.DecodeConfig(bytes.NewReader(wm.Image()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)

	l := DefaultLayout()
	regions := wm.Regions(l)
	require.Len(t, regions, 2)
	img := regions[0]
	assert.Equal(t, RegionWatermarkImage, img.Kind)
	assert.Equal(t, 65.0, img.X)
	assert.Equal(t, 108.5, img.Y)
	assert.Equal(t, 80.0, img.W)
	assert.Equal(t, 80.0, img.H)
}

func TestLoadWatermark_Downscale(t *testing.T) {
	loader := &memLoader{files: map[string][]byte{"big.png": encodePNG(t, 2400, 600)}}

	wm := LoadWatermark(context.Background(), loader, "big.png", "")
	require.True(t, wm.HasImage())

	cfg, _, err := image.DecodeConfig(bytes.NewReader(wm.Image()))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestLoadWatermark_Garbage(t *testing.T) {
	loader := &memLoader{files: map[string][]byte{
		"logo.png":  []byte("definitely not an image"),
		"empty.png": {},
	}}

	for _, path := range []string{"logo.png", "empty.png"} {
		wm := LoadWatermark(context.Background(), loader, path, "")
		assert.False(t, wm.HasImage(), path)
	}
}

func TestLoadWatermarkImage_WrapsAssetError(t *testing.T) {
	_, err := loadWatermarkImage(context.Background(), &memLoader{}, "missing.png")
	assert.ErrorIs(t, err, ErrAssetUnavailable)
}
