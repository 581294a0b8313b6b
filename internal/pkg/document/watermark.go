package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// DefaultWatermarkText is stamped near the bottom of every page.
const DefaultWatermarkText = "Sri Venkateswara College of Engineering, Sriperumbadur"

const (
	watermarkImageOpacity = 0.08
	watermarkTextOpacity  = 0.15

	maxWatermarkBytes = 8 << 20
	// Longest edge after decoding; the image is drawn 80mm wide.
	maxWatermarkEdge = 1200
)

// ErrAssetUnavailable marks a watermark image that could not be loaded. It
// never leaves this package: LoadWatermark logs it and carries on.
var ErrAssetUnavailable = errors.New("watermark asset unavailable")

// AssetLoader fetches static assets. storage.FileStorage satisfies it.
type AssetLoader interface {
	Download(ctx context.Context, path string) (io.ReadCloser, error)
}

// Watermark is the background layer repeated on every page: an optional
// image and a text line. It is immutable once built.
type Watermark struct {
	text  string
	image []byte // PNG
}

// NewWatermark builds a watermark from already encoded PNG bytes. Empty text
// falls back to DefaultWatermarkText; nil image means text only.
func NewWatermark(text string, pngImage []byte) *Watermark {
	if strings.TrimSpace(text) == "" {
		text = DefaultWatermarkText
	}
	return &Watermark{text: text, image: pngImage}
}

// LoadWatermark loads the watermark image once for an export run. Any
// failure leaves a text-only watermark; it never returns an error.
func LoadWatermark(ctx context.Context, loader AssetLoader, path string, text string) *Watermark {
	if loader == nil || path == "" {
		return NewWatermark(text, nil)
	}

	img, err := loadWatermarkImage(ctx, loader, path)
	if err != nil {
		slog.Warn("Watermark image not found, continuing without it", "path", path, "error", err)
		return NewWatermark(text, nil)
	}
	return NewWatermark(text, img)
}

func (w *Watermark) Text() string {
	return w.text
}

func (w *Watermark) HasImage() bool {
	return len(w.image) > 0
}

// Image returns the PNG-encoded image, nil when unavailable.
func (w *Watermark) Image() []byte {
	return w.image
}

// Regions returns the watermark regions for one page, image first so the
// text sits above it.
func (w *Watermark) Regions(l Layout) []Region {
	var regions []Region
	if w.HasImage() {
		size := l.WatermarkSize
		regions = append(regions, Region{
			Kind:    RegionWatermarkImage,
			X:       l.PageWidth/2 - size/2,
			Y:       l.PageHeight/2 - size/2,
			W:       size,
			H:       size,
			Opacity: watermarkImageOpacity,
			Index:   -1,
		})
	}

	text := textRegion(RegionWatermarkText, l.PageWidth/2, l.PageHeight-l.WatermarkTextOffset, w.text, AlignCenter, 12, true, colorWatermark)
	text.Opacity = watermarkTextOpacity
	return append(regions, text)
}

func loadWatermarkImage(ctx context.Context, loader AssetLoader, path string) ([]byte, error) {
	rc, err := loader.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxWatermarkBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrAssetUnavailable, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrAssetUnavailable)
	}
	if len(raw) > maxWatermarkBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrAssetUnavailable, maxWatermarkBytes)
	}

	img, err := decodeImage(raw, path)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrAssetUnavailable, err)
	}
	img = downscaleIfNeeded(img, maxWatermarkEdge)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrAssetUnavailable, err)
	}
	return buf.Bytes(), nil
}

// decodeImage sniffs the content and falls back to the file extension.
func decodeImage(raw []byte, name string) (image.Image, error) {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(raw))
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(raw))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(raw))
	}

	switch {
	case strings.HasSuffix(strings.ToLower(name), ".webp"):
		return webp.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ct)
	}
}

// downscaleIfNeeded keeps the aspect ratio and uses CatmullRom for quality.
func downscaleIfNeeded(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	scale := math.Min(float64(maxEdge)/float64(w), float64(maxEdge)/float64(h))
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
