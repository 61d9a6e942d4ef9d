package handlers

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/scanbill/go-workers/internal/aws"
	"github.com/scanbill/go-workers/internal/transform"
	"github.com/scanbill/go-workers/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, dir, key string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	data, err := transform.Encode(img, transform.MIMEPNG)
	require.NoError(t, err)

	path := filepath.Join(dir, key)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestRenderImageEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "raw/bill.png", 100, 200)

	h := NewRenderHandler(aws.NewS3Service(nil, "test-bucket", dir, dir))

	job := types.RenderJob{
		Id:         "job-1",
		S3RawKey:   "raw/bill.png",
		OutputMIME: transform.MIMEPNG,
		AdjustmentParameters: `{
			"rotationDegrees": 90,
			"brightnessFactor": 1.0,
			"contrastFactor": 1.0,
			"saturationFactor": 1.0
		}`,
	}

	key, err := h.RenderImage(job)
	require.NoError(t, err)
	assert.Equal(t, "processed/bill.png", key)

	data, err := os.ReadFile(filepath.Join(dir, "processed", "bill.png"))
	require.NoError(t, err)

	img, mime, err := transform.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, transform.MIMEPNG, mime)
	assert.Equal(t, 200, img.Bounds().Dx(), "90 degree rotation swaps dimensions")
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestRenderImageWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "raw/photo.jpg", 300, 300)

	h := NewRenderHandler(aws.NewS3Service(nil, "test-bucket", dir, dir))

	job := types.RenderJob{
		Id:         "job-2",
		S3RawKey:   "raw/photo.jpg",
		OutputMIME: transform.MIMEPNG,
		AdjustmentParameters: `{
			"brightnessFactor": 1.0,
			"contrastFactor": 1.0,
			"saturationFactor": 1.0,
			"textOverlay": {
				"text": "PAID",
				"fontSizePx": 48,
				"fillColor": "#ff0000",
				"strokeColor": "#000000",
				"verticalAnchor": "bottom",
				"bold": true
			}
		}`,
	}

	key, err := h.RenderImage(job)
	require.NoError(t, err)
	// Overlay renders go out as PNG, so the extension follows.
	assert.Equal(t, "processed/photo.png", key)
}

func TestRenderImageBadParameters(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "raw/x.png", 10, 10)

	h := NewRenderHandler(aws.NewS3Service(nil, "test-bucket", dir, dir))

	_, err := h.RenderImage(types.RenderJob{
		S3RawKey:             "raw/x.png",
		AdjustmentParameters: "{not json",
	})
	assert.Error(t, err)
}

func TestRenderImageMissingSource(t *testing.T) {
	dir := t.TempDir()
	h := NewRenderHandler(aws.NewS3Service(nil, "test-bucket", dir, dir))

	_, err := h.RenderImage(types.RenderJob{
		S3RawKey:             "raw/nope.png",
		AdjustmentParameters: `{"brightnessFactor":1,"contrastFactor":1,"saturationFactor":1}`,
	})
	assert.Error(t, err)
}

func TestBuildAdjustmentsClampsFactors(t *testing.T) {
	adj, err := buildAdjustments(&types.AdjustmentParams{
		BrightnessFactor: 9.0,
		ContrastFactor:   0.0,
		SaturationFactor: 5.0,
	})
	require.NoError(t, err)
	assert.Equal(t, transform.MaxBrightness, adj.BrightnessFactor)
	assert.Equal(t, transform.MinContrast, adj.ContrastFactor)
	assert.Equal(t, transform.MaxSaturation, adj.SaturationFactor)
}

func TestBuildAdjustmentsOverlayFamilyFromStyle(t *testing.T) {
	tests := []struct {
		name   string
		bold   bool
		italic bool
		want   string
	}{
		{name: "regular", want: transform.FamilyRegular},
		{name: "bold", bold: true, want: transform.FamilyBold},
		{name: "bold italic", bold: true, italic: true, want: transform.FamilyBoldItalic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := buildAdjustments(&types.AdjustmentParams{
				BrightnessFactor: 1,
				ContrastFactor:   1,
				SaturationFactor: 1,
				TextOverlay: &types.OverlayParams{
					Text:           "HI",
					FontSizePx:     20,
					FillColor:      "#fff",
					StrokeColor:    "#000",
					VerticalAnchor: "top",
					Bold:           tt.bold,
					Italic:         tt.italic,
				},
			})
			require.NoError(t, err)
			require.NotNil(t, adj.Overlay)
			assert.Equal(t, tt.want, adj.Overlay.FontFamily)
		})
	}
}

func TestBuildAdjustmentsBadColor(t *testing.T) {
	_, err := buildAdjustments(&types.AdjustmentParams{
		BrightnessFactor: 1,
		ContrastFactor:   1,
		SaturationFactor: 1,
		TextOverlay: &types.OverlayParams{
			Text:       "HI",
			FontSizePx: 20,
			FillColor:  "not-a-color",
		},
	})
	assert.Error(t, err)
}

func TestFinalKeyFor(t *testing.T) {
	tests := []struct {
		name    string
		rawKey  string
		mime    string
		want    string
		wantErr bool
	}{
		{name: "keep extension", rawKey: "raw/a.png", mime: "", want: "a.png"},
		{name: "swap to jpg", rawKey: "raw/a.png", mime: transform.MIMEJPEG, want: "a.jpg"},
		{name: "swap to png", rawKey: "raw/scan.jpeg", mime: transform.MIMEPNG, want: "scan.png"},
		{name: "no prefix", rawKey: "a.png", mime: "", wantErr: true},
		{name: "no extension with conversion", rawKey: "raw/noext", mime: transform.MIMEPNG, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finalKeyFor(tt.rawKey, tt.mime)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
