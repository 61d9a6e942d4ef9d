package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	overlayWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	overlayBlack = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// inkBounds finds the bounding box of pixels that differ from the
// background color, or ok=false when nothing was drawn.
func inkBounds(img image.Image, background color.NRGBA) (minX, minY, maxX, maxY int, ok bool) {
	nrgba := img.(*image.NRGBA)
	b := nrgba.Bounds()
	minX, minY = b.Max.X, b.Max.Y
	maxX, maxY = -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if nrgba.NRGBAAt(x, y) != background {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	return minX, minY, maxX, maxY, maxX >= 0
}

func TestOverlayEmptyTextIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "whitespace only", text: "   \t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solidImage(50, 50, color.NRGBA{R: 120, G: 30, B: 60, A: 255})
			out, err := ApplyTextOverlay(src, &TextOverlay{
				Text:           tt.text,
				FontSizePx:     32,
				FillColor:      overlayBlack,
				VerticalAnchor: AnchorMiddle,
			})
			require.NoError(t, err)

			_, _, _, _, drew := inkBounds(out, color.NRGBA{R: 120, G: 30, B: 60, A: 255})
			assert.False(t, drew, "empty overlay must leave every pixel unchanged")
		})
	}
}

func TestOverlayTopAnchorPlacement(t *testing.T) {
	// "HI" at 64px, anchored top on a 500x500 white canvas: baseline sits
	// at y=64, so all ink lands above it, horizontally centered on x=250.
	src := solidImage(500, 500, overlayWhite)
	out, err := ApplyTextOverlay(src, &TextOverlay{
		Text:           "HI",
		FontFamily:     FamilyRegular,
		FontSizePx:     64,
		FillColor:      overlayBlack,
		StrokeColor:    overlayBlack,
		VerticalAnchor: AnchorTop,
	})
	require.NoError(t, err)

	minX, minY, maxX, maxY, drew := inkBounds(out, overlayWhite)
	require.True(t, drew, "overlay should have drawn something")

	// H and I have no descenders; the stroke ring can push a few pixels
	// past the baseline.
	assert.LessOrEqual(t, maxY, 64+4)
	assert.GreaterOrEqual(t, minY, 0)
	assert.Less(t, maxY-minY, 80, "ink should stay within one line of text")

	center := (minX + maxX) / 2
	assert.InDelta(t, 250, center, 8, "text should be horizontally centered")
}

func TestOverlayAnchors(t *testing.T) {
	tests := []struct {
		name    string
		anchor  VerticalAnchor
		checkY  func(t *testing.T, minY, maxY int)
		comment string
	}{
		{
			name:   "top",
			anchor: AnchorTop,
			checkY: func(t *testing.T, minY, maxY int) {
				assert.Less(t, maxY, 80)
			},
		},
		{
			name:   "middle",
			anchor: AnchorMiddle,
			checkY: func(t *testing.T, minY, maxY int) {
				// Baseline at height/2 = 150; cap height of a 40px face
				// puts ink roughly in [110, 155].
				assert.Greater(t, maxY, 100)
				assert.Less(t, maxY, 160)
			},
		},
		{
			name:   "bottom",
			anchor: AnchorBottom,
			checkY: func(t *testing.T, minY, maxY int) {
				// Baseline at height - fontSize = 260.
				assert.Greater(t, minY, 200)
				assert.LessOrEqual(t, maxY, 264)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solidImage(300, 300, overlayWhite)
			out, err := ApplyTextOverlay(src, &TextOverlay{
				Text:           "SCAN",
				FontSizePx:     40,
				FillColor:      overlayBlack,
				StrokeColor:    overlayBlack,
				VerticalAnchor: tt.anchor,
			})
			require.NoError(t, err)

			_, minY, _, maxY, drew := inkBounds(out, overlayWhite)
			require.True(t, drew)
			tt.checkY(t, minY, maxY)
		})
	}
}

func TestOverlayStrokeDrawnUnderFill(t *testing.T) {
	// Red fill over a green stroke: both colors must be present, proving
	// the stroke pass ran and the fill pass landed on top of it.
	red := color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	green := color.NRGBA{R: 0, G: 255, B: 0, A: 255}

	src := solidImage(400, 200, overlayWhite)
	out, err := ApplyTextOverlay(src, &TextOverlay{
		Text:           "BILL",
		FontSizePx:     80,
		FillColor:      red,
		StrokeColor:    green,
		VerticalAnchor: AnchorMiddle,
	})
	require.NoError(t, err)

	nrgba := out.(*image.NRGBA)
	var sawRed, sawGreen bool
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			switch c := nrgba.NRGBAAt(x, y); {
			case c.R > 200 && c.G < 60 && c.B < 60:
				sawRed = true
			case c.G > 200 && c.R < 60 && c.B < 60:
				sawGreen = true
			}
		}
	}
	assert.True(t, sawRed, "fill color should be visible")
	assert.True(t, sawGreen, "stroke color should peek out around the fill")
}

func TestOverlayPureRerender(t *testing.T) {
	// Re-rendering with a changed overlay must start from the un-overlaid
	// source: the first overlay's ink can never leak into the second.
	src := solidImage(200, 100, overlayWhite)

	first, err := ApplyTextOverlay(src, &TextOverlay{
		Text:           "AAAA",
		FontSizePx:     48,
		FillColor:      overlayBlack,
		StrokeColor:    overlayBlack,
		VerticalAnchor: AnchorTop,
	})
	require.NoError(t, err)
	_, _, _, _, drew := inkBounds(first, overlayWhite)
	require.True(t, drew)

	second, err := ApplyTextOverlay(src, &TextOverlay{
		Text:           "B",
		FontSizePx:     20,
		FillColor:      overlayBlack,
		StrokeColor:    overlayBlack,
		VerticalAnchor: AnchorBottom,
	})
	require.NoError(t, err)

	// All of the second render's ink sits in the bottom band; none of the
	// first render's top-anchored ink is present.
	_, minY, _, _, drew := inkBounds(second, overlayWhite)
	require.True(t, drew)
	assert.Greater(t, minY, 50)
}

func TestOverlayDimensionsUnchanged(t *testing.T) {
	src := solidImage(123, 77, overlayWhite)
	out, err := ApplyTextOverlay(src, &TextOverlay{
		Text:           "X",
		FontSizePx:     24,
		FillColor:      overlayBlack,
		VerticalAnchor: AnchorMiddle,
	})
	require.NoError(t, err)
	assert.Equal(t, 123, out.Bounds().Dx())
	assert.Equal(t, 77, out.Bounds().Dy())
}

func TestFamilyForStyle(t *testing.T) {
	assert.Equal(t, FamilyRegular, FamilyForStyle(false, false))
	assert.Equal(t, FamilyBold, FamilyForStyle(true, false))
	assert.Equal(t, FamilyItalic, FamilyForStyle(false, true))
	assert.Equal(t, FamilyBoldItalic, FamilyForStyle(true, true))
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	src := solidImage(100, 100, overlayWhite)
	out, err := ApplyTextOverlay(src, &TextOverlay{
		Text:           "OK",
		FontFamily:     "Comic Sans MS",
		FontSizePx:     30,
		FillColor:      overlayBlack,
		VerticalAnchor: AnchorMiddle,
	})
	require.NoError(t, err)
	_, _, _, _, drew := inkBounds(out, overlayWhite)
	assert.True(t, drew)
}
