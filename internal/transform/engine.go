// Package transform is the raster transform engine: rotation and brightness
// compositing, contrast and saturation compositing, and text-overlay
// compositing. Every render is a pure pass over a fresh offscreen buffer;
// the engine keeps no state between calls. All channel math is 8-bit sRGB
// with a clamp to [0,255] after every arithmetic step.
package transform

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RenderResult is one encoded output image plus its final pixel dimensions.
// It is computed synchronously per request and never cached by the engine.
type RenderResult struct {
	Data    []byte
	DataURL string
	MIME    string
	Width   int
	Height  int
}

func checkSource(img image.Image) error {
	if img == nil {
		return &InvalidInputError{Reason: "nil source image"}
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return &InvalidInputError{Reason: "zero-area source image"}
	}
	return nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ApplyGeometry rotates the source about its center onto a bounding-box
// canvas, then scales every RGB channel by the brightness factor (alpha
// untouched). Rotation 0 with brightness 1.0 is a no-op.
func ApplyGeometry(img image.Image, rotationDegrees int, brightnessFactor float64) (image.Image, error) {
	if err := checkSource(img); err != nil {
		return nil, err
	}

	deg := normalizeDegrees(rotationDegrees)
	if deg == 0 && brightnessFactor == 1.0 {
		return imaging.Clone(img), nil
	}

	// 1. Rotate. Multiples of 90 take the exact paths; anything else goes
	// through the general bounding-box rotation.
	var rotated image.Image
	switch deg {
	case 0:
		rotated = img
	case 90:
		rotated = imaging.Rotate90(img)
	case 180:
		rotated = imaging.Rotate180(img)
	case 270:
		rotated = imaging.Rotate270(img)
	default:
		rotated = imaging.Rotate(img, float64(deg), color.NRGBA{})
	}

	// 2. Brightness is a uniform multiplier on the RGB channels.
	if brightnessFactor == 1.0 {
		return imaging.Clone(rotated), nil
	}
	out := imaging.AdjustFunc(rotated, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: uint8(clamp255(float64(c.R)*brightnessFactor) + 0.5),
			G: uint8(clamp255(float64(c.G)*brightnessFactor) + 0.5),
			B: uint8(clamp255(float64(c.B)*brightnessFactor) + 0.5),
			A: c.A,
		}
	})
	return out, nil
}

// ApplyTone adjusts contrast, then saturation, per pixel. Order matters:
// the saturation blend is defined relative to the contrast-adjusted color,
// interpolating between its luminance gray and the color itself. Output
// dimensions equal source dimensions.
func ApplyTone(img image.Image, contrastFactor, saturationFactor float64) (image.Image, error) {
	if err := checkSource(img); err != nil {
		return nil, err
	}
	if contrastFactor == 1.0 && saturationFactor == 1.0 {
		return imaging.Clone(img), nil
	}

	out := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		// 1. Contrast: out = (in - 128) * factor + 128, clamped.
		r := clamp255((float64(c.R)-128)*contrastFactor + 128)
		g := clamp255((float64(c.G)-128)*contrastFactor + 128)
		b := clamp255((float64(c.B)-128)*contrastFactor + 128)

		// 2. Saturation: blend between the luminance gray and the
		// contrast-adjusted color. 0 fully desaturates, 1 is a no-op.
		gray := 0.299*r + 0.587*g + 0.114*b
		r = clamp255(gray + (r-gray)*saturationFactor)
		g = clamp255(gray + (g-gray)*saturationFactor)
		b = clamp255(gray + (b-gray)*saturationFactor)

		return color.NRGBA{
			R: uint8(r + 0.5),
			G: uint8(g + 0.5),
			B: uint8(b + 0.5),
			A: c.A,
		}
	})
	return out, nil
}

// Render runs the full pipeline: geometry and brightness, then tone, then
// the optional text overlay. It validates the adjustment domains; callers
// fed by unclamped payloads should Clamp first.
func Render(img image.Image, adj AdjustmentSet) (image.Image, error) {
	if err := checkSource(img); err != nil {
		return nil, err
	}
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	if adj.IsIdentity() {
		return imaging.Clone(img), nil
	}

	out, err := ApplyGeometry(img, adj.RotationDegrees, adj.BrightnessFactor)
	if err != nil {
		return nil, err
	}
	out, err = ApplyTone(out, adj.ContrastFactor, adj.SaturationFactor)
	if err != nil {
		return nil, err
	}
	if !adj.Overlay.Empty() {
		out, err = ApplyTextOverlay(out, adj.Overlay)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RenderBuffer decodes an encoded source image, renders it with the given
// adjustments, and re-encodes. An empty outMIME keeps the detected source
// media type, which preserves prior compression characteristics.
func RenderBuffer(buffer []byte, adj AdjustmentSet, outMIME string) (*RenderResult, error) {
	// 1. Decode
	img, srcMIME, err := Decode(buffer)
	if err != nil {
		return nil, err
	}

	// 2. Transform
	out, err := Render(img, adj)
	if err != nil {
		return nil, err
	}

	// 3. Re-encode
	if outMIME == "" {
		outMIME = srcMIME
	}
	data, err := Encode(out, outMIME)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Data:    data,
		DataURL: fmt.Sprintf("data:%s;base64,%s", outMIME, base64.StdEncoding.EncodeToString(data)),
		MIME:    outMIME,
		Width:   out.Bounds().Dx(),
		Height:  out.Bounds().Dy(),
	}, nil
}

// RenderDataURL is RenderBuffer for data:<mime>;base64,<payload> sources.
func RenderDataURL(src string, adj AdjustmentSet, outMIME string) (*RenderResult, error) {
	_, data, err := ParseDataURL(src)
	if err != nil {
		return nil, err
	}
	return RenderBuffer(data, adj, outMIME)
}
