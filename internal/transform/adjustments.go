package transform

import (
	"image/color"
	"strings"
)

// Domains of the adjustment factors. Values outside these ranges are either
// clamped (Clamp) or rejected (Validate), depending on the caller.
const (
	MinBrightness = 0.5
	MaxBrightness = 1.5
	MinContrast   = 0.5
	MaxContrast   = 2.0
	MinSaturation = 0.0
	MaxSaturation = 2.0
)

// VerticalAnchor selects where overlay text sits on the canvas.
type VerticalAnchor string

const (
	AnchorTop    VerticalAnchor = "top"
	AnchorMiddle VerticalAnchor = "middle"
	AnchorBottom VerticalAnchor = "bottom"
)

// TextOverlay describes one text layer composited onto a render. The overlay
// is always re-drawn from the un-overlaid source, never mutated in place, so
// changing any field cannot accumulate artifacts from a prior render.
type TextOverlay struct {
	Text           string
	FontFamily     string
	FontSizePx     int
	FillColor      color.NRGBA
	StrokeColor    color.NRGBA
	VerticalAnchor VerticalAnchor
}

// Empty reports whether the overlay would draw nothing. Whitespace-only text
// is a deliberate identity case, not an error.
func (o *TextOverlay) Empty() bool {
	return o == nil || strings.TrimSpace(o.Text) == ""
}

// AdjustmentSet is one rendering pass worth of named parameters. The zero
// value is not an identity; use Identity().
type AdjustmentSet struct {
	RotationDegrees  int
	BrightnessFactor float64
	ContrastFactor   float64
	SaturationFactor float64
	Overlay          *TextOverlay
}

// Identity returns an AdjustmentSet that renders the source unchanged.
func Identity() AdjustmentSet {
	return AdjustmentSet{
		BrightnessFactor: 1.0,
		ContrastFactor:   1.0,
		SaturationFactor: 1.0,
	}
}

// IsIdentity reports whether rendering with this set is a no-op.
func (a AdjustmentSet) IsIdentity() bool {
	return normalizeDegrees(a.RotationDegrees) == 0 &&
		a.BrightnessFactor == 1.0 &&
		a.ContrastFactor == 1.0 &&
		a.SaturationFactor == 1.0 &&
		a.Overlay.Empty()
}

// Validate signals OutOfRangeError for any factor outside its domain.
func (a AdjustmentSet) Validate() error {
	if a.BrightnessFactor < MinBrightness || a.BrightnessFactor > MaxBrightness {
		return &OutOfRangeError{Param: "brightnessFactor", Value: a.BrightnessFactor, Min: MinBrightness, Max: MaxBrightness}
	}
	if a.ContrastFactor < MinContrast || a.ContrastFactor > MaxContrast {
		return &OutOfRangeError{Param: "contrastFactor", Value: a.ContrastFactor, Min: MinContrast, Max: MaxContrast}
	}
	if a.SaturationFactor < MinSaturation || a.SaturationFactor > MaxSaturation {
		return &OutOfRangeError{Param: "saturationFactor", Value: a.SaturationFactor, Min: MinSaturation, Max: MaxSaturation}
	}
	if a.Overlay != nil && !a.Overlay.Empty() && a.Overlay.FontSizePx <= 0 {
		return &OutOfRangeError{Param: "fontSizePx", Value: float64(a.Overlay.FontSizePx), Min: 1, Max: 4096}
	}
	return nil
}

// Clamp saturates every factor to the nearest domain bound. Slider-driven
// callers cannot exceed the bounds by construction, but job payloads can.
func (a AdjustmentSet) Clamp() AdjustmentSet {
	a.BrightnessFactor = clampFloat(a.BrightnessFactor, MinBrightness, MaxBrightness)
	a.ContrastFactor = clampFloat(a.ContrastFactor, MinContrast, MaxContrast)
	a.SaturationFactor = clampFloat(a.SaturationFactor, MinSaturation, MaxSaturation)
	return a
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// normalizeDegrees maps any rotation (negative included) into [0, 360).
func normalizeDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
