package transform

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ApplyTextOverlay composites one text layer onto the source image. The
// source is drawn first, unscaled and unrotated; the text is horizontally
// centered and vertically anchored per the overlay. The stroke pass runs
// before the fill pass to produce the outlined-text effect.
//
// Empty or whitespace-only text is the documented identity case: the output
// equals the input.
func ApplyTextOverlay(img image.Image, o *TextOverlay) (image.Image, error) {
	if err := checkSource(img); err != nil {
		return nil, err
	}
	if o.Empty() {
		return imaging.Clone(img), nil
	}
	if o.FontSizePx <= 0 {
		return nil, &OutOfRangeError{Param: "fontSizePx", Value: float64(o.FontSizePx), Min: 1, Max: 4096}
	}

	face, err := newFace(o.FontFamily, float64(o.FontSizePx))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dst := imaging.Clone(img)
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()

	// Horizontal center: the string midpoint lands on x = width/2.
	advance := font.MeasureString(face, o.Text)
	x := fixed.I(w/2) - advance/2

	// Vertical anchor positions the baseline one font-size in from the
	// edge for top/bottom, and at the midline for middle.
	var y fixed.Int26_6
	switch o.VerticalAnchor {
	case AnchorTop:
		y = fixed.I(o.FontSizePx)
	case AnchorBottom:
		y = fixed.I(h - o.FontSizePx)
	default:
		y = fixed.I(h / 2)
	}

	d := &font.Drawer{Dst: dst, Face: face}

	// Stroke: ring of offset draws at radius fontSize/20 around the same
	// center point, drawn before the fill.
	strokeWidth := o.FontSizePx / 20
	if strokeWidth < 1 {
		strokeWidth = 1
	}
	d.Src = image.NewUniform(o.StrokeColor)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.Point26_6{
				X: x + fixed.I(dx*strokeWidth),
				Y: y + fixed.I(dy*strokeWidth),
			}
			d.DrawString(o.Text)
		}
	}

	// Fill on top, at the exact anchor point.
	d.Src = image.NewUniform(o.FillColor)
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(o.Text)

	return dst, nil
}
