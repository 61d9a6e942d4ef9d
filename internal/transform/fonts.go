package transform

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Overlay font families. These map onto the Go font set embedded via
// golang.org/x/image, so renders never depend on system fonts.
const (
	FamilyRegular    = "Go"
	FamilyBold       = "Go Bold"
	FamilyItalic     = "Go Italic"
	FamilyBoldItalic = "Go Bold Italic"
	FamilyMono       = "Go Mono"
)

// FamilyForStyle maps bold/italic attributes onto an overlay font family.
func FamilyForStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return FamilyBoldItalic
	case bold:
		return FamilyBold
	case italic:
		return FamilyItalic
	default:
		return FamilyRegular
	}
}

var (
	fontOnce   sync.Once
	fontsByKey map[string]*sfnt.Font
	fontErr    error
)

func loadFonts() {
	src := map[string][]byte{
		"regular":    goregular.TTF,
		"bold":       gobold.TTF,
		"italic":     goitalic.TTF,
		"bolditalic": gobolditalic.TTF,
		"mono":       gomono.TTF,
	}
	fontsByKey = make(map[string]*sfnt.Font, len(src))
	for key, ttf := range src {
		f, err := opentype.Parse(ttf)
		if err != nil {
			fontErr = fmt.Errorf("parse embedded font %s: %w", key, err)
			return
		}
		fontsByKey[key] = f
	}
}

func fontKeyForFamily(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "", "go", "go regular", "regular", "sans-serif":
		return "regular"
	case "go bold", "bold":
		return "bold"
	case "go italic", "italic":
		return "italic"
	case "go bold italic", "bold italic", "bolditalic":
		return "bolditalic"
	case "go mono", "mono", "monospace":
		return "mono"
	default:
		// Unknown families fall back to the regular face rather than
		// failing the whole render.
		return "regular"
	}
}

// newFace builds a fresh font.Face for one render. Faces are not safe for
// concurrent use, so each call gets its own; the parsed fonts behind them
// are immutable and shared.
func newFace(family string, sizePx float64) (font.Face, error) {
	fontOnce.Do(loadFonts)
	if fontErr != nil {
		return nil, fontErr
	}
	f := fontsByKey[fontKeyForFamily(family)]
	// DPI 72 makes point size equal pixel size.
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
