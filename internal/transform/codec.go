package transform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	// We must import the image formats we want to support,
	// even if we don't use them directly. This "registers"
	// their decoders with the standard 'image' package.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
)

// Supported output media types.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
	MIMEBMP  = "image/bmp"
	MIMETIFF = "image/tiff"
)

// formatForMIME maps a media type to the imaging.Format enum
func formatForMIME(mime string) (imaging.Format, error) {
	switch strings.ToLower(mime) {
	case MIMEJPEG, "image/jpg":
		return imaging.JPEG, nil
	case MIMEPNG:
		return imaging.PNG, nil
	case MIMEGIF:
		return imaging.GIF, nil
	case MIMEBMP:
		return imaging.BMP, nil
	case MIMETIFF:
		return imaging.TIFF, nil
	default:
		return -1, &DecodeError{Reason: fmt.Sprintf("unsupported media type: %s", mime)}
	}
}

// Decode decodes an encoded image buffer into a raster plus its detected
// media type. Corrupt input signals DecodeError, never a partial raster.
func Decode(buffer []byte) (image.Image, string, error) {
	if len(buffer) == 0 {
		return nil, "", &InvalidInputError{Reason: "empty source buffer"}
	}
	img, formatStr, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, "", &DecodeError{Reason: "corrupt image data", Err: err}
	}
	return img, "image/" + formatStr, nil
}

// Encode re-encodes a raster into the requested media type.
func Encode(img image.Image, mime string) ([]byte, error) {
	format, err := formatForMIME(mime)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, format); err != nil {
		return nil, &DecodeError{Reason: "encode failed", Err: err}
	}
	return buf.Bytes(), nil
}

// ParseDataURL splits a data:<mime>;base64,<payload> string into its media
// type and decoded payload bytes.
func ParseDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, &DecodeError{Reason: "not a data URL"}
	}
	rest := strings.TrimPrefix(s, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", nil, &DecodeError{Reason: "data URL has no payload separator"}
	}
	meta, payload := rest[:comma], rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, &DecodeError{Reason: "data URL payload is not base64"}
	}
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &DecodeError{Reason: "invalid base64 payload", Err: err}
	}
	return mime, data, nil
}

// EncodeDataURL encodes a raster and wraps it as a data URL.
func EncodeDataURL(img image.Image, mime string) (string, error) {
	data, err := Encode(img, mime)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
