package transform

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := solidImage(20, 10, color.NRGBA{R: 9, G: 99, B: 199, A: 255})

	data, err := Encode(src, MIMEPNG)
	require.NoError(t, err)

	img, mime, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, mime)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())

	dataURL, err := EncodeDataURL(src, MIMEPNG)
	require.NoError(t, err)
	gotMIME, gotData, err := ParseDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, gotMIME)
	assert.Equal(t, data, gotData)
}

func TestDecodeCorruptBuffer(t *testing.T) {
	var de *DecodeError

	_, _, err := Decode([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.As(err, &de))

	_, _, err = Decode(nil)
	var iie *InvalidInputError
	require.Error(t, err)
	assert.True(t, errors.As(err, &iie))
}

func TestEncodeUnsupportedMediaType(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{A: 255})
	_, err := Encode(src, "image/webp")
	var de *DecodeError
	require.Error(t, err)
	assert.True(t, errors.As(err, &de))
}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid png payload", input: "data:image/png;base64,aGVsbG8=", wantErr: false},
		{name: "missing prefix", input: "image/png;base64,aGVsbG8=", wantErr: true},
		{name: "no comma", input: "data:image/png;base64", wantErr: true},
		{name: "not base64 encoded", input: "data:image/png,rawbytes", wantErr: true},
		{name: "invalid base64", input: "data:image/png;base64,!!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := ParseDataURL(tt.input)
			if tt.wantErr {
				var de *DecodeError
				require.Error(t, err)
				assert.True(t, errors.As(err, &de))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "image/png", mime)
			assert.Equal(t, []byte("hello"), data)
		})
	}
}

func TestRenderBufferEndToEnd(t *testing.T) {
	src := solidImage(100, 200, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	buf, err := Encode(src, MIMEPNG)
	require.NoError(t, err)

	adj := Identity()
	adj.RotationDegrees = 90

	res, err := RenderBuffer(buf, adj, MIMEPNG)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Equal(t, MIMEPNG, res.MIME)
	assert.Contains(t, res.DataURL, "data:image/png;base64,")

	// The data URL payload must round-trip back to the same raster.
	mime, data, err := ParseDataURL(res.DataURL)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, mime)
	decoded, _, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
}

func TestRenderBufferKeepsSourceFormat(t *testing.T) {
	src := solidImage(30, 30, color.NRGBA{R: 50, G: 60, B: 70, A: 255})
	buf, err := Encode(src, MIMEJPEG)
	require.NoError(t, err)

	res, err := RenderBuffer(buf, Identity(), "")
	require.NoError(t, err)
	assert.Equal(t, MIMEJPEG, res.MIME)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{name: "six digit", input: "#ff8000", want: color.NRGBA{R: 255, G: 128, B: 0, A: 255}},
		{name: "three digit", input: "#f80", want: color.NRGBA{R: 255, G: 136, B: 0, A: 255}},
		{name: "eight digit with alpha", input: "#ff800080", want: color.NRGBA{R: 255, G: 128, B: 0, A: 128}},
		{name: "no hash", input: "ffffff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "garbage", input: "#zzz", wantErr: true},
		{name: "wrong length", input: "#ffff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
