package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeDataURI(t *testing.T) {
	raw := testPNG(t, 4, 4)
	u, err := DecodeDataURI("data:image/PNG;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "png", u.Ext)
	assert.Equal(t, raw, u.Data)
}

func TestDecodeDataURI_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"plain text", "not an image", ErrInvalidImage},
		{"missing base64 marker", "data:image/png,AAAA", ErrInvalidImage},
		{"wrong media type", "data:text/plain;base64,AAAA", ErrInvalidImage},
		{"unsupported extension", "data:image/bmp;base64,AAAA", ErrUnsupportedType},
		{"bad payload", "data:image/png;base64,@@@", ErrInvalidImage},
		{"empty payload", "data:image/png;base64,", ErrInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURI(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessor_KeepsSmallImages(t *testing.T) {
	raw := testPNG(t, 20, 10)
	img, err := NewProcessor(100).Process(Upload{Data: raw, Ext: "png"})
	require.NoError(t, err)

	assert.Equal(t, raw, img.Data)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, 20, img.Width)
	assert.NotEmpty(t, img.BlurHash)
}

func TestProcessor_DownscalesWideImages(t *testing.T) {
	img, err := NewProcessor(50).Process(Upload{Data: testPNG(t, 200, 100), Ext: "png"})
	require.NoError(t, err)

	assert.Equal(t, 50, img.Width)
	assert.Equal(t, 25, img.Height)
	decoded, format, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 50, decoded.Bounds().Dx())
}

func TestProcessor_DownscaledJPEGStaysJPEG(t *testing.T) {
	src, _, err := image.Decode(bytes.NewReader(testPNG(t, 120, 60)))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := NewProcessor(60).Process(Upload{Data: buf.Bytes(), Ext: "jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "jpg", img.Ext)
	assert.Equal(t, "image/jpeg", img.ContentType)
}

func TestProcessor_InvalidImage(t *testing.T) {
	_, err := NewProcessor(0).Process(Upload{Data: []byte("definitely not a png"), Ext: "png"})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestNewFileName(t *testing.T) {
	a, err := NewFileName("png")
	require.NoError(t, err)
	b, err := NewFileName("png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, Dir+"/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}
