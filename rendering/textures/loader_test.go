package textures

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"solarsystem/core"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(2, 0, color.NRGBA{0, 0, 255, 255})
	img.Set(0, 1, color.NRGBA{10, 20, 30, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	img.Set(2, 1, color.NRGBA{0, 0, 0, 255})
	return img
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	encoders := []struct {
		name   string
		encode func(*bytes.Buffer, image.Image) error
	}{
		{"png", func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }},
		{"bmp", func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }},
		{"tif", func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) }},
	}

	for _, tc := range encoders {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tc.encode(&buf, testImage()))
			// a misleading extension must not matter
			path := writeFile(t, "texture.dat", buf.Bytes())

			img, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 3, img.Width)
			assert.Equal(t, 2, img.Height)
			assert.Len(t, img.Pix, 3*2*3)

			r, g, b := img.At(0, 0)
			assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
			r, g, b = img.At(2, 0)
			assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
			r, g, b = img.At(0, 1)
			assert.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{r, g, b})
		})
	}
}

func TestLoadErrors(t *testing.T) {
	var good bytes.Buffer
	require.NoError(t, png.Encode(&good, testImage()))
	corrupt := append([]byte{}, good.Bytes()[:16]...)
	corrupt = append(corrupt, bytes.Repeat([]byte{0xff}, 32)...)

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(t.TempDir(), "nope.png")},
		{"empty", writeFile(t, "empty.png", nil)},
		{"unsupported", writeFile(t, "notes.png", []byte("just some text, not an image"))},
		{"corrupt", writeFile(t, "broken.png", corrupt)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img, err := Load(tc.path)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, core.ErrAssetLoad)
		})
	}
}

func TestCache(t *testing.T) {
	calls := 0
	c := NewCache()
	c.load = func(path string) (*Image, error) {
		calls++
		if path == "bad" {
			return nil, errors.New("boom")
		}
		return &Image{Width: 1, Height: 1, Pix: []uint8{1, 2, 3}}, nil
	}

	a, err := c.Get("sun.jpg")
	require.NoError(t, err)
	b, err := c.Get("sun.jpg")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)

	_, err = c.Get("bad")
	assert.Error(t, err)
	_, err = c.Get("bad")
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, c.Len())
}
