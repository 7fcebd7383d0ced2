package textures

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"sync"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"solarsystem/core"
)

// Image is a decoded texture with tightly packed RGB rows, top row first.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

type decoder func(*bytes.Reader) (image.Image, error)

var decoders = map[string]decoder{
	"png": func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
	"jpg": func(r *bytes.Reader) (image.Image, error) { return jpeg.Decode(r) },
	"gif": func(r *bytes.Reader) (image.Image, error) { return gif.Decode(r) },
	"bmp": func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
	"tif": func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
}

// Load reads an image file and converts it to RGB. The format is detected
// from the file header, not the extension.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %v: %w", path, err, core.ErrAssetLoad)
	}
	return Decode(path, data)
}

// Decode converts an in-memory image to RGB. name is only used in errors.
func Decode(name string, data []byte) (*Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %v: %w", name, err, core.ErrAssetLoad)
	}
	dec, ok := decoders[kind.Extension]
	if !ok {
		return nil, fmt.Errorf("texture %s: unsupported format %q: %w", name, kind.MIME.Value, core.ErrAssetLoad)
	}
	src, err := dec(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture %s: decode %s: %v: %w", name, kind.Extension, err, core.ErrAssetLoad)
	}
	return fromImage(src), nil
}

func fromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	img := &Image{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint8, 0, b.Dx()*b.Dy()*3)}
	for y := 0; y < img.Height; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+img.Width*4]
		for x := 0; x < len(row); x += 4 {
			img.Pix = append(img.Pix, row[x], row[x+1], row[x+2])
		}
	}
	return img
}

// At returns the RGB triple at (x, y).
func (img *Image) At(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Cache loads each path once. It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	images map[string]*Image
	load   func(string) (*Image, error)
}

// NewCache creates an empty cache backed by Load.
func NewCache() *Cache {
	return &Cache{images: make(map[string]*Image), load: Load}
}

// Get returns the image at path, loading it on first use. Failed loads are
// not cached.
func (c *Cache) Get(path string) (*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[path]; ok {
		return img, nil
	}
	img, err := c.load(path)
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}
