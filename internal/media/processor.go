package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"

	"github.com/bbrks/go-blurhash"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// blurHashSize bounds the thumbnail the placeholder is computed from.
const blurHashSize = 64

// Image is an upload ready to be stored.
type Image struct {
	Data        []byte
	Ext         string
	ContentType string
	BlurHash    string
	Width       int
	Height      int
}

// Processor validates uploads and downscales images wider than MaxWidth.
type Processor struct {
	MaxWidth int
}

// NewProcessor creates a Processor; maxWidth <= 0 disables downscaling.
func NewProcessor(maxWidth int) *Processor {
	return &Processor{MaxWidth: maxWidth}
}

// Process decodes u, resizes it when needed and computes its BlurHash.
// Resized images are re-encoded as JPEG when the source was JPEG and as PNG otherwise.
func (p *Processor) Process(u Upload) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	out := &Image{
		Data:        u.Data,
		Ext:         u.Ext,
		ContentType: "image/" + format,
	}

	if p.MaxWidth > 0 && img.Bounds().Dx() > p.MaxWidth {
		img = resize.Resize(uint(p.MaxWidth), 0, img, resize.Lanczos3)
		var buf bytes.Buffer
		if format == "jpeg" {
			err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
			out.Ext, out.ContentType = "jpg", "image/jpeg"
		} else {
			err = png.Encode(&buf, img)
			out.Ext, out.ContentType = "png", "image/png"
		}
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		out.Data = buf.Bytes()
	}

	out.Width, out.Height = img.Bounds().Dx(), img.Bounds().Dy()

	thumb := resize.Thumbnail(blurHashSize, blurHashSize, img, resize.NearestNeighbor)
	hash, err := blurhash.Encode(4, 3, thumb)
	if err != nil {
		return nil, fmt.Errorf("encode blurhash: %w", err)
	}
	out.BlurHash = hash
	return out, nil
}
