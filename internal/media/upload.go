// Package media decodes uploaded recipe images and prepares them for storage.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrUnsupportedType is returned for image types other than jpeg, png, gif and webp.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrInvalidImage is returned when the payload is not a decodable image.
	ErrInvalidImage = errors.New("invalid image")
)

// Dir is the storage prefix for recipe images.
const Dir = "recipes/images"

var allowedExt = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Upload is a raw image as received from a client.
type Upload struct {
	Data []byte
	// Ext is the declared extension without the dot, lowercased.
	Ext string
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>".
func DecodeDataURI(s string) (Upload, error) {
	const prefix = "data:image/"
	header, payload, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok || !strings.HasPrefix(header, prefix) || !strings.HasSuffix(header, ";base64") {
		return Upload{}, fmt.Errorf("%w: expected data:image/<ext>;base64,<payload>", ErrInvalidImage)
	}
	ext := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, prefix), ";base64"))
	if !allowedExt[ext] {
		return Upload{}, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return Upload{Data: data, Ext: ext}, nil
}

// FromFile reads a multipart file part; the extension comes from its filename.
func FromFile(fh *multipart.FileHeader) (Upload, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if !allowedExt[ext] {
		return Upload{}, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	return Upload{Data: data, Ext: ext}, nil
}

// NewFileName returns a unique storage key under Dir with the given extension.
func NewFileName(ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return Dir + "/" + id + "." + ext, nil
}
