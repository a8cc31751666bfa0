// Package avatar validates and normalizes uploaded avatar images. Every
// accepted upload is resized to a fixed square and re-encoded as PNG before
// it is stored.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Register the accepted input codecs with image.Decode.
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Upload constraints.
const (
	// MaxBytes is the largest accepted upload (1MB).
	MaxBytes = 1 << 20

	// Size is the width and height every stored avatar is resized to.
	Size = 250
)

// Common avatar processing errors.
var (
	// ErrTooLarge indicates the upload exceeds MaxBytes.
	ErrTooLarge = errors.New("avatar exceeds the maximum size of 1MB")

	// ErrUnsupportedFormat indicates a file extension outside
	// jpg/jpeg/png, or bytes that do not decode as an image.
	ErrUnsupportedFormat = errors.New("avatar must be a jpg, jpeg, or png image")
)

// allowedExtensions mirrors the upload contract: jpg, jpeg, png.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Process validates an uploaded avatar and returns it resized to Size×Size
// and encoded as PNG. The filename is only used for its extension.
func Process(filename string, data []byte) ([]byte, error) {
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFormat
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
