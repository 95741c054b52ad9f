package store

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/draw"
)

// ImageStore re-encodes image payloads as JPEG, optionally resizing them,
// before passing them to the next Store.
//
// The stored name gets a ".jpg" extension in place of the original one.
//
// Example:
//
//	s := NewImageStore(dirStore, 500)
//	err := s.Store(ctx, "br.gif", gifData) // stores "br.jpg", at most 500x500
type ImageStore struct {
	next    Store
	maxSize int
}

// NewImageStore wraps next. A maxSize of zero converts without resizing.
func NewImageStore(next Store, maxSize int) *ImageStore {
	return &ImageStore{next: next, maxSize: maxSize}
}

// Store converts data and stores it under name with a ".jpg" extension.
func (s *ImageStore) Store(ctx context.Context, name string, data []byte) error {
	var (
		out []byte
		err error
	)
	if s.maxSize > 0 {
		out, err = ResizeImage(data, s.maxSize, s.maxSize)
	} else {
		out, err = ConvertToJPEG(data)
	}
	if err != nil {
		return errors.Wrapf(err, "convert %s", name)
	}
	return s.next.Store(ctx, strings.TrimSuffix(name, filepath.Ext(name))+".jpg", out)
}

// Close closes the wrapped Store.
func (s *ImageStore) Close() error {
	return s.next.Close()
}

// ResizeImage resizes an image to fit within the given dimensions.
//
// The aspect ratio is preserved. Images that already fit are re-encoded
// unchanged in size. The result is JPEG-encoded, scaled with Catmull-Rom.
//
// Example:
//
//	resized, err := ResizeImage(imageData, 1000, 1000)
//	// A 1500x1000 image becomes 1000x666
func ResizeImage(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG re-encodes an image (GIF, PNG or JPEG) as JPEG.
func ConvertToJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
