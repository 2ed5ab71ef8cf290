package art

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// imaging registers jpeg, png, gif, bmp and tiff; webp is added here.
	_ "golang.org/x/image/webp"
)

var (
	// ErrInvalidImage is the parent of every decode failure.
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnsupportedFormat means no registered decoder recognised the bytes.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrInvalidImage)
	// ErrCorruptData means the format was recognised but the data did not decode.
	ErrCorruptData = fmt.Errorf("%w: corrupt data", ErrInvalidImage)
)

// Decode sniffs the image format from data and decodes it into a pixel grid.
// JPEG EXIF orientation is applied.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrCorruptData, b.Dx(), b.Dy())
	}
	return img, nil
}
