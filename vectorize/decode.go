package vectorize

import (
	"bytes"
	"fmt"
	"image"

	// registered decoders for embedded images
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an embedded image payload. The format is
// sniffed from the content, not trusted from the mime type.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding embedded image: %w", err)
	}
	return img, format, nil
}
