package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp" // WebP decoder
)

// DefaultThumbEdge is the target length of a thumbnail's longer edge.
const DefaultThumbEdge = 600

// thumbEncoders is the encoder preference order. There is no WebP
// encoder in the stack, so JPEG leads with PNG as the fallback when
// JPEG encoding fails.
var thumbEncoders = []struct {
	mime   string
	encode func(w io.Writer, img image.Image) error
}{
	{"image/jpeg", func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	}},
	{"image/png", func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	}},
}

// Thumbnail decodes data, scales it so the longer edge is at most
// maxEdge (never upscaling), and re-encodes it. Callers fall back to
// storing the original bytes when this fails; a bad image must never
// abort a batch.
func Thumbnail(data []byte, maxEdge uint) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	scaled := resize.Thumbnail(maxEdge, maxEdge, img, resize.Lanczos3)

	var lastErr error
	for _, enc := range thumbEncoders {
		var buf bytes.Buffer
		if err := enc.encode(&buf, scaled); err != nil {
			lastErr = err
			continue
		}
		return buf.Bytes(), enc.mime, nil
	}
	return nil, "", fmt.Errorf("encode thumbnail: %w", lastErr)
}
