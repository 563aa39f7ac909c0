package dataset

import (
	"bytes"
	"fmt"
	"image"
	"os"

	// Decoders for the formats the supported datasets ship.
	_ "image/jpeg"
	_ "image/png"

	"github.com/vektoria/imgest/core"
)

// LoadImage reads an image file and validates it decodes as a supported
// format. The raw bytes are kept as-is for the extractor; only the header
// is decoded here.
func LoadImage(path string) (*core.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &core.Image{Path: path, Format: format, Data: data}, nil
}
