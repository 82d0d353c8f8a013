package raster

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
)

// Load decodes a PNG, JPEG or GIF file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image '%s': %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}
	return img, nil
}

// LoadTarget decodes path into a Target.
func LoadTarget(path string) (*Target, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewTarget(img), nil
}

// Save writes the genome to path as a PNG.
func (img *Image) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image '%s': %w", path, err)
	}
	if err := png.Encode(f, img.RGBA()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image '%s': %w", path, err)
	}
	return f.Close()
}
