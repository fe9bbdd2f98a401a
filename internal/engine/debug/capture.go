// Package debug writes render targets to disk for inspection.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture saves render target contents as PNG files.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewCapture creates a capture writing into outputDir.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SaveRGBA writes RGBA8 pixels read back from GL. Rows arrive bottom first
// and are flipped so the file is upright.
func (c *Capture) SaveRGBA(label string, pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return c.save(label, img)
}

// SaveDepth writes a depth buffer as grayscale, stretched so the nearest
// sample is black and the farthest white.
func (c *Capture) SaveDepth(label string, depths []float32, width, height int) (string, error) {
	if len(depths) != width*height {
		return "", fmt.Errorf("depth data size mismatch: expected %d, got %d", width*height, len(depths))
	}

	lo, hi := float32(1), float32(0)
	for _, d := range depths {
		lo = min(lo, d)
		hi = max(hi, d)
	}
	scale := float32(0)
	if hi > lo {
		scale = 255 / (hi - lo)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * width
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((depths[src+x] - lo) * scale)})
		}
	}
	return c.save(label, img)
}

// Filename returns the path the next capture of label is written to.
func (c *Capture) Filename(label string) string {
	timestamp := c.now().Format("2006-01-02_15-04-05.000")
	name := fmt.Sprintf("%s_%s_%s.png", c.prefix, label, timestamp)
	if c.outputDir != "" {
		name = filepath.Join(c.outputDir, name)
	}
	return name
}

func (c *Capture) save(label string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename(label)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
