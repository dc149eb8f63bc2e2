package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"
)

const (
	// maxDimension is the longest side an image may keep before OCR; larger
	// inputs are downscaled preserving aspect ratio. Small images are never
	// upscaled.
	maxDimension = 3000

	jpegQuality = 95
)

// preprocess normalizes a decoded page for the vision backend: alpha formats
// are flattened to an opaque canvas, oversized images are downscaled with a
// high-quality filter, and the result is re-encoded as JPEG.
func preprocess(img image.Image) ([]byte, error) {
	flattened := flatten(img)

	bounds := flattened.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := width
	if height > longest {
		longest = height
	}

	if longest > maxDimension {
		scale := float64(maxDimension) / float64(longest)
		targetW := int(float64(width) * scale)
		targetH := int(float64(height) * scale)
		if targetW < 1 {
			targetW = 1
		}
		if targetH < 1 {
			targetH = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), flattened, bounds, xdraw.Over, nil)
		flattened = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}

func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)
	return canvas
}
