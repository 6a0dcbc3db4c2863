package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// CropTop returns the top fraction of a rasterized page. Boundary markers
// for this document family sit in the title block, so quick scans only
// recognize the top of the page. A fraction outside (0,1] returns the
// full image.
func CropTop(img image.Image, fraction float64) image.Image {
	b := img.Bounds()
	if fraction <= 0 || fraction >= 1 {
		return img
	}
	h := int(float64(b.Dy()) * fraction)
	if h < 1 {
		h = 1
	}
	src := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+h)
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)
	return out
}

// EncodePNG serializes an image for submission to the recognition engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
