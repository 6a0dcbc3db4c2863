// Package ocr wraps the external text-recognition engine behind a small
// interface so the rest of the pipeline never touches engine specifics.
package ocr

import "context"

// Input is a single rasterized page region submitted for recognition.
type Input struct {
	// Image is the PNG-encoded payload.
	Image []byte
	// DPI carries the effective dots-per-inch of the raster; zero means
	// unknown. The engine uses it for layout heuristics.
	DPI int
	// Language is a trained-data hint (e.g. "eng"); empty uses the
	// engine default.
	Language string
}

// Engine is the recognition contract: one image in, plain text out.
// Implementations must treat a failed recognition as an error and leave
// retry/recovery policy to the caller.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (string, error)
}
