package ggedit

import (
	"errors"

	"github.com/gogpu/ggedit/imageio"
)

// Import errors. They are reported per file and never abort a batch.
var (
	// ErrInvalidFileType is returned for files that are not PNG or JPEG.
	ErrInvalidFileType = imageio.ErrInvalidFileType

	// ErrDecodeFailed is returned when the image bytes cannot be decoded.
	ErrDecodeFailed = imageio.ErrDecodeFailed
)

// Export errors. A failed export never touches layer state.
var (
	// ErrNoSurface is returned when exporting a scene without layers.
	ErrNoSurface = errors.New("ggedit: no surface to export")

	// ErrRasterizationFailed is returned when no rasterizer can be acquired
	// or the rasterizer fails.
	ErrRasterizationFailed = errors.New("ggedit: rasterization failed")
)

// Render errors. The affected frame is skipped and the next input event
// triggers a new attempt.
var (
	// ErrMissingSurfaceContext is returned when no drawing surface can be
	// obtained, for example because the canvas has no size.
	ErrMissingSurfaceContext = errors.New("ggedit: missing surface context")
)

// ImportError reports a single file that could not be imported.
type ImportError struct {
	// Name is the file name as given by the caller.
	Name string

	// Err is ErrInvalidFileType or ErrDecodeFailed, possibly wrapped.
	Err error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	return "ggedit: import " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}
