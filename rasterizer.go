package ggedit

import (
	"context"
	"fmt"
	"image"
	"slices"
	"sync"
)

// DefaultRasterizer is the rasterizer used by Export unless another one is
// requested. It is registered by importing rasterizer/software.
const DefaultRasterizer = "software"

// Document is the input of a rasterizer: the scene together with its
// serialized vector form.
type Document struct {
	Scene *Scene

	// SVG is the scene's SVG document. Export fills it only for rasterizers
	// that implement SVGRasterizer and is nil otherwise.
	SVG []byte
}

// Rasterizer turns a document into pixels at the canvas's native size.
//
// Implementations return ErrMissingSurfaceContext when they cannot obtain a
// drawing surface, and must not modify the scene's layers.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc *Document) (*image.RGBA, error)
}

// SVGRasterizer is implemented by rasterizers that draw from Document.SVG,
// such as ones backed by an external SVG renderer. Rasterizers that render
// from Document.Scene, like rasterizer/software, need not implement it.
type SVGRasterizer interface {
	Rasterizer
	WantsSVG() bool
}

// RasterizerFactory creates a new rasterizer instance.
type RasterizerFactory func() Rasterizer

var (
	rasterizersMu sync.RWMutex
	rasterizers   = make(map[string]RasterizerFactory)
)

// RegisterRasterizer registers a rasterizer factory with the given name.
// It is typically called from init() in rasterizer packages, following the
// database/sql driver pattern:
//
//	func init() {
//	    ggedit.RegisterRasterizer("software", func() ggedit.Rasterizer {
//	        return New()
//	    })
//	}
//
// RegisterRasterizer panics if factory is nil or the name is taken.
func RegisterRasterizer(name string, factory RasterizerFactory) {
	rasterizersMu.Lock()
	defer rasterizersMu.Unlock()

	if factory == nil {
		panic("ggedit: RegisterRasterizer factory is nil")
	}
	if _, dup := rasterizers[name]; dup {
		panic("ggedit: RegisterRasterizer called twice for " + name)
	}
	rasterizers[name] = factory
}

// UnregisterRasterizer removes a rasterizer from the registry.
// This is primarily useful for testing.
func UnregisterRasterizer(name string) {
	rasterizersMu.Lock()
	defer rasterizersMu.Unlock()
	delete(rasterizers, name)
}

// NewRasterizer creates a rasterizer by name.
// The error wraps ErrRasterizationFailed if the name is not registered.
func NewRasterizer(name string) (Rasterizer, error) {
	rasterizersMu.RLock()
	factory, ok := rasterizers[name]
	rasterizersMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown rasterizer %q (forgotten import?)", ErrRasterizationFailed, name)
	}
	r := factory()
	if r == nil {
		return nil, fmt.Errorf("%w: rasterizer %q unavailable", ErrRasterizationFailed, name)
	}
	return r, nil
}

// Rasterizers returns the sorted names of the registered rasterizers.
func Rasterizers() []string {
	rasterizersMu.RLock()
	defer rasterizersMu.RUnlock()

	names := make([]string, 0, len(rasterizers))
	for name := range rasterizers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
