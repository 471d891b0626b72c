// Command ggedit replays ggedit projects from the command line.
//
// A project is a YAML file listing the images to import, the per-layer
// settings, and a script of tool changes and pointer events. ggedit builds
// a session from it and writes the flattened PNG or the SVG document.
//
// Usage:
//
//	ggedit render project.yaml -o image.png
//	ggedit svg project.yaml > scene.svg
//	ggedit rasterizers
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/gogpu/ggedit/rasterizer/software"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
