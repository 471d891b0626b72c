// Package imageio turns image files into bitmaps the editor can use as layers.
//
// Only PNG and JPEG files are accepted. Each file is decoded into an
// *image.RGBA, optionally scaled down so that neither side exceeds a
// maximum dimension, and re-encoded as a PNG data URL that vector
// documents can reference.
//
//	img, err := imageio.Decode(ctx, imageio.File{
//	    Name: "photo.jpg",
//	    Type: "image/jpeg",
//	    Data: data,
//	})
//	if errors.Is(err, imageio.ErrInvalidFileType) {
//	    // not an image we can import
//	}
package imageio
