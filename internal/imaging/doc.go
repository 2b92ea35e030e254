// Package imaging wraps the image operations the mosaic engine depends on:
// decoding, encoding, palette quantization, resizing, cropping and pasting.
//
// The mosaic core only relies on the semantics of these functions, not on the
// libraries behind them (disintegration/imaging for resampling and encoding,
// go-quantize for median-cut palettes, bild for buffer conversion).
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the image
// origin:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (left,top) is inclusive and (right,bottom) is exclusive
//
// Every function that produces an image returns a fresh buffer with its origin
// at (0,0); inputs are never modified except for the destination of Paste.
//
// # Formats
//
// Decoding accepts PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding picks the
// format from the output file extension.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently on different images.
package imaging
