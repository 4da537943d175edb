// Package imaging is the file and pixel boundary around the crop engine.
//
// It decodes source screenshots, extracts the rectangle chosen by package
// cutter, writes PNG output with the source timestamps, and renders the
// engine's intermediate buffers and chosen crops for inspection.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - A cutter.Rect covers [X, X+Width) x [Y, Y+Height)
//
// # Supported Formats
//
// Decoding handles PNG, JPEG, GIF, BMP and WebP. Output is always PNG.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. DiagnosticsWriter
// serializes its bookkeeping. All other functions are stateless and can be
// called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Missing source files (ErrFileNotFound)
//   - Crop rectangles outside the image (cutter.ErrOutOfRange)
//   - Decode and encode failures
package imaging
