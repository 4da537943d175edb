// Package luma holds the grayscale pixel model used by the crop engine.
//
// A Buffer is a row-major grid of integer intensities. Source buffers are
// derived from 24-bit RGB data through a weighted sum; derived buffers
// (per-axis derivatives, running sums) are plain Buffers of their own size
// and never alias the buffer they were computed from.
//
// # Coordinate System
//
// (0,0) is the top-left sample, X grows rightward and Y grows downward.
// At and Set are bounds-checked and fail with ErrOutOfRange; Get and Put
// skip the check and are meant for loops that already know their bounds.
//
// # Weights
//
// The default weights are the ITU-R BT.601 luma coefficients
// (0.299, 0.587, 0.114). The weighted sum is truncated toward zero.
//
// # Thread Safety
//
// Buffers are not synchronized. Each crop computation owns the buffers it
// creates, so independent images may be processed concurrently.
package luma
