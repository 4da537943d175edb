// Package cutter implements the edge-guided auto-crop engine.
//
// Given a luminance buffer and a target size, the engine finds the
// rectangle whose border crosses the strongest luminance edges, i.e. the
// crop least likely to cut through artwork. Two searches are provided:
//
//   - Search2D slides a cutWidth x cutHeight window over both axes at once,
//     using running column and row sums so every candidate is scored in O(1).
//   - Search1D resolves the horizontal offset first and then the vertical
//     offset inside the chosen columns. It is used when one axis already
//     matches the target, and by the letterbox heuristic.
//
// Edge strength is measured by a Scorer applied to each pair of adjacent
// samples. Scorers are a closed set: RawDiff for general content,
// WhiteThresholdCount for white UI chrome, and the two black-threshold
// variants for letterboxing.
//
// # Modes
//
// Crop dispatches a Request to one of the device strategies:
//
//	pc-square    Search2D + RawDiff
//	pc-count     Search2D + WhiteThresholdCount(delta)
//	edge         Search1D + BlackThresholdCount(delta)
//	ios          3:2 crop minus the home-indicator bar (no search)
//	ios-android  Search1D + BlackThresholdCount(delta), width = height*3/2
//
// # Errors
//
// ErrSizeTooLarge, ErrOutOfRange and ErrInvalidMode are the only failures.
// All are deterministic; callers processing many images should record the
// error and move on to the next image.
//
// # Thread Safety
//
// Every call allocates its own buffers and touches no package state, so
// distinct images may be searched concurrently.
package cutter
