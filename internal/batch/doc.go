// Package batch runs the auto-crop engine over a set of screenshot files.
//
// CollectInputs turns command-line arguments into an ordered list of
// images. PrepareOutputDir creates a fresh timestamped directory beside the
// first input, and Run crops every image into it with a bounded worker
// pool, writing "<basename>.png" per input and an error.txt listing the
// failures.
package batch
