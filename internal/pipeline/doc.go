// Package pipeline runs a single media file through the optimization
// lifecycle: stage the input into scratch, run the encoder, verify and
// promote the output, then clean up. Process never returns an error;
// every outcome is folded into a Result so one bad file cannot stop a
// batch.
package pipeline
