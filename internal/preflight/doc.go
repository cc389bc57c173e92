// Package preflight verifies the environment a run depends on: the source
// share, the working directories, and the external encoder binary.
package preflight
