// Package staging manages the local scratch area: verified copies of source
// files into scratch storage and pre-run cleanup of stale scratch files
// behind double operator confirmation.
package staging
