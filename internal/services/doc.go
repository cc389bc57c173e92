// Package services defines the error taxonomy shared by the per-file
// pipeline stages and the batch orchestrator.
package services
