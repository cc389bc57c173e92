// Package encoder maps declarative encoding profiles onto the external
// encoder's command-line argument protocol and invokes the encoder as an
// opaque subprocess with bounded retry and artifact verification.
package encoder
