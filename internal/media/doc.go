// Package media models discovered video files, source-tree enumeration, and
// the deterministic naming scheme that maps each input to its scratch and
// final output locations.
package media
