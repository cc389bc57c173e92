// Package retry provides the bounded fixed-delay retry primitive shared by
// the staging copier and the encoder invoker.
package retry
