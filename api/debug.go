// Package api
// Author: momentics <momentics@gmail.com>
//
// Live introspection of open rings and their backing regions.

package api

// Debug exposes named probes and a state snapshot.
type Debug interface {
	// DumpState evaluates every probe and returns name -> result.
	DumpState() map[string]any

	// RegisterProbe installs fn under name, replacing any previous probe.
	// Rings register themselves as "ring.<id>" while open.
	RegisterProbe(name string, fn func() any)
}
