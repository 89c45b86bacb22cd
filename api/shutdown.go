// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown releases every resource a component owns.
type GracefulShutdown interface {
	// Shutdown stops the component and unmaps its memory. Safe to call
	// more than once.
	Shutdown() error
}
