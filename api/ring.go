// Package api
// Author: momentics@gmail.com
//
// Byte ring contract for single-producer/single-consumer streaming.

package api

import "io"

// ByteRing is a fixed-capacity byte FIFO with all-or-nothing operations.
// Implementations perform no locking; one writer and one reader must
// coordinate externally.
type ByteRing interface {
	// Write appends all of p or nothing. Fails with ErrClosed after
	// CloseWrite and with ErrFull when p does not fit.
	io.Writer
	// ReadN consumes and returns exactly n bytes, or fails with
	// ErrInsufficientData without consuming anything.
	ReadN(n int) ([]byte, error)
	// PeekN is ReadN without consuming.
	PeekN(n int) ([]byte, error)
	// ReadPiece consumes and returns every resident byte.
	ReadPiece() ([]byte, error)
	// CloseWrite marks the end of the stream; idempotent.
	CloseWrite()
	// EOF reports whether the ring is closed and drained.
	EOF() bool
	// Len returns the number of unread bytes.
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
	// Close releases the backing memory.
	io.Closer
}
