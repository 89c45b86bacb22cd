// Package ring
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity byte ring for producer/consumer streaming.
//
// A RingBuffer holds 2^order bytes in a mirror.Region. Write and read
// cursors only ever grow; their difference is the number of unread bytes.
// Because the region is double-mapped, every read or write window is one
// contiguous slice and the copy paths never branch on wraparound.
//
// Every operation is all-or-nothing: a Write that does not fit and a read
// that asks for more than is resident leave both cursors untouched.
//
// A RingBuffer is not safe for concurrent use. One writer and one reader
// must coordinate externally, e.g. from a single event loop.
package ring
