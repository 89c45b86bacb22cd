// Package mirror
// Author: momentics <momentics@gmail.com>
//
// Mapping manager for byte rings.
//
// A Region owns size bytes of backing memory. On Linux the memory is an
// anonymous memfd mapped twice, back to back, so that buf[i] and
// buf[i+size] are the same physical byte. Any window of at most size bytes
// starting anywhere in [0, size) is then one contiguous slice, and ring
// code never has to split a copy at the wrap boundary.
//
// Platforms without shared anonymous mappings get a heap region with the
// same external semantics and explicit split copies.
package mirror
