// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug introspection layer.
// Part of the hioload-ring supporting stack.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - YAML configuration files
//   - Runtime observers for hot-reload
//   - Byte and error counters for rings
//   - Platform probes (page size, double-mapping support, kernel)
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
