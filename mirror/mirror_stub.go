//go:build !linux
// +build !linux

// mirror/mirror_stub.go
// Author: momentics <momentics@gmail.com>
//
// Platforms without memfd: heap regions with split copies.

package mirror

import (
	"errors"
	"os"
)

const supported = false

var errNotSupported = errors.New("double mapping not supported on this platform")

func pageSize() int {
	return os.Getpagesize()
}

func mapMirrored(size int) ([]byte, func() error, error) {
	return nil, nil, errNotSupported
}
