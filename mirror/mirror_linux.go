//go:build linux
// +build linux

// mirror/mirror_linux.go
// Author: momentics <momentics@gmail.com>
//
// memfd-backed double mapping.

package mirror

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const supported = true

const memfdName = "hioload-ring"

func pageSize() int {
	return unix.Getpagesize()
}

// mapMirrored reserves 2*size bytes of address space and maps one memfd of
// size bytes into both halves. Every failure path unmaps what was mapped.
func mapMirrored(size int) ([]byte, func() error, error) {
	fd, err := unix.MemfdCreate(memfdName, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, nil, fmt.Errorf("memfd_create: %w", err)
	}
	// The mappings keep the file alive.
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, nil, fmt.Errorf("ftruncate: %w", err)
	}

	total := uintptr(size) << 1
	base, err := unix.MmapPtr(-1, 0, nil, total, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, fmt.Errorf("reserve %d bytes: %w", total, err)
	}
	unmap := func() error {
		return unix.MunmapPtr(base, total)
	}

	for half := 0; half < 2; half++ {
		want := unsafe.Add(base, half*size)
		got, err := unix.MmapPtr(fd, 0, want, uintptr(size),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_FIXED)
		if err == nil && got != want {
			err = errors.New("kernel ignored MAP_FIXED address")
		}
		if err != nil {
			_ = unmap()
			return nil, nil, fmt.Errorf("map half %d: %w", half, err)
		}
	}

	buf := unsafe.Slice((*byte)(base), size<<1)

	// Both halves must alias the same page.
	buf[0] = 0xa5
	if buf[size] != 0xa5 {
		_ = unmap()
		return nil, nil, errors.New("halves do not alias")
	}
	buf[0] = 0

	return buf, unmap, nil
}
