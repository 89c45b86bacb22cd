//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probe integrations.

package control

import (
	"golang.org/x/sys/unix"
)

// memfd_create needs Linux 3.17 or later; the release string is reported
// so a failed mapping can be traced to an old kernel.
func registerOSProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.kernel", func() any {
		var uts unix.Utsname
		if err := unix.Uname(&uts); err != nil {
			return "unknown"
		}
		return unix.ByteSliceToString(uts.Release[:])
	})
}
