//go:build linux

package kaio

import (
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// KernelVersion parses the running kernel's release string ("5.15.0-91-generic"
// or similar) into a major, minor pair. It tolerates anything that doesn't
// parse cleanly by returning 0, 0 rather than an error: callers treat that
// as "version unknown, refuse to be optimistic."
func KernelVersion() (major, minor int) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return 0, 0
	}
	release := releaseString(uts.Release)
	parts := strings.SplitN(release, ".", 3)
	if len(parts) < 2 {
		return 0, 0
	}
	major, _ = strconv.Atoi(parts[0])
	minor, _ = strconv.Atoi(trimNonDigits(parts[1]))
	return major, minor
}

func trimNonDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}

// releaseString converts a NUL-terminated Utsname.Release field (whose
// element type varies by architecture, byte vs. int8) into a Go string.
func releaseString[T byte | int8](field [65]T) string {
	b := make([]byte, 0, len(field))
	for _, c := range field {
		if c == 0 {
			break
		}
		b = append(b, byte(c))
	}
	return string(b)
}

// KernelVersionAtLeast reports whether the running kernel's release is >=
// major.minor.
func KernelVersionAtLeast(wantMajor, wantMinor int) bool {
	major, minor := KernelVersion()
	if major != wantMajor {
		return major > wantMajor
	}
	return minor >= wantMinor
}
