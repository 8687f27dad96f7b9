//go:build linux

package pe

import "golang.org/x/sys/unix"

// adviseSequential hints to the kernel that the mapped image will be
// scanned mostly in increasing-offset order (header, then directories,
// which tend to cluster near the front of the file). Best-effort only:
// a failure here never affects correctness, only page-cache behavior.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
