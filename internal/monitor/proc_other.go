//go:build !linux

package monitor

// residentMemoryKB has no portable implementation; peak memory is
// reported as zero on non-Linux hosts.
func residentMemoryKB(pid int) (int64, bool) {
	return 0, false
}
