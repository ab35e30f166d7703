//go:build linux

package monitor

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// residentMemoryKB reads the child's resident memory from
// /proc/<pid>/status. VmHWM is the kernel's own high-water mark and is
// preferred; VmRSS is the fallback for kernels that omit it. Returns
// false when the process is already gone or the file is unreadable.
func residentMemoryKB(pid int) (int64, bool) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/status", pid))
	if err != nil {
		return 0, false
	}

	var rss int64
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "VmHWM:"):
			if kb, ok := parseStatusKB(line); ok {
				return kb, true
			}
		case strings.HasPrefix(line, "VmRSS:"):
			if kb, ok := parseStatusKB(line); ok {
				rss = kb
			}
		}
	}

	return rss, rss > 0
}

// parseStatusKB extracts the numeric kB value from a /proc status line
// such as "VmRSS:     1234 kB".
func parseStatusKB(line string) (int64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	kb, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return kb, true
}
