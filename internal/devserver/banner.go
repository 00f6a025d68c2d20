package devserver

import (
	"regexp"
	"strconv"
)

var (
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

	// Vite announces e.g. "  ➜  Local:   http://localhost:5173/"
	localURLPattern = regexp.MustCompile(`Local:\s+https?://(?:\[[^\]]+\]|[^\s:/]+):(\d+)`)
)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ParseLocalPort extracts the port from Vite's "Local:" banner line.
func ParseLocalPort(line string) (int, bool) {
	m := localURLPattern.FindStringSubmatch(StripANSI(line))
	if m == nil {
		return 0, false
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port <= 0 || port > 65535 {
		return 0, false
	}
	return port, true
}
