// SPDX-License-Identifier: MPL-2.0

package executor

import "strings"

// Tail returns the last n lines of s. Trailing newlines do not count as an
// empty last line.
func Tail(s string, n int) []string {
	s = strings.TrimRight(s, "\r\n")
	if s == "" || n <= 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
