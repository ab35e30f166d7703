package scan

import (
	"bufio"
	"strings"
)

// ParseSymbols extracts symbol names from newline-delimited symbol-table
// output such as nm's "address type name" lines. The analyzer never
// invokes nm or objdump itself; callers feed it whatever text they have.
// Bare one-token lines are taken as symbol names directly.
func ParseSymbols(text string) []string {
	var symbols []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch len(fields) {
		case 0:
			continue
		case 1:
			symbols = append(symbols, fields[0])
		case 2:
			// "type name" lines from nm for undefined symbols.
			symbols = append(symbols, fields[1])
		default:
			symbols = append(symbols, fields[2])
		}
	}

	return symbols
}
