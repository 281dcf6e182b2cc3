// format.go: canonical source formatting.
package n7tya

import "strings"

// FormatSource normalizes indentation and trailing whitespace: every four
// leading spaces collapse to one tab, existing leading tabs are preserved,
// trailing whitespace is trimmed, and blank lines become empty.
func FormatSource(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = formatLine(line)
	}
	return strings.Join(out, "\n")
}

func formatLine(line string) string {
	trimmed := strings.TrimRight(line, " \t\r")
	if trimmed == "" {
		return ""
	}

	depth := 0
	rest := trimmed
	for {
		switch {
		case strings.HasPrefix(rest, "\t"):
			depth++
			rest = rest[1:]
		case strings.HasPrefix(rest, "    "):
			depth++
			rest = rest[4:]
		default:
			return strings.Repeat("\t", depth) + strings.TrimLeft(rest, " ")
		}
	}
}
