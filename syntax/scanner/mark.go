package scanner

import (
	"fmt"
	"strings"
)

// MarkAt returns the source line at pos followed by a line pointing at the
// column, with msg next to the marker. firstLine is the line number of the
// first line in src.
func MarkAt(src []byte, firstLine int, pos Position, msg string) []string {
	var lines = strings.Split(string(src), "\n")
	var i = pos.Line - firstLine
	if i < 0 || i >= len(lines) {
		return []string{msg}
	}
	var line = strings.ReplaceAll(lines[i], "\t", " ")
	var gutter = fmt.Sprintf("%4d | ", pos.Line)
	var column = pos.Column
	if column > len(line) {
		column = len(line)
	}
	return []string{
		gutter + line,
		strings.Repeat(" ", len(gutter)) + strings.Repeat(" ", column) + "▲ " + msg,
	}
}

// FormatSrc makes tabs and line ends visible, for test failure messages.
func FormatSrc(src string, showWhitespaces bool) string {
	var prefix = "   | "
	if showWhitespaces {
		src = strings.ReplaceAll(src, "\t", "␣")
		src = strings.Join(strings.Split(src, "\n"), "⏎\n"+prefix)
		src = prefix + src + "·"
		return src
	}
	return src
}
