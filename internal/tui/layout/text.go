package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText truncates text to maxWidth with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	textLen := utf8.RuneCountInString(text)

	if textLen <= maxWidth {
		return text, false
	}

	// Not enough room for any text + ellipsis
	if maxWidth <= ellipsisLen {
		runes := []rune(cfg.Ellipsis)
		return string(runes[:maxWidth]), true
	}

	runes := []rune(text)
	return string(runes[:maxWidth-ellipsisLen]) + cfg.Ellipsis, true
}

// TruncateMiddle shortens text to maxWidth by cutting out its middle, so
// both the host and the file name of a long URL stay readable.
func TruncateMiddle(text string, maxWidth int, cfg TextConfig) string {
	runes := []rune(text)
	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	if len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= ellipsisLen+1 {
		s, _ := TruncateText(text, maxWidth, cfg)
		return s
	}

	keep := maxWidth - ellipsisLen
	head := (keep + 1) / 2
	tail := keep - head
	return string(runes[:head]) + cfg.Ellipsis + string(runes[len(runes)-tail:])
}

// PadRight pads text with spaces to width visible characters.
func PadRight(text string, width int) string {
	n := VisibleLength(text)
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}
