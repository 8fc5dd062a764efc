package pipeline

import (
	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines of at most width display columns, replacing
// spaces with newlines. Words longer than width are never split, and existing
// newlines reset the column count. Width <= 0 returns text unchanged.
func Wrap(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}

	runes := []rune(text)
	out := make([]rune, len(runes))
	copy(out, runes)

	// cols[i] is the display width of runes[:i].
	cols := make([]int, len(runes)+1)
	for i, r := range runes {
		cols[i+1] = cols[i] + runewidth.RuneWidth(r)
	}

	lineStart, lastSpace := 0, 0
	for cur, r := range runes {
		switch {
		case r == '\n':
			lineStart, lastSpace = cur+1, cur+1
		case r == ' ':
			if cols[cur]-cols[lineStart] >= width {
				out[cur] = '\n'
				lineStart = cur + 1
			}
			lastSpace = cur
		case cols[cur]-cols[lineStart] >= width && lineStart != lastSpace:
			out[lastSpace] = '\n'
			lineStart = lastSpace + 1
		}
	}

	return string(out)
}
