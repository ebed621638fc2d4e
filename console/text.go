package console

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// sanitize strips escape sequences and control characters from content
// before it is painted. Tabs expand to four spaces.
func sanitize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
		case r == '\t':
			b.WriteString("    ")
		case r < 0x20 || r == 0x7f:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func skipEscape(text string, i int) int {
	if i >= len(text) {
		return i
	}
	switch text[i] {
	case '[':
		for i++; i < len(text); i++ {
			if b := text[i]; b >= 0x40 && b <= 0x7e {
				return i + 1
			}
		}
		return i
	case ']':
		for i++; i < len(text); i++ {
			switch text[i] {
			case 0x07:
				return i + 1
			case 0x1b:
				if i+1 < len(text) && text[i+1] == '\\' {
					return i + 2
				}
			}
		}
		return i
	default:
		return i + 1
	}
}

// visibleWidth is the cell width of text, ignoring escape sequences.
func visibleWidth(text string) int {
	width := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		width += runewidth.RuneWidth(r)
	}
	return width
}

// clip cuts text to width cells, keeping escape sequences intact.
func clip(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	visible := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			start := i
			i = skipEscape(text, i+1)
			b.WriteString(text[start:i])
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		w := runewidth.RuneWidth(r)
		if visible+w > width {
			break
		}
		b.WriteRune(r)
		i += size
		visible += w
	}
	return b.String()
}

// pad clips or right-pads text to exactly width cells.
func pad(text string, width int) string {
	text = clip(text, width)
	if gap := width - visibleWidth(text); gap > 0 {
		text += strings.Repeat(" ", gap)
	}
	return text
}

// wrap breaks plain text into lines of at most width cells, preferring
// word boundaries. Words wider than a line are split.
func wrap(text string, width int) []string {
	text = sanitize(text)
	if width <= 0 || text == "" {
		return []string{""}
	}
	var (
		lines []string
		line  strings.Builder
		used  int
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		used = 0
	}
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if used > 0 && used+1+w > width {
			flush()
		}
		if used > 0 {
			line.WriteByte(' ')
			used++
		}
		for w > width-used {
			head := runewidth.Truncate(word, width-used, "")
			if head == "" {
				if used > 0 {
					flush()
					continue
				}
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			line.WriteString(head)
			flush()
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		line.WriteString(word)
		used += w
	}
	if used > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// wrapBlock wraps each newline-separated paragraph of text.
func wrapBlock(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrap(para, width)...)
	}
	return out
}

// styled wraps text in an SGR sequence and a reset.
func styled(style, text string) string {
	if text == "" {
		return ""
	}
	return style + text + ansiReset
}

// wrapPreformatted hard-wraps each line of text at width cells without
// collapsing spaces, keeping aligned columns intact.
func wrapPreformatted(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(sanitizeLines(text), "\n") {
		if width <= 0 || runewidth.StringWidth(para) <= width {
			out = append(out, para)
			continue
		}
		var (
			line strings.Builder
			used int
		)
		for _, r := range para {
			w := runewidth.RuneWidth(r)
			if used+w > width && used > 0 {
				out = append(out, line.String())
				line.Reset()
				used = 0
			}
			line.WriteRune(r)
			used += w
		}
		out = append(out, line.String())
	}
	return out
}

// sanitizeLines sanitizes each line of text, keeping the line breaks.
func sanitizeLines(text string) string {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, part := range parts {
		parts[i] = sanitize(part)
	}
	return strings.Join(parts, "\n")
}
