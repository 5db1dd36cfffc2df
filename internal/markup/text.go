package markup

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// adornmentChars are the punctuation characters allowed in section adornments.
const adornmentChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// DisplayWidth returns the number of terminal columns s occupies. East Asian
// wide and fullwidth runes count as two columns, combining marks as zero.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// Heading returns a section title followed by an underline of char as wide
// as the title, terminated by a newline.
func Heading(title string, char byte) string {
	return title + "\n" + strings.Repeat(string(char), DisplayWidth(title)) + "\n"
}

// Anchor derives the lowercase identifier used as a section id.
func Anchor(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// SplitLines splits src into lines without their terminators. A trailing
// newline does not produce an extra empty line.
func SplitLines(src string) []string {
	if src == "" {
		return nil
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.TrimSuffix(src, "\n")
	return strings.Split(src, "\n")
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// dedent removes the common leading indentation of all non-blank lines.
func dedent(lines []string) []string {
	min := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		if ind := indentOf(l); min < 0 || ind < min {
			min = ind
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if isBlank(l) {
			out[i] = ""
			continue
		}
		out[i] = l[min:]
	}
	return out
}

// IsAdornment reports whether line is made of one repeated punctuation
// character, at least two long.
func IsAdornment(line string) bool {
	line = strings.TrimRight(line, " ")
	if len(line) < 2 || !strings.ContainsRune(adornmentChars, rune(line[0])) {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != line[0] {
			return false
		}
	}
	return true
}
