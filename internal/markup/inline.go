package markup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// InlineKind identifies an inline markup construct.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineStrong
	InlineEmphasis
	InlineLiteral
	InlineReference
	InlineRole
	InlineCite
)

var inlineNames = [...]string{
	InlineText:      "#text",
	InlineStrong:    "strong",
	InlineEmphasis:  "emphasis",
	InlineLiteral:   "literal",
	InlineReference: "reference",
	InlineRole:      "inline",
	InlineCite:      "title_reference",
}

func (k InlineKind) String() string { return inlineNames[k] }

// Inline is one run of paragraph text.
type Inline struct {
	Kind   InlineKind
	Text   string
	Target string // reference URI
	Role   string // interpreted text role name
}

var (
	roleRe      = regexp.MustCompile(`^:([A-Za-z][\w.+-]*):` + "`")
	referenceRe = regexp.MustCompile(`(?s)^(.*?)\s*<([^<>]+)>$`)
)

// ParseInline splits text into inline markup runs. Unterminated markup is
// kept as plain text.
func ParseInline(text string) []Inline {
	var out []Inline
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, Inline{Kind: InlineText, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		if !startAllowed(text, i) {
			r, size := utf8.DecodeRuneInString(text[i:])
			plain.WriteRune(r)
			i += size
			continue
		}
		if in, next, ok := matchInline(text, i); ok {
			flush()
			out = append(out, in)
			i = next
			continue
		}
		plain.WriteByte(text[i])
		i++
	}
	flush()
	return out
}

func matchInline(text string, i int) (Inline, int, bool) {
	rest := text[i:]
	switch {
	case strings.HasPrefix(rest, "``"):
		if body, n, ok := delimited(rest, "``", "``"); ok {
			return Inline{Kind: InlineLiteral, Text: body}, i + n, true
		}
	case strings.HasPrefix(rest, "**"):
		if body, n, ok := delimited(rest, "**", "**"); ok {
			return Inline{Kind: InlineStrong, Text: body}, i + n, true
		}
	case strings.HasPrefix(rest, "*"):
		if body, n, ok := delimited(rest, "*", "*"); ok {
			return Inline{Kind: InlineEmphasis, Text: body}, i + n, true
		}
	case strings.HasPrefix(rest, ":"):
		if m := roleRe.FindString(rest); m != "" {
			if body, n, ok := delimited(rest[len(m)-1:], "`", "`"); ok {
				role := strings.Trim(m, ":`")
				return Inline{Kind: InlineRole, Text: body, Role: role}, i + len(m) - 1 + n, true
			}
		}
	case strings.HasPrefix(rest, "`"):
		if body, n, ok := delimited(rest, "`", "`"); ok {
			if strings.HasPrefix(rest[n:], "__") {
				return reference(body), i + n + 2, true
			}
			if strings.HasPrefix(rest[n:], "_") {
				return reference(body), i + n + 1, true
			}
			return Inline{Kind: InlineCite, Text: body}, i + n, true
		}
	}
	return Inline{}, i, false
}

func reference(body string) Inline {
	if m := referenceRe.FindStringSubmatch(body); m != nil {
		text := m[1]
		if text == "" {
			text = m[2]
		}
		return Inline{Kind: InlineReference, Text: text, Target: m[2]}
	}
	return Inline{Kind: InlineReference, Text: body}
}

// delimited matches open...close at the start of s. The content must not
// start or end with whitespace and the closing delimiter must not be
// followed by a word character.
func delimited(s, open, closer string) (string, int, bool) {
	if !strings.HasPrefix(s, open) {
		return "", 0, false
	}
	from := len(open)
	for {
		j := strings.Index(s[from:], closer)
		if j < 0 {
			return "", 0, false
		}
		end := from + j
		after := end + len(closer)
		body := s[len(open):end]
		if body != "" && !startsSpace(body) && !endsSpace(body) && endAllowed(s, after) {
			if open != "*" || !strings.HasPrefix(s[after:], "*") {
				return body, after, true
			}
		}
		from = end + 1
		if from >= len(s) {
			return "", 0, false
		}
	}
}

func startAllowed(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return unicode.IsSpace(r) || strings.ContainsRune(`'"([{<-/:`, r)
}

func endAllowed(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func startsSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
