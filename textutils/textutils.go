package textutils

import (
	"strings"
	"unicode"
)

// IndentString prefixes every non-blank line of s with nIndent copies
// of indent. Blank lines are emptied.
func IndentString(s string, indent string, nIndent int) string {
	prefix := strings.Repeat(indent, nIndent)
	var res strings.Builder
	res.Grow(len(s) + (strings.Count(s, "\n")+1)*len(prefix))
	for line := range strings.SplitAfterSeq(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if strings.HasSuffix(line, "\n") {
				res.WriteByte('\n')
			}
			continue
		}
		res.WriteString(prefix)
		res.WriteString(line)
	}
	return res.String()
}

// IndentTail is like [IndentString] with a single prefix, but leaves
// the first line alone. Used to continue text that starts mid-line.
func IndentTail(s string, prefix string) string {
	first, rest, ok := strings.Cut(s, "\n")
	if !ok {
		return s
	}
	return first + "\n" + IndentString(rest, prefix, 1)
}

// LeadingSpace returns the whitespace that precedes the byte at off on
// its line, or "" if other text precedes it.
func LeadingSpace(src []byte, off int) string {
	start := off
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	ws := string(src[start:off])
	if strings.TrimLeft(ws, " \t") != "" {
		return ""
	}
	return ws
}

// SanitizeIdent turns s into an identifier by replacing runs of
// characters that cannot appear in one with a single underscore and
// trimming leading and trailing underscores. A leading digit gets an
// underscore prefix; an empty result becomes "_".
func SanitizeIdent(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	res := strings.Trim(b.String(), "_")
	switch {
	case res == "":
		return "_"
	case res[0] >= '0' && res[0] <= '9':
		return "_" + res
	}
	return res
}
