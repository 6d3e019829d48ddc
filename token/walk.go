package token

// ReplaceIdents walks s, including nested groups, and calls fn for
// every identifier tree. When fn returns ok, the identifier is replaced
// by repl; otherwise it is kept. next is the tree following the
// identifier within its group, or nil. Only identifier trees matching
// exactly are touched, so names merely containing the same text stay
// intact.
func ReplaceIdents(s Stream, fn func(name string, next *Tree) (repl Stream, ok bool)) Stream {
	if s == nil {
		return nil
	}
	res := make(Stream, 0, len(s))
	for i, t := range s {
		switch t.Kind {
		case Ident:
			var next *Tree
			if i+1 < len(s) {
				next = &s[i+1]
			}
			if repl, ok := fn(t.Text, next); ok {
				for _, r := range repl.Clone() {
					if !r.Span.IsValid() {
						r.Span = t.Span
					}
					res = append(res, r)
				}
				continue
			}
			res = append(res, t)
		case Group:
			t.Inner = ReplaceIdents(t.Inner, fn)
			res = append(res, t)
		default:
			res = append(res, t)
		}
	}
	return res
}

// RenameLifetimes returns a copy of s with lifetime trees renamed
// according to m. Lifetimes missing from m are kept.
func RenameLifetimes(s Stream, m map[string]string) Stream {
	res := make(Stream, 0, len(s))
	for _, t := range s {
		switch t.Kind {
		case Lifetime:
			if n, ok := m[t.Text]; ok {
				t.Text = n
			}
		case Group:
			t.Inner = RenameLifetimes(t.Inner, m)
		}
		res = append(res, t)
	}
	return res
}

// Split splits s at top-level occurrences of the punctuation sep,
// ignoring separators nested within angle brackets. A trailing
// separator does not produce an empty final element.
func Split(s Stream, sep string) []Stream {
	var res []Stream
	depth := 0
	start := 0
	for i, t := range s {
		depth = AngleDepth(s, i, depth)
		if depth == 0 && t.IsPunct(sep) && IsLonePunct(s, i) {
			res = append(res, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		res = append(res, s[start:])
	}
	return res
}

// AngleDepth returns the angle bracket nesting depth after s[i], given
// the depth before it. Arrows (`->`, `=>`) and comparison operators
// that are spelled with joint punctuation do not count.
func AngleDepth(s Stream, i, depth int) int {
	t := s[i]
	if t.Kind != Punct {
		return depth
	}
	prevJoint := i > 0 && s[i-1].Kind == Punct && s[i-1].Joint
	switch t.Text {
	case "<":
		if t.Joint && i+1 < len(s) && s[i+1].IsPunct("=") {
			return depth
		}
		return depth + 1
	case ">":
		if prevJoint && (s[i-1].IsPunct("-") || s[i-1].IsPunct("=")) {
			return depth
		}
		if t.Joint && i+1 < len(s) && s[i+1].IsPunct("=") {
			return depth
		}
		if depth > 0 {
			return depth - 1
		}
	}
	return depth
}

var multiCharOps = map[string]bool{
	"::": true, "->": true, "=>": true, "==": true, "!=": true, "<=": true,
	">=": true, "&&": true, "||": true, "+=": true, "-=": true, "*=": true,
	"/=": true, "%=": true, "^=": true, "&=": true, "|=": true, "<<": true,
	">>": true, "..": true,
}

// IsLonePunct reports whether the punctuation s[i] stands on its own
// rather than being part of a multi-character operator such as `::`
// or `=>`.
func IsLonePunct(s Stream, i int) bool {
	t := s[i]
	if t.Kind != Punct {
		return false
	}
	if t.Joint && i+1 < len(s) && s[i+1].Kind == Punct && multiCharOps[t.Text+s[i+1].Text] {
		return false
	}
	if i > 0 && s[i-1].Kind == Punct && s[i-1].Joint && multiCharOps[s[i-1].Text+t.Text] {
		return false
	}
	return true
}

// Join concatenates parts, separated by the punctuation sep.
func Join(parts []Stream, sep string) Stream {
	var res Stream
	for i, p := range parts {
		if i > 0 {
			res = append(res, Puncts(sep)...)
		}
		res = append(res, p...)
	}
	return res
}
