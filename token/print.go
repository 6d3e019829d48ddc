package token

import "strings"

// String renders the stream on a single line, the way the compiler
// prints token streams: tokens separated by single spaces, no space
// after joint punctuation, parenthesized and bracketed groups without
// inner padding, braced groups padded.
func (s Stream) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (t Tree) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (s Stream) write(b *strings.Builder) {
	for i, t := range s {
		if i > 0 && !(s[i-1].Kind == Punct && s[i-1].Joint) {
			b.WriteByte(' ')
		}
		t.write(b)
	}
}

func (t Tree) write(b *strings.Builder) {
	if t.Kind != Group {
		b.WriteString(t.Text)
		return
	}
	b.WriteString(t.Delim.Open())
	if t.Delim == Brace && len(t.Inner) > 0 {
		b.WriteByte(' ')
		t.Inner.write(b)
		b.WriteByte(' ')
	} else {
		t.Inner.write(b)
	}
	b.WriteString(t.Delim.Close())
}

// itemStart lists identifiers that begin a new item or statement
// after a closing brace.
var itemStart = map[string]bool{
	"pub": true, "fn": true, "impl": true, "struct": true, "enum": true,
	"trait": true, "unsafe": true, "const": true, "static": true,
	"let": true, "type": true, "extern": true, "async": true, "mod": true,
	"use": true, "default": true,
}

// Format renders the stream across multiple lines with four-space
// indentation: a line break follows every `;` and every braced group
// that ends an item, and function bodies and braced groups holding
// statements or items open an indented block. Other braced groups stay
// on their line. The result lexes back to the same tokens.
func Format(s Stream) string {
	var b strings.Builder
	formatSeq(&b, s, 0)
	return b.String()
}

func writeIndent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString("    ")
	}
}

// isBlock reports whether a braced group holding s is laid out over
// several lines.
func isBlock(s Stream) bool {
	for _, t := range s {
		if t.IsPunct(";") || t.IsPunct("#") || t.IsGroup(Brace) {
			return true
		}
	}
	return false
}

// fnBody reports whether s[i] ends a function signature.
func fnBody(s Stream, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch {
		case s[j].IsIdent("fn"):
			return true
		case s[j].IsPunct(";") || s[j].IsGroup(Brace):
			return false
		}
	}
	return false
}

func writeBlock(b *strings.Builder, inner Stream, depth int) {
	b.WriteString("{\n")
	formatSeq(b, inner, depth+1)
	b.WriteByte('\n')
	writeIndent(b, depth)
	b.WriteByte('}')
}

func formatSeq(b *strings.Builder, s Stream, depth int) {
	angles := genericAngles(s)
	lineStart := true
	for i, t := range s {
		if lineStart {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeIndent(b, depth)
		} else if formatSpace(s, i, angles) {
			b.WriteByte(' ')
		}
		lineStart = false

		if t.IsGroup(Brace) && len(t.Inner) > 0 && fnBody(s, i) {
			writeBlock(b, t.Inner, depth)
		} else {
			formatTree(b, t, depth)
		}

		switch {
		case t.IsPunct(";"):
			lineStart = true
		case t.IsGroup(Bracket) && i > 0 &&
			(s[i-1].IsPunct("#") || (i > 1 && s[i-1].IsPunct("!") && s[i-2].IsPunct("#"))):
			// Attributes sit on their own line.
			lineStart = true
		case t.IsGroup(Brace) && i+1 < len(s):
			next := s[i+1]
			if next.IsPunct("#") || (next.Kind == Ident && itemStart[next.Text]) {
				lineStart = true
			}
		}
	}
}

// formatTree writes t on the current line. Blocks nested anywhere in it
// still open their own indented lines.
func formatTree(b *strings.Builder, t Tree, depth int) {
	if t.Kind != Group {
		b.WriteString(t.Text)
		return
	}
	if t.Delim == Brace && isBlock(t.Inner) {
		writeBlock(b, t.Inner, depth)
		return
	}
	pad := t.Delim == Brace && len(t.Inner) > 0
	b.WriteString(t.Delim.Open())
	if pad {
		b.WriteByte(' ')
	}
	angles := genericAngles(t.Inner)
	for i, x := range t.Inner {
		if i > 0 && formatSpace(t.Inner, i, angles) {
			b.WriteByte(' ')
		}
		formatTree(b, x, depth)
	}
	if pad {
		b.WriteByte(' ')
	}
	b.WriteString(t.Delim.Close())
}

// keywords that may precede a path starting with `::`.
var keywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "dyn": true,
	"else": true, "enum": true, "extern": true, "fn": true, "for": true,
	"if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true,
	"ref": true, "return": true, "static": true, "struct": true,
	"trait": true, "type": true, "unsafe": true, "use": true,
	"where": true, "while": true, "async": true, "await": true,
}

// tightKeywords are identifiers that keep a space before a following
// group, unlike calls and indexing.
var tightKeywords = map[string]bool{
	"for": true, "in": true, "if": true, "while": true, "match": true,
	"return": true, "as": true, "impl": true, "dyn": true, "mut": true,
	"where": true, "let": true, "else": true, "move": true, "unsafe": true,
	"async": true, "loop": true, "break": true,
}

type angle uint8

const (
	notAngle angle = iota
	argsAngle
	// implAngle delimits the params of an impl header, which a path
	// may follow.
	implAngle
)

// genericAngles returns the `<` and `>` trees of s, by index, that
// open and close generic parameters or arguments, as far as the tokens
// alone tell.
func genericAngles(s Stream) map[int]angle {
	var (
		res  map[int]angle
		open []int
	)
	for i, t := range s {
		switch {
		case t.IsPunct("<"):
			generic := i+1 < len(s) && !(t.Joint && (s[i+1].IsPunct("=") || s[i+1].IsPunct("<"))) &&
				(s[i+1].Kind != Punct || s[i+1].IsPunct("&") || s[i+1].IsPunct("*") || s[i+1].IsPunct(":"))
			if generic && i > 0 {
				// After punctuation, `<` opens a qualified path such as
				// `<T as Trait>::f` or follows `::` in a turbofish.
				prev := s[i-1]
				generic = (prev.Kind == Punct && !prev.Joint) ||
					(prev.Kind == Ident && (!keywords[prev.Text] || prev.Text == "impl"))
			}
			if generic {
				open = append(open, i)
			} else {
				open = append(open, -1)
			}
		case t.IsPunct(">"):
			if i > 0 && s[i-1].Joint && (s[i-1].IsPunct("-") || s[i-1].IsPunct("=")) {
				// `->` and `=>`
				continue
			}
			if t.Joint && i+1 < len(s) && s[i+1].IsPunct("=") {
				continue
			}
			if len(open) == 0 {
				continue
			}
			o := open[len(open)-1]
			open = open[:len(open)-1]
			if o >= 0 {
				if res == nil {
					res = map[int]angle{}
				}
				a := argsAngle
				if o > 0 && s[o-1].IsIdent("impl") {
					a = implAngle
				}
				res[o], res[i] = a, a
			}
		}
	}
	return res
}

// prefixOperand reports whether s[i] is the operand of a prefix `&` or
// `*` at s[i-1].
func prefixOperand(s Stream, i int) bool {
	prev, t := s[i-1], s[i]
	if !(prev.IsPunct("&") || prev.IsPunct("*")) || prev.Joint {
		return false
	}
	if t.Kind == Punct {
		return false
	}
	if i == 1 {
		return true
	}
	before := s[i-2]
	if before.Kind == Ident {
		return keywords[before.Text]
	}
	// `a && b` is binary.
	return before.Kind == Punct && !(before.Joint && (before.IsPunct("&") || before.IsPunct("*")))
}

// receiver reports whether t can be followed by a tight `.` for a
// field access or method call. Number literals are not, since `1.` would
// lex as part of the number.
func receiver(t Tree) bool {
	switch t.Kind {
	case Ident:
		return !keywords[t.Text]
	case Group:
		return true
	case Literal:
		return t.Text[0] < '0' || t.Text[0] > '9'
	}
	return false
}

// formatSpace reports whether a space goes between s[i-1] and s[i].
func formatSpace(s Stream, i int, angles map[int]angle) bool {
	prev, t := s[i-1], s[i]
	switch {
	case prev.Kind == Punct && prev.Joint:
		return false
	case t.IsPunct(";") || t.IsPunct(","):
		return false
	case angles[i] != notAngle && t.IsPunct("<") && (prev.Kind == Ident || prev.IsPunct(":")):
		// `Vec<u8>`, `f::<u8>`
		return false
	case (angles[i] != notAngle && t.IsPunct(">")) || (angles[i-1] != notAngle && prev.IsPunct("<")):
		return false
	case angles[i-1] == argsAngle && prev.IsPunct(">") && ((t.IsPunct(":") && t.Joint) || t.IsGroup(Paren)):
		// `Vec<u8>::new()`
		return false
	case t.IsPunct(":") && !t.Joint && (prev.Kind == Ident || prev.Kind == Group):
		// `x: T`
		return false
	case t.IsPunct(":") && t.Joint && prev.Kind == Ident && !keywords[prev.Text]:
		// `a::b`, but `impl ::std::..`
		return false
	case t.Kind == Ident && prev.IsPunct(":") && i > 1 && s[i-2].IsPunct(":") && s[i-2].Joint:
		return false
	case t.Kind == Ident && prev.IsPunct("?"):
		// `?Sized`
		return false
	case prefixOperand(s, i):
		// `&self`, `*self`
		return false
	case t.IsPunct(".") && !t.Joint && receiver(prev):
		return false
	case (t.Kind == Ident || t.Kind == Literal) && prev.IsPunct(".") && !prev.Joint && i > 1 && receiver(s[i-2]):
		// `self.side`, `pair.0`, `"a".into()`
		return false
	case t.IsGroup(Bracket) && (prev.IsPunct("#") || prev.IsPunct("!")):
		return false
	case t.IsGroup(Paren) && prev.IsPunct("!") && i > 1 && s[i-2].Kind == Ident:
		// macro call
		return false
	case (t.IsGroup(Paren) || t.IsGroup(Bracket)) && prev.Kind == Ident && !tightKeywords[prev.Text]:
		return false
	case t.IsPunct("!") && prev.Kind == Ident && i+1 < len(s) && s[i+1].Kind == Group:
		return false
	}
	return true
}
