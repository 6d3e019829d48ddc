package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Error is a lexing error at a position in the source.
type Error struct {
	Span Span
	Msg  string
}

func (e *Error) Error() string {
	return e.Span.String() + ": " + e.Msg
}

// ErrSpan returns the location of the error.
func (e *Error) ErrSpan() Span { return e.Span }

const punctChars = "+-*/%^!&|=<>@.,;:#$?~"

func isPunctByte(b byte) bool {
	return strings.IndexByte(punctChars, b) >= 0
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type lexer struct {
	filename string
	src      []byte
	off      int
	lines    lineTable
}

type frame struct {
	delim Delim
	open  Span
	toks  Stream
}

// Lex splits src into a token tree stream. Whitespace and comments are
// dropped, except for doc comments which become #[doc = "..."]
// attributes, mirroring what the compiler hands to procedural macros.
func Lex(filename string, src []byte) (Stream, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%v: source too large: %w", filename, err)
	}
	lx := &lexer{
		filename: filename,
		src:      src,
		lines:    newLineTable(src),
	}
	stack := []frame{{}}
	for {
		if err := lx.skipTrivia(&stack[len(stack)-1].toks); err != nil {
			return nil, err
		}
		if lx.off >= len(lx.src) {
			break
		}
		b := lx.src[lx.off]
		switch b {
		case '(', '[', '{':
			d := Delim(strings.IndexByte("([{", b))
			stack = append(stack, frame{delim: d, open: lx.span(lx.off, lx.off+1)})
			lx.off++
			continue
		case ')', ']', '}':
			d := Delim(strings.IndexByte(")]}", b))
			closeSp := lx.span(lx.off, lx.off+1)
			if len(stack) == 1 {
				return nil, &Error{Span: closeSp, Msg: fmt.Sprintf("unexpected closing delimiter `%c`", b)}
			}
			top := stack[len(stack)-1]
			if top.delim != d {
				return nil, &Error{
					Span: closeSp,
					Msg:  fmt.Sprintf("mismatched closing delimiter `%c` for `%v` opened at %v", b, top.delim.Open(), top.open),
				}
			}
			stack = stack[:len(stack)-1]
			g := NewGroup(d, top.toks)
			g.Span = top.open.Cover(closeSp)
			parent := &stack[len(stack)-1]
			parent.toks = append(parent.toks, g)
			lx.off++
			continue
		}
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		stack[len(stack)-1].toks = append(stack[len(stack)-1].toks, t)
	}
	if len(stack) > 1 {
		top := stack[len(stack)-1]
		return nil, &Error{Span: top.open, Msg: fmt.Sprintf("unclosed delimiter `%v`", top.delim.Open())}
	}
	return stack[0].toks, nil
}

// Parse lexes generated source text.
func Parse(src string) (Stream, error) {
	return Lex("<generated>", []byte(src))
}

// MustParse is like [Parse] but panics on error. Meant for
// program-internal templates and tests.
func MustParse(src string) Stream {
	s, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return s
}

func (lx *lexer) span(start, end int) Span {
	return Span{File: lx.filename, Start: lx.lines.pos(start), End: lx.lines.pos(end)}
}

func (lx *lexer) errorf(start int, format string, args ...any) error {
	return &Error{Span: lx.span(start, lx.off), Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peekAt(i int) byte {
	if lx.off+i < len(lx.src) {
		return lx.src[lx.off+i]
	}
	return 0
}

func (lx *lexer) peekRune() (rune, int) {
	if lx.off >= len(lx.src) {
		return 0, 0
	}
	return utf8.DecodeRune(lx.src[lx.off:])
}

// skipTrivia skips whitespace and comments, appending doc comments as
// attribute tokens to toks.
func (lx *lexer) skipTrivia(toks *Stream) error {
	for lx.off < len(lx.src) {
		r, sz := lx.peekRune()
		if unicode.IsSpace(r) {
			lx.off += sz
			continue
		}
		if r != '/' {
			return nil
		}
		switch lx.peekAt(1) {
		case '/':
			start := lx.off
			end := start
			for end < len(lx.src) && lx.src[end] != '\n' {
				end++
			}
			text := string(lx.src[start:end])
			lx.off = end
			switch {
			case strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////"):
				*toks = append(*toks, lx.docAttr(text[3:], false, start)...)
			case strings.HasPrefix(text, "//!"):
				*toks = append(*toks, lx.docAttr(text[3:], true, start)...)
			}
		case '*':
			start := lx.off
			depth := 0
			for {
				if lx.off >= len(lx.src) {
					return lx.errorf(start, "unterminated block comment")
				}
				if lx.peekAt(0) == '/' && lx.peekAt(1) == '*' {
					depth++
					lx.off += 2
					continue
				}
				if lx.peekAt(0) == '*' && lx.peekAt(1) == '/' {
					depth--
					lx.off += 2
					if depth == 0 {
						break
					}
					continue
				}
				lx.off++
			}
			text := string(lx.src[start:lx.off])
			if len(text) <= 4 {
				continue
			}
			switch body := text[3 : len(text)-2]; {
			case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***"):
				*toks = append(*toks, lx.docAttr(body, false, start)...)
			case strings.HasPrefix(text, "/*!"):
				*toks = append(*toks, lx.docAttr(body, true, start)...)
			}
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) docAttr(text string, inner bool, start int) Stream {
	sp := lx.span(start, lx.off)
	res := Stream{{Kind: Punct, Text: "#", Joint: inner, Span: sp}}
	if inner {
		res = append(res, Tree{Kind: Punct, Text: "!", Span: sp})
	}
	body := Stream{
		{Kind: Ident, Text: "doc", Span: sp},
		{Kind: Punct, Text: "=", Span: sp},
		{Kind: Literal, Text: QuoteString(text), Span: sp},
	}
	g := NewGroup(Bracket, body)
	g.Span = sp
	return append(res, g)
}

// QuoteString renders s as a Rust string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (lx *lexer) next() (Tree, error) {
	start := lx.off
	b := lx.src[lx.off]
	switch {
	case b == '"':
		return lx.scanString(start, lx.off)
	case b == '\'':
		return lx.scanQuote(start)
	case b >= '0' && b <= '9':
		return lx.scanNumber(start), nil
	case (b == 'r' || b == 'b' || b == 'c') && lx.literalPrefix():
		return lx.scanPrefixedLiteral(start)
	case isPunctByte(b):
		lx.off++
		joint := lx.off < len(lx.src) && isPunctByte(lx.src[lx.off])
		return Tree{Kind: Punct, Text: string(b), Joint: joint, Span: lx.span(start, lx.off)}, nil
	}
	r, sz := lx.peekRune()
	if !isIdentStart(r) {
		return Tree{}, lx.errorf(start, "unexpected character %q", r)
	}
	lx.off += sz
	lx.scanIdentRest()
	return Tree{Kind: Ident, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
}

func (lx *lexer) scanIdentRest() {
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinue(r) {
			return
		}
		lx.off += sz
	}
}

// literalPrefix reports whether the r/b/c/br/cr at the current offset
// starts a string-like literal or a raw identifier.
func (lx *lexer) literalPrefix() bool {
	b0, b1, b2 := lx.peekAt(0), lx.peekAt(1), lx.peekAt(2)
	switch b0 {
	case 'r':
		return b1 == '"' || (b1 == '#' && (b2 == '"' || b2 == '#' || isIdentStart(rune(b2))))
	case 'b':
		return b1 == '"' || b1 == '\'' || (b1 == 'r' && (b2 == '"' || b2 == '#'))
	case 'c':
		return b1 == '"' || (b1 == 'r' && (b2 == '"' || b2 == '#'))
	}
	return false
}

func (lx *lexer) scanPrefixedLiteral(start int) (Tree, error) {
	if lx.peekAt(0) == 'r' && lx.peekAt(1) == '#' && isIdentStart(rune(lx.peekAt(2))) {
		// Raw identifier.
		lx.off += 2
		lx.scanIdentRest()
		return Tree{Kind: Ident, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
	}
	if lx.peekAt(0) != 'r' {
		lx.off++ // b or c
	}
	switch lx.peekAt(0) {
	case '\'':
		t, err := lx.scanQuote(start)
		return t, err
	case '"':
		return lx.scanString(start, lx.off)
	}
	// Raw string: r#*"..."#*
	lx.off++ // r
	hashes := 0
	for lx.peekAt(0) == '#' {
		hashes++
		lx.off++
	}
	if lx.peekAt(0) != '"' {
		return Tree{}, lx.errorf(start, "expected `\"` in raw string literal")
	}
	lx.off++
	closing := "\"" + strings.Repeat("#", hashes)
	idx := strings.Index(string(lx.src[lx.off:]), closing)
	if idx < 0 {
		lx.off = len(lx.src)
		return Tree{}, lx.errorf(start, "unterminated raw string literal")
	}
	lx.off += idx + len(closing)
	lx.scanIdentRest() // suffix
	return Tree{Kind: Literal, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
}

// scanString scans a "..." literal whose opening quote is at quote.
func (lx *lexer) scanString(start, quote int) (Tree, error) {
	lx.off = quote + 1
	for {
		if lx.off >= len(lx.src) {
			return Tree{}, lx.errorf(start, "unterminated string literal")
		}
		c := lx.src[lx.off]
		if c == '\\' {
			lx.off += 2
			continue
		}
		lx.off++
		if c == '"' {
			break
		}
	}
	lx.scanIdentRest() // suffix
	return Tree{Kind: Literal, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
}

// scanQuote scans a char literal or a lifetime; the quote is at the
// current offset.
func (lx *lexer) scanQuote(start int) (Tree, error) {
	lx.off++ // '
	if lx.peekAt(0) == '\\' {
		lx.off += 2
		for lx.off < len(lx.src) && lx.src[lx.off] != '\'' && lx.src[lx.off] != '\n' {
			lx.off++
		}
		if lx.peekAt(0) != '\'' {
			return Tree{}, lx.errorf(start, "unterminated character literal")
		}
		lx.off++
		return Tree{Kind: Literal, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
	}
	r, sz := lx.peekRune()
	if sz == 0 {
		return Tree{}, lx.errorf(start, "unterminated character literal")
	}
	if lx.off+sz < len(lx.src) && lx.src[lx.off+sz] == '\'' {
		lx.off += sz + 1
		return Tree{Kind: Literal, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
	}
	if !isIdentStart(r) {
		return Tree{}, lx.errorf(start, "invalid lifetime or character literal")
	}
	lx.off += sz
	lx.scanIdentRest()
	return Tree{Kind: Lifetime, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}, nil
}

func isDigitOrUnderscore(b byte, hex bool) bool {
	if b == '_' || (b >= '0' && b <= '9') {
		return true
	}
	return hex && ((b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F'))
}

func (lx *lexer) scanNumber(start int) Tree {
	hex := false
	if lx.peekAt(0) == '0' {
		switch lx.peekAt(1) {
		case 'x', 'X':
			hex = true
			lx.off += 2
		case 'o', 'O', 'b', 'B':
			lx.off += 2
		}
	}
	for lx.off < len(lx.src) && isDigitOrUnderscore(lx.src[lx.off], hex) {
		lx.off++
	}
	if !hex {
		// Fraction only when a digit follows, so `1..2` and `x.0.1` and
		// `1.foo()` keep their dots.
		if lx.peekAt(0) == '.' && lx.peekAt(1) >= '0' && lx.peekAt(1) <= '9' {
			lx.off++
			for lx.off < len(lx.src) && isDigitOrUnderscore(lx.src[lx.off], false) {
				lx.off++
			}
		}
		if e := lx.peekAt(0); e == 'e' || e == 'E' {
			n := 1
			if s := lx.peekAt(1); s == '+' || s == '-' {
				n = 2
			}
			if d := lx.peekAt(n); d >= '0' && d <= '9' {
				lx.off += n
				for lx.off < len(lx.src) && isDigitOrUnderscore(lx.src[lx.off], false) {
					lx.off++
				}
			}
		}
	}
	lx.scanIdentRest() // suffix such as i32 or _u64
	return Tree{Kind: Literal, Text: string(lx.src[start:lx.off]), Span: lx.span(start, lx.off)}
}
