package syntax

import (
	"errors"
	"fmt"

	"github.com/refaktor/overloadgen/token"
)

// ErrNotApplicable is returned by [ParseItem] for items that are not
// functions, traits or impl blocks.
var ErrNotApplicable = errors.New("expected a function, trait or impl declaration")

type ParseError struct {
	Span token.Span
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v", e.Span, e.Msg)
}

func (e *ParseError) ErrSpan() token.Span { return e.Span }

// Message returns the error message without the location.
func (e *ParseError) Message() string { return e.Msg }

type parser struct {
	s token.Stream
	i int
	// end is reported for errors at the end of input.
	end token.Span
}

func newParser(s token.Stream, end token.Span) *parser {
	if !end.IsValid() {
		end = s.Span()
		end.Start = end.End
	}
	return &parser{s: s, end: end}
}

func (p *parser) eof() bool {
	return p.i >= len(p.s)
}

// peek returns the tree k positions ahead, or nil.
func (p *parser) peek(k int) *token.Tree {
	if p.i+k >= len(p.s) {
		return nil
	}
	return &p.s[p.i+k]
}

func (p *parser) isIdent(name string) bool {
	t := p.peek(0)
	return t != nil && t.IsIdent(name)
}

func (p *parser) isGroup(d token.Delim) bool {
	t := p.peek(0)
	return t != nil && t.IsGroup(d)
}

// isLone reports whether the next tree is the punctuation ch on its own.
func (p *parser) isLone(ch string) bool {
	return !p.eof() && p.s[p.i].IsPunct(ch) && token.IsLonePunct(p.s, p.i)
}

func errorAt(span token.Span, format string, args ...any) error {
	return &ParseError{Span: span, Msg: fmt.Sprintf(format, args...)}
}

// errorHere reports an error at the current tree, naming it for
// context.
func (p *parser) errorHere(format string, args ...any) error {
	t := p.peek(0)
	if t == nil {
		return errorAt(p.end, "at end of input: %v", fmt.Sprintf(format, args...))
	}
	desc := t.Text
	if t.Kind == token.Group {
		desc = t.Delim.Open() + ".." + t.Delim.Close()
	}
	return errorAt(t.Span, "at `%v`: %v", desc, fmt.Sprintf(format, args...))
}

func (p *parser) spanFrom(start int) token.Span {
	return p.s[start:p.i].Span()
}

// collectUntil consumes trees until stop matches a tree at angle depth
// zero, which is left unconsumed.
func (p *parser) collectUntil(stop func(t token.Tree) bool) token.Stream {
	start := p.i
	depth := 0
	for !p.eof() {
		if depth == 0 && stop(p.s[p.i]) {
			break
		}
		depth = token.AngleDepth(p.s, p.i, depth)
		p.i++
	}
	return p.s[start:p.i]
}

func (p *parser) parseOuterAttrs() ([]Attribute, error) {
	var attrs []Attribute
	for p.isLone("#") {
		next := p.peek(1)
		if next == nil || !next.IsGroup(token.Bracket) {
			return nil, p.errorHere("expected `[` after `#`")
		}
		a, err := parseAttr(p.s[p.i], *next, false)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
		p.i += 2
	}
	return attrs, nil
}

// splitInnerAttrs separates the `#![..]` attributes leading s.
func splitInnerAttrs(s token.Stream) ([]Attribute, token.Stream, error) {
	var attrs []Attribute
	i := 0
	for i+2 < len(s) && s[i].IsPunct("#") && s[i+1].IsPunct("!") && s[i+2].IsGroup(token.Bracket) {
		a, err := parseAttr(s[i], s[i+2], true)
		if err != nil {
			return nil, nil, err
		}
		attrs = append(attrs, a)
		i += 3
	}
	return attrs, s[i:], nil
}

func parseAttr(hash, group token.Tree, inner bool) (Attribute, error) {
	a := Attribute{Inner: inner, Span: hash.Span.Cover(group.Span)}
	in := group.Inner
	n := 0
	for n < len(in) && (in[n].Kind == token.Ident || in.HasPunctSeq(n, "::") || (n > 0 && in[n-1].Joint && in[n].IsPunct(":"))) {
		n++
	}
	if n == 0 {
		return a, errorAt(group.Span, "expected attribute path")
	}
	a.Path = in[:n]
	if n < len(in) {
		a.Args = in[n:]
	}
	return a, nil
}

func (p *parser) parseVis() token.Stream {
	start := p.i
	switch {
	case p.isIdent("pub"):
		p.i++
		if p.isGroup(token.Paren) {
			p.i++
		}
	case p.isIdent("crate"):
		if next := p.peek(1); next == nil || !next.IsPunct(":") {
			p.i++
		}
	}
	if p.i == start {
		return nil
	}
	return p.s[start:p.i]
}

var qualifiers = map[string]bool{
	"const": true, "async": true, "unsafe": true, "extern": true,
}

// fnAhead reports whether the trees from the current position start a
// function signature.
func (p *parser) fnAhead() bool {
	for k := 0; ; k++ {
		t := p.peek(k)
		switch {
		case t == nil:
			return false
		case t.IsIdent("fn"):
			return true
		case t.Kind == token.Ident && qualifiers[t.Text]:
		case t.Kind == token.Literal && k > 0 && p.peek(k-1).IsIdent("extern"):
		default:
			return false
		}
	}
}

func (p *parser) parseSignature() (Signature, error) {
	var sig Signature
	start := p.i
	if p.isIdent("const") {
		sig.Const = true
		p.i++
	}
	if p.isIdent("async") {
		sig.Async = true
		p.i++
	}
	if p.isIdent("unsafe") {
		sig.Unsafe = true
		p.i++
	}
	if p.isIdent("extern") {
		abiStart := p.i
		p.i++
		if t := p.peek(0); t != nil && t.Kind == token.Literal {
			p.i++
		}
		sig.Abi = p.s[abiStart:p.i]
	}
	if !p.isIdent("fn") {
		return sig, p.errorHere("expected `fn`")
	}
	p.i++
	if t := p.peek(0); t == nil || t.Kind != token.Ident {
		return sig, p.errorHere("expected function name")
	}
	sig.Ident = p.s[p.i].Text
	sig.IdentSpan = p.s[p.i].Span
	p.i++

	if p.isLone("<") {
		params, err := p.parseGenericParams()
		if err != nil {
			return sig, err
		}
		sig.Generics.Params = params
	}

	if !p.isGroup(token.Paren) {
		return sig, p.errorHere("expected `(`")
	}
	inputs, variadic, err := parseArgs(p.s[p.i])
	if err != nil {
		return sig, err
	}
	sig.Inputs = inputs
	sig.Variadic = variadic
	p.i++

	if p.s.HasPunctSeq(p.i, "->") {
		p.i += 2
		sig.Output = p.collectUntil(func(t token.Tree) bool {
			return t.IsIdent("where") || t.IsGroup(token.Brace) || t.IsPunct(";")
		})
		if len(sig.Output) == 0 {
			return sig, p.errorHere("expected return type")
		}
	}

	if err := p.parseWhere(&sig.Generics); err != nil {
		return sig, err
	}
	sig.Span = p.spanFrom(start)
	return sig, nil
}

// parseGenericParams parses `<..>` at the current position.
func (p *parser) parseGenericParams() ([]GenericParam, error) {
	open := p.i
	depth := 0
	for ; p.i < len(p.s); p.i++ {
		depth = token.AngleDepth(p.s, p.i, depth)
		if depth == 0 {
			break
		}
	}
	if p.eof() {
		p.i = open
		return nil, p.errorHere("unclosed `<`")
	}
	inner := p.s[open+1 : p.i]
	p.i++

	var params []GenericParam
	for _, part := range token.Split(inner, ",") {
		gp, err := parseGenericParam(part)
		if err != nil {
			return nil, err
		}
		params = append(params, gp)
	}
	return params, nil
}

func parseGenericParam(s token.Stream) (GenericParam, error) {
	for len(s) >= 2 && s[0].IsPunct("#") && s[1].IsGroup(token.Bracket) {
		s = s[2:]
	}
	gp := GenericParam{Span: s.Span()}
	if len(s) == 0 {
		return gp, errorAt(gp.Span, "expected generic parameter")
	}
	switch {
	case s[0].Kind == token.Lifetime:
		gp.Kind = LifetimeParam
		gp.Name = s[0].Text
		if len(s) > 1 {
			if !s[1].IsPunct(":") {
				return gp, errorAt(s[1].Span, "expected `:` after lifetime parameter")
			}
			gp.Bounds = s[2:]
		}
	case s[0].IsIdent("const"):
		gp.Kind = ConstParam
		if len(s) < 3 || s[1].Kind != token.Ident || !s[2].IsPunct(":") {
			return gp, errorAt(gp.Span, "expected `const NAME: Type`")
		}
		gp.Name = s[1].Text
		gp.Type, gp.Default, _ = splitAtLone(s[3:], "=")
	case s[0].Kind == token.Ident:
		gp.Kind = TypeParam
		gp.Name = s[0].Text
		rest := s[1:]
		switch {
		case len(rest) == 0:
		case rest[0].IsPunct(":") && token.IsLonePunct(rest, 0):
			gp.Bounds, gp.Default, _ = splitAtLone(rest[1:], "=")
		case rest[0].IsPunct("=") && token.IsLonePunct(rest, 0):
			gp.Default = rest[1:]
		default:
			return gp, errorAt(rest[0].Span, "unexpected `%v` in generic parameter", rest[0].String())
		}
	default:
		return gp, errorAt(gp.Span, "expected generic parameter")
	}
	return gp, nil
}

// parseWhere parses an optional where clause that ends at a braced
// group or `;`.
func (p *parser) parseWhere(g *Generics) error {
	if !p.isIdent("where") {
		return nil
	}
	p.i++
	clause := p.collectUntil(func(t token.Tree) bool {
		return t.IsGroup(token.Brace) || t.IsPunct(";")
	})
	for _, part := range token.Split(clause, ",") {
		bounded, bounds, ok := splitAtLone(part, ":")
		if !ok {
			return errorAt(part.Span(), "expected `:` in where predicate")
		}
		g.Where = append(g.Where, WherePredicate{Bounded: bounded, Bounds: bounds})
	}
	return nil
}

// splitAtLone splits s at the first occurrence of the lone punctuation
// op at angle depth zero.
func splitAtLone(s token.Stream, op string) (before, after token.Stream, found bool) {
	depth := 0
	for i, t := range s {
		if depth == 0 && t.IsPunct(op) && token.IsLonePunct(s, i) {
			return s[:i], s[i+1:], true
		}
		depth = token.AngleDepth(s, i, depth)
	}
	return s, nil, false
}

// splitArgs splits the contents of an argument list at top-level
// commas. Angle brackets nest in patterns and types; inside default
// value expressions only turbofish brackets do, since `<` there is
// usually a comparison.
func splitArgs(s token.Stream) (args []token.Stream, trailingComma bool) {
	depth := 0
	inExpr := false
	start := 0
	for i, t := range s {
		if !inExpr {
			if depth == 0 && t.IsPunct("=") && token.IsLonePunct(s, i) {
				inExpr = true
				continue
			}
			depth = token.AngleDepth(s, i, depth)
		} else {
			switch {
			case t.IsPunct("<") && i >= 2 && s.HasPunctSeq(i-2, "::"):
				depth++
			case t.IsPunct(">") && depth > 0 && token.IsLonePunct(s, i):
				depth--
			}
		}
		if depth == 0 && t.IsPunct(",") {
			args = append(args, s[start:i])
			start = i + 1
			inExpr = false
		}
	}
	if start < len(s) {
		args = append(args, s[start:])
		return args, false
	}
	return args, len(args) > 0
}

func isDots(s token.Stream) bool {
	return len(s) == 3 && s.HasPunctSeq(0, "...")
}

func parseArgs(group token.Tree) ([]FnArg, *Variadic, error) {
	parts, trailingComma := splitArgs(group.Inner)
	var args []FnArg
	hasReceiver := false
	for i, part := range parts {
		if len(part) == 0 {
			return nil, nil, errorAt(group.Span, "expected argument before `,`")
		}
		arg, err := parseArg(part, group.Span)
		if err != nil {
			return nil, nil, err
		}
		if arg.IsReceiver() {
			if hasReceiver {
				return nil, nil, errorAt(arg.Span, "unexpected second method receiver")
			}
			if i > 0 {
				return nil, nil, errorAt(arg.Span, "unexpected method receiver")
			}
			hasReceiver = true
		}
		args = append(args, arg)
	}

	var variadic *Variadic
	for i, arg := range args {
		if !isDots(arg.Type) {
			continue
		}
		if i != len(args)-1 || trailingComma {
			return nil, nil, errorAt(arg.Span, "variadic marker must be the last argument")
		}
		variadic = &Variadic{Attrs: arg.Attrs, Span: arg.Span}
		if !isDots(arg.Pat) {
			variadic.Pat = arg.Pat
		}
		args = args[:i]
	}
	return args, variadic, nil
}

func parseArg(s token.Stream, groupSpan token.Span) (FnArg, error) {
	p := newParser(s, token.Span{})
	arg := FnArg{Span: s.Span()}
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return arg, err
	}
	arg.Attrs = attrs
	rest := s[p.i:]
	if len(rest) == 0 {
		return arg, errorAt(groupSpan, "expected argument after attributes")
	}

	if isDots(rest) {
		arg.Pat = rest
		arg.Type = rest
		return arg, nil
	}

	if recv, ok := parseReceiver(rest); ok {
		arg.Receiver = recv
		return arg, nil
	}

	if rest[0].Kind == token.Ident && len(rest) > 1 && rest[1].IsPunct("<") {
		// Type-only argument of the pre-2018 form, e.g. `Vec<u8>`.
		arg.Pat = token.Stream{token.Tree{Kind: token.Ident, Text: "_", Span: rest[0].Span}}
		typ, expr, hasDefault := splitAtLone(rest, "=")
		arg.Type = typ
		if hasDefault {
			arg.Default = &Assign{Expr: expr, Span: expr.Span()}
		}
	} else {
		pat, typed, ok := splitAtLone(rest, ":")
		if !ok {
			return arg, errorAt(arg.Span, "expected `:` after argument pattern")
		}
		if len(pat) == 0 {
			return arg, errorAt(arg.Span, "expected argument pattern")
		}
		arg.Pat = pat
		if isDots(typed) {
			arg.Type = typed
			return arg, nil
		}
		typ, expr, hasDefault := splitAtLone(typed, "=")
		arg.Type = typ
		if hasDefault {
			arg.Default = &Assign{Expr: expr, Span: expr.Span()}
		}
	}
	if len(arg.Type) == 0 {
		return arg, errorAt(arg.Span, "expected argument type")
	}
	if arg.Default != nil && len(arg.Default.Expr) == 0 {
		return arg, errorAt(arg.Span, "expected default value after `=`")
	}
	return arg, arg.takeDefaultAttr()
}

// takeDefaultAttr moves a `#[default(= expr)]` attribute into Default.
func (a *FnArg) takeDefaultAttr() error {
	for i, attr := range a.Attrs {
		if len(attr.Path) != 1 || attr.Name() != "default" {
			continue
		}
		if len(attr.Args) != 1 || !attr.Args[0].IsGroup(token.Paren) {
			return errorAt(attr.Span, "expected `#[default(= <expr>)]`")
		}
		if a.Default != nil {
			return errorAt(attr.Span, "duplicate default value")
		}
		expr := attr.Args[0].Inner
		if len(expr) > 0 && expr[0].IsPunct("=") && token.IsLonePunct(expr, 0) {
			expr = expr[1:]
		}
		if len(expr) == 0 {
			return errorAt(attr.Span, "expected default value expression")
		}
		a.Default = &Assign{Expr: expr, Span: attr.Span}
		a.Attrs = append(a.Attrs[:i:i], a.Attrs[i+1:]...)
		return nil
	}
	return nil
}

// parseReceiver recognizes `self`, `mut self`, `&self`, `&'a mut self`
// and `self: Type`.
func parseReceiver(s token.Stream) (*Receiver, bool) {
	r := &Receiver{}
	i := 0
	if s[i].IsPunct("&") {
		r.Ref = true
		i++
		if i < len(s) && s[i].Kind == token.Lifetime {
			r.Lifetime = s[i].Text
			i++
		}
	}
	if i < len(s) && s[i].IsIdent("mut") {
		r.Mut = true
		i++
	}
	if i >= len(s) || !s[i].IsIdent("self") {
		return nil, false
	}
	i++
	if i == len(s) {
		return r, true
	}
	if r.Ref || !s[i].IsPunct(":") || i+1 == len(s) {
		return nil, false
	}
	r.Explicit = s[i+1:]
	return r, true
}

func (p *parser) parseBody() (attrs []Attribute, body token.Stream, err error) {
	if !p.isGroup(token.Brace) {
		return nil, nil, p.errorHere("expected function body")
	}
	attrs, body, err = splitInnerAttrs(p.s[p.i].Inner)
	p.i++
	return attrs, body, err
}

func (p *parser) expectEOF(what string) error {
	if !p.eof() {
		return p.errorHere("unexpected token after %v", what)
	}
	return nil
}

func ParseItemFn(s token.Stream) (*ItemFn, error) {
	p := newParser(s, token.Span{})
	f := &ItemFn{Span: s.Span()}
	var err error
	if f.Attrs, err = p.parseOuterAttrs(); err != nil {
		return nil, err
	}
	f.Vis = p.parseVis()
	if f.Sig, err = p.parseSignature(); err != nil {
		return nil, err
	}
	inner, body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	f.Attrs = append(f.Attrs, inner...)
	f.Body = body
	if err := p.expectEOF("function body"); err != nil {
		return nil, err
	}
	return f, nil
}

func ParseItemTrait(s token.Stream) (*ItemTrait, error) {
	p := newParser(s, token.Span{})
	t := &ItemTrait{Span: s.Span()}
	var err error
	if t.Attrs, err = p.parseOuterAttrs(); err != nil {
		return nil, err
	}
	hdrStart := p.i
	p.parseVis()
	if p.isIdent("unsafe") {
		t.Unsafe = true
		p.i++
	}
	if p.isIdent("auto") {
		p.i++
	}
	if !p.isIdent("trait") {
		return nil, p.errorHere("expected `trait`")
	}
	p.i++
	if tok := p.peek(0); tok == nil || tok.Kind != token.Ident {
		return nil, p.errorHere("expected trait name")
	}
	t.Ident = p.s[p.i].Text
	p.i++
	if p.isLone("<") {
		if t.Generics.Params, err = p.parseGenericParams(); err != nil {
			return nil, err
		}
	}
	if p.isLone(":") {
		p.i++
		p.collectUntil(func(t token.Tree) bool {
			return t.IsIdent("where") || t.IsGroup(token.Brace)
		})
	}
	if err := p.parseWhere(&t.Generics); err != nil {
		return nil, err
	}
	if !p.isGroup(token.Brace) {
		return nil, p.errorHere("expected trait body")
	}
	t.Header = s[hdrStart:p.i]
	if t.Members, err = parseMembers(p.s[p.i]); err != nil {
		return nil, err
	}
	p.i++
	if err := p.expectEOF("trait body"); err != nil {
		return nil, err
	}
	return t, nil
}

func ParseItemImpl(s token.Stream) (*ItemImpl, error) {
	p := newParser(s, token.Span{})
	im := &ItemImpl{Span: s.Span()}
	var err error
	if im.Attrs, err = p.parseOuterAttrs(); err != nil {
		return nil, err
	}
	hdrStart := p.i
	if p.isIdent("default") {
		im.Default = true
		p.i++
	}
	if p.isIdent("unsafe") {
		im.Unsafe = true
		p.i++
	}
	if !p.isIdent("impl") {
		return nil, p.errorHere("expected `impl`")
	}
	p.i++
	if p.isLone("<") {
		if im.Generics.Params, err = p.parseGenericParams(); err != nil {
			return nil, err
		}
	}
	headStart := p.i
	head := p.collectUntil(func(t token.Tree) bool {
		return t.IsIdent("where") || t.IsGroup(token.Brace)
	})
	if len(head) == 0 {
		p.i = headStart
		return nil, p.errorHere("expected type")
	}
	if idx := forKeyword(head); idx >= 0 {
		path := head[:idx]
		neg := len(path) > 0 && path[0].IsPunct("!")
		if neg {
			path = path[1:]
		}
		if len(path) == 0 {
			return nil, errorAt(head[idx].Span, "expected trait path before `for`")
		}
		im.Trait = &TraitRef{Negative: neg, Path: path}
		im.SelfTy = head[idx+1:]
		if len(im.SelfTy) == 0 {
			return nil, errorAt(head[idx].Span, "expected type after `for`")
		}
	} else {
		im.SelfTy = head
	}
	if err := p.parseWhere(&im.Generics); err != nil {
		return nil, err
	}
	if !p.isGroup(token.Brace) {
		return nil, p.errorHere("expected impl body")
	}
	im.Header = s[hdrStart:p.i]
	if im.Members, err = parseMembers(p.s[p.i]); err != nil {
		return nil, err
	}
	p.i++
	if err := p.expectEOF("impl body"); err != nil {
		return nil, err
	}
	return im, nil
}

// forKeyword returns the index of the `for` separating trait and self
// type in an impl header, skipping `for<'a>` binders.
func forKeyword(head token.Stream) int {
	depth := 0
	for i, t := range head {
		if depth == 0 && i > 0 && t.IsIdent("for") {
			binder := i+2 < len(head) && head[i+1].IsPunct("<") && head[i+2].Kind == token.Lifetime
			if !binder {
				return i
			}
		}
		depth = token.AngleDepth(head, i, depth)
	}
	return -1
}

// parseMembers splits a trait or impl body into methods and verbatim
// items.
func parseMembers(body token.Tree) ([]Member, error) {
	end := body.Span
	end.Start = end.End
	p := newParser(body.Inner, end)
	var members []Member
	for !p.eof() {
		start := p.i
		if p.isLone("#") && p.peek(1) != nil && p.peek(1).IsPunct("!") {
			p.i += 3
			members = append(members, Member{Tokens: p.s[start:p.i], Span: p.spanFrom(start)})
			continue
		}
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		afterAttrs := p.i
		vis := p.parseVis()
		isDefault := false
		if p.isIdent("default") {
			p.i++
			isDefault = true
		}
		if !p.fnAhead() {
			p.i = afterAttrs
			p.skipItem()
			members = append(members, Member{Tokens: p.s[start:p.i], Span: p.spanFrom(start)})
			continue
		}
		m := &Method{Attrs: attrs, Vis: vis, Default: isDefault}
		if m.Sig, err = p.parseSignature(); err != nil {
			return nil, err
		}
		if p.isLone(";") {
			p.i++
		} else {
			inner, b, err := p.parseBody()
			if err != nil {
				return nil, err
			}
			m.Attrs = append(m.Attrs, inner...)
			m.HasBody = true
			m.Body = b
		}
		m.Span = p.spanFrom(start)
		members = append(members, Member{Method: m, Tokens: p.s[start:p.i], Span: m.Span})
	}
	return members, nil
}

// ParseMethod parses a single function as found in a trait or impl
// body.
func ParseMethod(s token.Stream) (*Method, error) {
	members, err := parseMembers(token.NewGroup(token.Brace, s))
	if err != nil {
		return nil, err
	}
	if len(members) != 1 || members[0].Method == nil {
		return nil, errorAt(s.Span(), "expected a single function")
	}
	return members[0].Method, nil
}

// skipItem consumes a non-function item: up to and including `;`, or a
// braced group that ends the item.
func (p *parser) skipItem() {
	for !p.eof() {
		t := p.s[p.i]
		p.i++
		if t.IsPunct(";") {
			return
		}
		if t.IsGroup(token.Brace) {
			if next := p.peek(0); next == nil || !(next.IsPunct(";") || next.IsPunct(".")) {
				return
			}
		}
	}
}

// ParseItem parses whichever of the three supported shapes s has. It
// returns [ErrNotApplicable] if s is none of them.
func ParseItem(s token.Stream) (Decl, error) {
	p := newParser(s, token.Span{})
	if _, err := p.parseOuterAttrs(); err != nil {
		return nil, ErrNotApplicable
	}
	p.parseVis()
	for !p.eof() {
		t := p.s[p.i]
		switch {
		case t.Kind == token.Ident && (qualifiers[t.Text] || t.Text == "default" || t.Text == "auto"):
			p.i++
			continue
		case t.Kind == token.Literal && p.i > 0 && p.s[p.i-1].IsIdent("extern"):
			p.i++
			continue
		case t.IsIdent("fn"):
			return ParseItemFn(s)
		case t.IsIdent("trait"):
			return ParseItemTrait(s)
		case t.IsIdent("impl"):
			return ParseItemImpl(s)
		default:
			return nil, ErrNotApplicable
		}
	}
	return nil, ErrNotApplicable
}
