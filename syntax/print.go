package syntax

import "github.com/refaktor/overloadgen/token"

func ident(name string) token.Tree {
	return token.NewIdent(name)
}

func (a Attribute) Tokens() token.Stream {
	s := token.Stream{token.NewPunct("#", a.Inner)}
	if a.Inner {
		s = append(s, token.NewPunct("!", false))
	}
	g := token.NewGroup(token.Bracket, token.Concat(a.Path, a.Args).Clone())
	g.Span = a.Span
	return append(s, g)
}

// AttrsTokens renders attrs in order.
func AttrsTokens(attrs []Attribute) token.Stream {
	var s token.Stream
	for _, a := range attrs {
		s = append(s, a.Tokens()...)
	}
	return s
}

// Tokens renders the parameter, including its default if withDefault
// is set.
func (gp GenericParam) Tokens(withDefault bool) token.Stream {
	var s token.Stream
	switch gp.Kind {
	case LifetimeParam:
		s = token.Stream{token.NewLifetime(gp.Name)}
	case TypeParam:
		s = token.Stream{ident(gp.Name)}
	case ConstParam:
		s = token.Stream{ident("const"), ident(gp.Name), token.NewPunct(":", false)}
		s = append(s, gp.Type...)
	}
	if len(gp.Bounds) > 0 {
		s = append(s, token.NewPunct(":", false))
		s = append(s, gp.Bounds...)
	}
	if withDefault && len(gp.Default) > 0 {
		s = append(s, token.NewPunct("=", false))
		s = append(s, gp.Default...)
	}
	return s.Clone()
}

// ParamsTokens renders `<..>`, or nil if there are no params.
func (g Generics) ParamsTokens(withDefaults bool) token.Stream {
	if len(g.Params) == 0 {
		return nil
	}
	parts := make([]token.Stream, len(g.Params))
	for i, gp := range g.Params {
		parts[i] = gp.Tokens(withDefaults)
	}
	return token.Concat(token.Puncts("<"), token.Join(parts, ","), token.Puncts(">"))
}

// ArgsTokens renders the params as generic arguments, `<'a, T, N>`,
// or nil if there are no params.
func (g Generics) ArgsTokens() token.Stream {
	if len(g.Params) == 0 {
		return nil
	}
	parts := make([]token.Stream, len(g.Params))
	for i, gp := range g.Params {
		if gp.Kind == LifetimeParam {
			parts[i] = token.Stream{token.NewLifetime(gp.Name)}
		} else {
			parts[i] = token.Stream{ident(gp.Name)}
		}
	}
	return token.Concat(token.Puncts("<"), token.Join(parts, ","), token.Puncts(">"))
}

func (wp WherePredicate) Tokens() token.Stream {
	return token.Concat(wp.Bounded, token.Puncts(":"), wp.Bounds).Clone()
}

// WhereTokens renders the where clause, or nil if there is none.
func (g Generics) WhereTokens() token.Stream {
	return WhereTokens(g.Where)
}

func WhereTokens(preds []WherePredicate) token.Stream {
	if len(preds) == 0 {
		return nil
	}
	parts := make([]token.Stream, len(preds))
	for i, wp := range preds {
		parts[i] = wp.Tokens()
	}
	return token.Concat(token.Stream{ident("where")}, token.Join(parts, ","))
}

func (r Receiver) Tokens() token.Stream {
	var s token.Stream
	if r.Ref {
		s = append(s, token.NewPunct("&", false))
		if r.Lifetime != "" {
			s = append(s, token.NewLifetime(r.Lifetime))
		}
	}
	if r.Mut {
		s = append(s, ident("mut"))
	}
	s = append(s, ident("self"))
	if len(r.Explicit) > 0 {
		s = append(s, token.NewPunct(":", false))
		s = append(s, r.Explicit.Clone()...)
	}
	return s
}

func (a FnArg) Tokens() token.Stream {
	s := AttrsTokens(a.Attrs)
	if a.Receiver != nil {
		return append(s, a.Receiver.Tokens()...)
	}
	s = append(s, a.Pat.Clone()...)
	s = append(s, token.NewPunct(":", false))
	s = append(s, a.Type.Clone()...)
	if a.Default != nil {
		s = append(s, token.NewPunct("=", false))
		s = append(s, a.Default.Expr.Clone()...)
	}
	return s
}

func (v Variadic) Tokens() token.Stream {
	s := AttrsTokens(v.Attrs)
	if len(v.Pat) > 0 {
		s = append(s, v.Pat.Clone()...)
		s = append(s, token.NewPunct(":", false))
	}
	return append(s, token.Puncts("...")...)
}

func (sig *Signature) Tokens() token.Stream {
	var s token.Stream
	for _, q := range []struct {
		set  bool
		name string
	}{{sig.Const, "const"}, {sig.Async, "async"}, {sig.Unsafe, "unsafe"}} {
		if q.set {
			s = append(s, ident(q.name))
		}
	}
	s = append(s, sig.Abi.Clone()...)
	s = append(s, ident("fn"), ident(sig.Ident))
	s = append(s, sig.Generics.ParamsTokens(true)...)

	args := make([]token.Stream, 0, len(sig.Inputs)+1)
	for _, a := range sig.Inputs {
		args = append(args, a.Tokens())
	}
	if sig.Variadic != nil {
		args = append(args, sig.Variadic.Tokens())
	}
	s = append(s, token.NewGroup(token.Paren, token.Join(args, ",")))

	if sig.Output != nil {
		s = append(s, token.Puncts("->")...)
		s = append(s, sig.Output.Clone()...)
	}
	return append(s, sig.Generics.WhereTokens()...)
}

func bodyTokens(attrs []Attribute, body token.Stream) token.Tree {
	var inner token.Stream
	for _, a := range attrs {
		if a.Inner {
			inner = append(inner, a.Tokens()...)
		}
	}
	return token.NewGroup(token.Brace, token.Concat(inner, body.Clone()))
}

func outerAttrs(attrs []Attribute) token.Stream {
	var s token.Stream
	for _, a := range attrs {
		if !a.Inner {
			s = append(s, a.Tokens()...)
		}
	}
	return s
}

func (f *ItemFn) Tokens() token.Stream {
	s := outerAttrs(f.Attrs)
	s = append(s, f.Vis.Clone()...)
	s = append(s, f.Sig.Tokens()...)
	return append(s, bodyTokens(f.Attrs, f.Body))
}

func (m *Method) Tokens() token.Stream {
	s := outerAttrs(m.Attrs)
	s = append(s, m.Vis.Clone()...)
	if m.Default {
		s = append(s, ident("default"))
	}
	s = append(s, m.Sig.Tokens()...)
	if !m.HasBody {
		return append(s, token.NewPunct(";", false))
	}
	return append(s, bodyTokens(m.Attrs, m.Body))
}
