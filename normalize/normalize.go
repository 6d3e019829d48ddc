// Package normalize computes canonical keys of function signatures.
//
// Two signatures have the same key iff they cannot be told apart by
// the argument types a call site passes: argument patterns, default
// values, qualifiers and the return type are ignored, and generic
// parameters are renamed after their declaration position.
package normalize

import (
	"fmt"

	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

type aliases struct {
	types     map[string]string
	lifetimes map[string]string
}

func newAliases(params []syntax.GenericParam) aliases {
	a := aliases{types: map[string]string{}, lifetimes: map[string]string{}}
	for i, gp := range params {
		if gp.Kind == syntax.LifetimeParam {
			a.lifetimes[gp.Name] = fmt.Sprintf("'__g%v", i)
		} else {
			a.types[gp.Name] = fmt.Sprintf("__G%v", i)
		}
	}
	return a
}

// afterPathSep reports whether s[i] follows `::` or `.`, making it a
// path segment rather than a type name.
func afterPathSep(s token.Stream, i int) bool {
	return i > 0 && (s[i-1].IsPunct(".") || (i >= 2 && s.HasPunctSeq(i-2, "::")))
}

func (a aliases) rename(s token.Stream) token.Stream {
	if s == nil {
		return nil
	}
	res := make(token.Stream, 0, len(s))
	for i, t := range s {
		switch t.Kind {
		case token.Ident:
			if n, ok := a.types[t.Text]; ok && !afterPathSep(s, i) {
				t.Text = n
			}
		case token.Lifetime:
			if n, ok := a.lifetimes[t.Text]; ok {
				t.Text = n
			}
		case token.Group:
			t.Inner = a.rename(t.Inner)
		}
		res = append(res, t)
	}
	return res
}

// neutral identifiers may appear in a bounded type without being
// generic parameters.
var neutral = map[string]bool{"Self": true, "dyn": true, "mut": true, "for": true}

// mapped reports whether every type name and lifetime in s is a
// generic parameter. Lifetimes introduced by a `for<..>` binder count
// as mapped.
func (a aliases) mapped(s token.Stream) bool {
	bound := map[string]bool{"'static": true, "'_": true}
	depth := 0
	inBinder := false
	for i, t := range s {
		if t.IsIdent("for") && i+1 < len(s) && s[i+1].IsPunct("<") {
			inBinder = true
		}
		switch t.Kind {
		case token.Ident:
			if afterPathSep(s, i) || neutral[t.Text] {
				continue
			}
			if _, ok := a.types[t.Text]; !ok {
				return false
			}
		case token.Lifetime:
			if inBinder {
				bound[t.Text] = true
				continue
			}
			if _, ok := a.lifetimes[t.Text]; !ok && !bound[t.Text] {
				return false
			}
		case token.Group:
			if !a.mapped(t.Inner) {
				return false
			}
		case token.Punct:
			depth = token.AngleDepth(s, i, depth)
			if inBinder && depth == 0 && t.IsPunct(">") {
				inBinder = false
			}
		}
	}
	return true
}

// Signature returns a normalized copy of sig.
func Signature(sig *syntax.Signature) *syntax.Signature {
	a := newAliases(sig.Generics.Params)
	res := &syntax.Signature{
		Ident:     sig.Ident,
		IdentSpan: sig.IdentSpan,
		Span:      sig.Span,
	}
	for _, gp := range sig.Generics.Params {
		n := syntax.GenericParam{Kind: gp.Kind, Span: gp.Span}
		if gp.Kind == syntax.LifetimeParam {
			n.Name = a.lifetimes[gp.Name]
		} else {
			n.Name = a.types[gp.Name]
		}
		n.Bounds = a.rename(gp.Bounds)
		n.Type = a.rename(gp.Type)
		res.Generics.Params = append(res.Generics.Params, n)
	}
	for _, wp := range sig.Generics.Where {
		if !a.mapped(wp.Bounded) {
			continue
		}
		res.Generics.Where = append(res.Generics.Where, syntax.WherePredicate{
			Bounded: a.rename(wp.Bounded),
			Bounds:  a.rename(wp.Bounds),
		})
	}
	for _, arg := range sig.Inputs {
		n := syntax.FnArg{Span: arg.Span}
		if r := arg.Receiver; r != nil {
			lt := r.Lifetime
			if alias, ok := a.lifetimes[lt]; ok {
				lt = alias
			}
			n.Receiver = &syntax.Receiver{Ref: r.Ref, Mut: r.Mut && r.Ref, Lifetime: lt, Explicit: a.rename(r.Explicit)}
		} else {
			n.Pat = token.Stream{token.NewIdent("_")}
			n.Type = a.rename(arg.Type)
		}
		res.Inputs = append(res.Inputs, n)
	}
	if sig.Variadic != nil {
		res.Variadic = &syntax.Variadic{Span: sig.Variadic.Span}
	}
	return res
}

// ReceiverType renders the type a receiver stands for, with selfTy as
// the type of `self`.
func ReceiverType(r *syntax.Receiver, selfTy token.Stream) token.Stream {
	if len(r.Explicit) > 0 {
		return r.Explicit.Clone()
	}
	var s token.Stream
	if r.Ref {
		s = append(s, token.NewPunct("&", false))
		if r.Lifetime != "" {
			s = append(s, token.NewLifetime(r.Lifetime))
		}
		if r.Mut {
			s = append(s, token.NewIdent("mut"))
		}
	}
	return append(s, selfTy.Clone()...)
}

// Tokens renders the key of an already normalized signature.
func Tokens(n *syntax.Signature) token.Stream {
	types := make([]token.Stream, 0, len(n.Inputs)+1)
	for _, arg := range n.Inputs {
		if arg.Receiver != nil {
			types = append(types, ReceiverType(arg.Receiver, token.Stream{token.NewIdent("Self")}))
		} else {
			types = append(types, arg.Type)
		}
	}
	if n.Variadic != nil {
		types = append(types, token.Puncts("..."))
	}
	return token.Concat(
		n.Generics.ParamsTokens(false),
		token.Stream{token.NewGroup(token.Paren, token.Join(types, ","))},
		n.Generics.WhereTokens(),
	)
}

// Key returns the canonical key of sig.
func Key(sig *syntax.Signature) string {
	return Tokens(Signature(sig)).String()
}
