/*
Package synth emits the generated dispatch types and their call
contracts: one FnOnce/FnMut/Fn implementation triple per argument
tuple, all sharing the body of the declaration they were built from.

Code is produced from text templates and lexed back into token
streams, so callers only ever handle [token.Stream] values.
*/
package synth

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/normalize"
	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

//go:embed dispatch.rs.tmpl
var templateSrc string

var templates = template.Must(template.New("dispatch.rs.tmpl").Funcs(templateFuncMap).Parse(templateSrc))

var templateFuncMap = template.FuncMap{
	// Returns the absolute path of item p in crate std,
	// e.g. path("std", "ops::Fn") = "::std::ops::Fn".
	"path": func(std, p string) string {
		return "::" + std + "::" + p
	},
}

type Options struct {
	// Std is the crate the marker, ops and future items come from.
	Std string
	// SelfPlaceholder replaces `self` in generated bodies.
	SelfPlaceholder string
}

var DefaultOptions = Options{Std: "std", SelfPlaceholder: "__self"}

func (o Options) render(name string, data any) (token.Stream, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return nil, fmt.Errorf("render %v: %w", name, err)
	}
	s, err := token.Parse(b.String())
	if err != nil {
		return nil, fmt.Errorf("render %v: %w", name, err)
	}
	return s, nil
}

func (o Options) stdPath(p string) token.Stream {
	return token.MustParse("::" + o.Std + "::" + p)
}

// FreeType is the dispatch type of a free function together with the
// static the function name resolves to.
type FreeType struct {
	Vis   token.Stream
	Name  string
	Ident string
}

func (o Options) FreeType(t FreeType) (token.Stream, error) {
	return o.render("freeType", struct {
		FreeType
		Std string
	}{t, o.Std})
}

// OwnedType is the dispatch type of a trait or impl method group. It
// is generic over the implementing type.
type OwnedType struct {
	Vis  token.Stream
	Name string
}

func (o Options) OwnedType(t OwnedType) (token.Stream, error) {
	return o.render("ownedType", struct {
		OwnedType
		Std string
	}{t, o.Std})
}

// Binding is the associated constant a method name resolves to within
// a trait or impl.
type Binding struct {
	Vis   token.Stream
	Name  string
	Ident string
}

func (o Options) Binding(b Binding) (token.Stream, error) {
	return o.render("binding", struct {
		Binding
		Std string
	}{b, o.Std})
}

// Contract is the call contract triple of a dispatch type for one
// argument tuple.
type Contract struct {
	Generics token.Stream
	Where    token.Stream
	Target   token.Stream
	Tuple    token.Stream
	Output   token.Stream
	Attrs    token.Stream
	Patterns token.Stream
	Body     token.Stream
}

func (o Options) Contract(c Contract) (token.Stream, error) {
	return o.render("contract", struct {
		Contract
		Std string
	}{c, o.Std})
}

// Request describes one member, or one default-expanded variant of a
// member, to build a contract for.
type Request struct {
	// Target is the instantiated dispatch type.
	Target token.Stream
	// SelfTy replaces `Self`. Nil outside impls.
	SelfTy token.Stream
	// Outer holds the generics of the enclosing impl.
	Outer syntax.Generics
	Sig   *syntax.Signature
	Attrs []syntax.Attribute
	Body  token.Stream
	// Inputs are the arguments forming the tuple and Assigns bind the
	// omitted ones.
	Inputs  []syntax.FnArg
	Assigns []token.Stream
}

// Check reports the qualifiers of sig that generated contracts cannot
// carry.
func Check(sig *syntax.Signature, bag *diag.Bag) {
	if sig.Const {
		bag.Warnf(diag.UnsupportedConstruct, sig.Span,
			"const fn is not supported, `%v` is generated without `const`", sig.Ident)
	}
	if sig.Unsafe {
		bag.Warnf(diag.UnsupportedConstruct, sig.Span,
			"unsafe fn is not supported, the body of `%v` is wrapped in an unsafe block instead", sig.Ident)
	}
	if len(sig.Abi) > 0 && !(len(sig.Abi) == 2 && sig.Abi[1].Text == `"Rust"`) {
		bag.Warnf(diag.UnsupportedConstruct, sig.Abi.Span(),
			"`%v` is not supported, the ABI of `%v` is dropped", sig.Abi, sig.Ident)
	}
	if sig.Variadic != nil {
		bag.Warnf(diag.UnsupportedConstruct, sig.Variadic.Span,
			"variadic arguments are not supported, `...` of `%v` is dropped", sig.Ident)
	}
}

// Tuple renders a tuple type or pattern: `()`, `(A,)` or `(A, B)`.
func Tuple(parts []token.Stream) token.Stream {
	inner := token.Join(parts, ",")
	if len(parts) == 1 {
		inner = append(inner, token.NewPunct(",", false))
	}
	return token.Stream{token.NewGroup(token.Paren, inner)}
}

// turbofish renders a path type in expression form, `Foo::<T>`.
// Types that are not paths are wrapped as `<ty>`.
func turbofish(ty token.Stream) token.Stream {
	if len(ty) == 0 || !(ty[0].Kind == token.Ident || ty.HasPunctSeq(0, "::")) {
		return token.Concat(token.Puncts("<"), ty, token.Puncts(">"))
	}
	for i, t := range ty {
		if t.IsPunct("<") {
			if i >= 2 && ty.HasPunctSeq(i-2, "::") {
				return ty
			}
			return token.Concat(ty[:i], token.Puncts("::"), ty[i:])
		}
	}
	return ty
}

// SubstSelf replaces `self` with the placeholder and, when selfTy is
// set, `Self` with selfTy: qualified as `<Ty>` before `::`, in
// turbofish form before a struct or tuple-struct body, and verbatim
// elsewhere. `self::` module paths are kept.
func (o Options) SubstSelf(s, selfTy token.Stream) token.Stream {
	pathNext := func(next *token.Tree) bool {
		return next != nil && next.IsPunct(":") && next.Joint
	}
	return token.ReplaceIdents(s, func(name string, next *token.Tree) (token.Stream, bool) {
		switch name {
		case "self":
			if pathNext(next) {
				return nil, false
			}
			return token.Stream{token.NewIdent(o.SelfPlaceholder)}, true
		case "Self":
			switch {
			case selfTy == nil:
				return nil, false
			case pathNext(next):
				return token.Concat(token.Puncts("<"), selfTy, token.Puncts(">")), true
			case next != nil && (next.IsGroup(token.Brace) || next.IsGroup(token.Paren)):
				return turbofish(selfTy), true
			}
			return selfTy, true
		}
		return nil, false
	})
}

// mergeParams joins impl and method generic params, lifetimes first.
func mergeParams(outer, inner []syntax.GenericParam) []syntax.GenericParam {
	var lifetimes, rest []syntax.GenericParam
	for _, gp := range slices.Concat(outer, inner) {
		if gp.Kind == syntax.LifetimeParam {
			lifetimes = append(lifetimes, gp)
		} else {
			rest = append(rest, gp)
		}
	}
	return append(lifetimes, rest...)
}

// callAttrs renders the attributes a source function passes on to
// call_once. `inline` is dropped since call_once is always inline,
// and inner attributes become outer ones.
func callAttrs(attrs []syntax.Attribute) token.Stream {
	var res []syntax.Attribute
	for _, a := range attrs {
		if len(a.Path) == 1 && a.Name() == "inline" {
			continue
		}
		a.Inner = false
		res = append(res, a)
	}
	return syntax.AttrsTokens(res)
}

// Build computes the contract for req.
func (o Options) Build(req Request) Contract {
	subst := func(s token.Stream) token.Stream {
		return o.SubstSelf(s, req.SelfTy)
	}
	selfTy := req.SelfTy
	if selfTy == nil {
		selfTy = token.Stream{token.NewIdent("Self")}
	}

	g := syntax.Generics{
		Params: mergeParams(req.Outer.Params, req.Sig.Generics.Params),
		Where:  slices.Concat(req.Outer.Where, req.Sig.Generics.Where),
	}
	c := Contract{
		Generics: subst(g.ParamsTokens(false)),
		Where:    subst(g.WhereTokens()),
		Target:   req.Target.Clone(),
		Attrs:    callAttrs(req.Attrs),
	}

	var types, pats []token.Stream
	for _, a := range req.Inputs {
		if r := a.Receiver; r != nil {
			types = append(types, subst(normalize.ReceiverType(r, selfTy)))
			pat := token.Stream{token.NewIdent(o.SelfPlaceholder)}
			if r.Mut && !r.Ref {
				pat = token.Concat(token.Stream{token.NewIdent("mut")}, pat)
			}
			pats = append(pats, pat)
			continue
		}
		types = append(types, subst(a.Type))
		pats = append(pats, a.Pat.Clone())
	}
	c.Tuple = Tuple(types)
	c.Patterns = Tuple(pats)

	out := req.Sig.Output
	if out == nil {
		out = token.Stream{token.NewGroup(token.Paren, nil)}
	}
	out = subst(out)
	body := subst(req.Body)
	if req.Sig.Async {
		out = token.MustParse(fmt.Sprintf("::%v::pin::Pin<::%v::boxed::Box<dyn ::%v::future::Future<Output = %v>>>",
			o.Std, o.Std, o.Std, out))
		body = token.Concat(o.stdPath("boxed::Box::pin"), token.Stream{
			token.NewGroup(token.Paren, token.Stream{
				token.NewIdent("async"),
				token.NewIdent("move"),
				token.NewGroup(token.Brace, body),
			}),
		})
	}
	if req.Sig.Unsafe {
		body = token.Stream{token.NewIdent("unsafe"), token.NewGroup(token.Brace, body)}
	}
	c.Output = out

	var stmts token.Stream
	for _, a := range req.Assigns {
		stmts = append(stmts, subst(a)...)
	}
	c.Body = append(stmts, body...)
	return c
}
