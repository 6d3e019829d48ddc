/*
Package rewrite expands one annotated declaration into its overloaded
form. It is the entry point the host calls for every item carrying the
overload attribute, in textual order, against a shared
[overload.Session].
*/
package rewrite

import (
	"errors"

	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/overload"
	"github.com/refaktor/overloadgen/synth"
	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

// Shape is the kind of declaration an annotation was applied to.
type Shape uint8

const (
	NotApplicable Shape = iota
	Function
	Trait
	TraitImpl
	InherentImpl
)

func (s Shape) String() string {
	switch s {
	case NotApplicable:
		return "not applicable"
	case Function:
		return "fn"
	case Trait:
		return "trait"
	case TraitImpl:
		return "trait impl"
	case InherentImpl:
		return "impl"
	default:
		panic("invalid shape")
	}
}

// Result is the outcome of one expansion.
type Result struct {
	// Tokens replace the annotated declaration.
	Tokens      token.Stream
	Diagnostics []diag.Diagnostic
	Shape       Shape
	// Types counts the dispatch types emitted.
	Types int
	// Contracts counts the emitted FnOnce/FnMut/Fn triples.
	Contracts int
}

func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

type Expander struct {
	Session          *overload.Session
	Synth            synth.Options
	WarningsAsErrors bool
}

func New(sess *overload.Session, opts synth.Options) *Expander {
	return &Expander{Session: sess, Synth: opts}
}

// expansion holds the state of a single Expand call.
type expansion struct {
	*Expander
	bag diag.Bag
	res Result
}

// Expand rewrites item, given the arguments of its overload attribute.
func (e *Expander) Expand(attr, item token.Stream) Result {
	x := &expansion{
		Expander: e,
		bag:      diag.Bag{WarningsAsErrors: e.WarningsAsErrors},
	}
	x.checkArgs(attr)

	decl, err := syntax.ParseItem(item)
	switch {
	case errors.Is(err, syntax.ErrNotApplicable):
		item.Leaves(func(t token.Tree) {
			x.bag.Warnf(diag.NotApplicable, t.Span,
				"`overload` can only be applied to functions, traits and impl blocks")
		})
	case err != nil:
		x.bag.AddParseError(err, item.Span())
	default:
		switch d := decl.(type) {
		case *syntax.ItemFn:
			x.res.Shape = Function
			x.fn(d)
		case *syntax.ItemTrait:
			x.res.Shape = Trait
			x.trait(d)
		case *syntax.ItemImpl:
			if d.Trait != nil {
				x.res.Shape = TraitImpl
				x.traitImpl(d)
			} else {
				x.res.Shape = InherentImpl
				x.inherentImpl(d)
			}
		}
	}

	x.res.Diagnostics = x.bag.Diagnostics()
	return x.res
}

// checkArgs accepts the inert `default` flag and warns about anything
// else.
func (x *expansion) checkArgs(attr token.Stream) {
	for _, arg := range token.Split(attr, ",") {
		if len(arg) == 1 && arg[0].IsIdent("default") {
			continue
		}
		x.bag.Warnf(diag.UnknownArgument, arg.Span(),
			"unknown argument `%v`, only `default` is accepted", arg)
	}
}

func (x *expansion) emit(s token.Stream) {
	x.res.Tokens = append(x.res.Tokens, s...)
}

// generated reports a failure to render generated code for the
// declaration at span.
func (x *expansion) generated(err error, span token.Span) {
	x.bag.Errorf(diag.ParseError, span, "generated code: %v", err)
}

// render appends generated code, reporting failures at span.
func (x *expansion) render(s token.Stream, err error, span token.Span) bool {
	if err != nil {
		x.generated(err, span)
		return false
	}
	x.emit(s)
	return true
}

func (x *expansion) contract(req synth.Request, span token.Span) token.Stream {
	s, err := x.Synth.Contract(x.Synth.Build(req))
	if err != nil {
		x.generated(err, span)
		return nil
	}
	x.res.Contracts++
	return s
}

// target instantiates the owned dispatch type name for selfTy.
func target(name string, selfTy token.Stream) token.Stream {
	return token.Concat(
		token.Stream{token.NewIdent(name)},
		token.Puncts("<"), selfTy.Clone(), token.Puncts(">"),
	)
}

// stripDefaults removes default-parameter sugar from a method outside
// of free-function argument lists. The input is not modified.
func (x *expansion) stripDefaults(m *syntax.Method) (*syntax.Method, bool) {
	if !m.Sig.HasDefaults() {
		return m, false
	}
	res := *m
	res.Sig.Inputs = make([]syntax.FnArg, len(m.Sig.Inputs))
	for i, a := range m.Sig.Inputs {
		if a.Default != nil {
			x.bag.Warnf(diag.UnsupportedConstruct, a.Default.Span,
				"default parameters are only supported on free functions, the default of `%v` is ignored", a.Pat)
			a.Default = nil
		}
		res.Sig.Inputs[i] = a
	}
	return &res, true
}

// methodSets groups the methods of members by name.
func methodSets(members []syntax.Member) []*overload.Set[*syntax.Method] {
	var methods []*syntax.Method
	for _, mem := range members {
		if mem.Method != nil {
			methods = append(methods, mem.Method)
		}
	}
	return overload.Group(methods, func(m *syntax.Method) string { return m.Sig.Ident })
}

// leadingVis returns the visibility at the start of an item header.
func leadingVis(header token.Stream) token.Stream {
	if len(header) == 0 || !header[0].IsIdent("pub") {
		return nil
	}
	if len(header) > 1 && header[1].IsGroup(token.Paren) {
		return header[:2].Clone()
	}
	return header[:1].Clone()
}

// claim reports a duplicate normalized signature within sigs.
func (x *expansion) claim(sigs overload.Signatures, key string, sig *syntax.Signature) bool {
	c, ok := sigs.Claim([]string{key}, sig.IdentSpan)
	if !ok {
		x.bag.Errorf(diag.DuplicateOverload, sig.IdentSpan,
			"`%v` with signature `%v` is already declared at %v", sig.Ident, c.Key, c.Prior)
	}
	return ok
}

// wrapItem renders an item with its outer attributes, header and a
// rewritten body.
func wrapItem(attrs []syntax.Attribute, header, body token.Stream) token.Stream {
	return token.Concat(
		syntax.AttrsTokens(attrs),
		header.Clone(),
		token.Stream{token.NewGroup(token.Brace, body)},
	)
}
