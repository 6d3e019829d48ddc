/*
Package syntax parses the Rust declarations that carry the overload
annotation: free functions, trait declarations and impl blocks.

The parser works on [token.Stream] trees rather than text and keeps
every type, pattern and expression as raw tokens. Only the parts the
rewriter needs to inspect are structured: qualifiers, generics,
arguments with their default values, receivers and item boundaries.

Beyond standard Rust, argument lists accept default values, either
inline (`a: i32 = 5`) or as an attribute (`#[default(= 5)] a: i32`).
*/
package syntax

import "github.com/refaktor/overloadgen/token"

// Decl is one of *ItemFn, *ItemTrait or *ItemImpl.
type Decl interface {
	declSpan() token.Span
}

type Attribute struct {
	Inner bool
	// Path is the attribute name, e.g. `default` or `overloadf::overload`.
	Path token.Stream
	// Args holds the tokens after the path, e.g. a `(..)` group or
	// `= "doc"`. Nil if absent.
	Args token.Stream
	Span token.Span
}

// Name returns the last identifier of the attribute path.
func (a Attribute) Name() string {
	for i := len(a.Path) - 1; i >= 0; i-- {
		if a.Path[i].Kind == token.Ident {
			return a.Path[i].Text
		}
	}
	return ""
}

type ParamKind uint8

const (
	LifetimeParam ParamKind = iota
	TypeParam
	ConstParam
)

type GenericParam struct {
	Kind ParamKind
	// Name includes the leading quote for lifetimes.
	Name string
	// Bounds are the tokens after `:` for type and lifetime params.
	Bounds token.Stream
	// Type is the type of a const param.
	Type    token.Stream
	Default token.Stream
	Span    token.Span
}

type WherePredicate struct {
	Bounded token.Stream
	Bounds  token.Stream
}

type Generics struct {
	Params []GenericParam
	Where  []WherePredicate
}

func (g Generics) IsEmpty() bool {
	return len(g.Params) == 0 && len(g.Where) == 0
}

// Assign is a default value: `= <expr>`.
type Assign struct {
	Expr token.Stream
	Span token.Span
}

// Receiver is a `self` argument. Explicit holds the type of the
// `self: Type` form.
type Receiver struct {
	Ref      bool
	Lifetime string
	Mut      bool
	Explicit token.Stream
}

// FnArg is a function argument: a receiver when Receiver is set,
// otherwise a typed pattern.
type FnArg struct {
	Attrs    []Attribute
	Receiver *Receiver
	Pat      token.Stream
	Type     token.Stream
	Default  *Assign
	Span     token.Span
}

func (a FnArg) IsReceiver() bool {
	return a.Receiver != nil
}

// Variadic is a trailing C-variadic marker, `...` or `args: ...`.
type Variadic struct {
	Attrs []Attribute
	// Pat is nil for the bare `...` form.
	Pat  token.Stream
	Span token.Span
}

type Signature struct {
	Const  bool
	Async  bool
	Unsafe bool
	// Abi holds `extern` and its optional ABI string.
	Abi       token.Stream
	Ident     string
	IdentSpan token.Span
	Generics  Generics
	Inputs    []FnArg
	Variadic  *Variadic
	// Output is nil for the unit return type.
	Output token.Stream
	Span   token.Span
}

// HasReceiver reports whether the first argument is a receiver.
func (s *Signature) HasReceiver() bool {
	return len(s.Inputs) > 0 && s.Inputs[0].IsReceiver()
}

// HasDefaults reports whether any argument carries a default value.
func (s *Signature) HasDefaults() bool {
	for _, a := range s.Inputs {
		if a.Default != nil {
			return true
		}
	}
	return false
}

type ItemFn struct {
	// Attrs holds outer attributes followed by the inner attributes
	// found at the start of the body.
	Attrs []Attribute
	Vis   token.Stream
	Sig   Signature
	// Body is the content of the body block without inner attributes.
	Body token.Stream
	Span token.Span
}

func (f *ItemFn) declSpan() token.Span { return f.Span }

// Method is a function within a trait or impl body.
type Method struct {
	Attrs []Attribute
	Vis   token.Stream
	// Default is the `default` specialization keyword.
	Default bool
	Sig     Signature
	// HasBody is false for declarations ending in `;`.
	HasBody bool
	Body    token.Stream
	Span    token.Span
}

// Member is an item within a trait or impl body. Non-function items
// are kept verbatim in Tokens.
type Member struct {
	Method *Method
	Tokens token.Stream
	Span   token.Span
}

type ItemTrait struct {
	Attrs []Attribute
	// Header holds the tokens between the attributes and the body,
	// e.g. `pub unsafe trait Foo<T>: Bar where T: Copy`.
	Header   token.Stream
	Unsafe   bool
	Ident    string
	Generics Generics
	Members  []Member
	Span     token.Span
}

func (t *ItemTrait) declSpan() token.Span { return t.Span }

// TraitRef is the trait part of `impl Trait for Type`.
type TraitRef struct {
	Negative bool
	Path     token.Stream
}

type ItemImpl struct {
	Attrs []Attribute
	// Header holds the tokens between the attributes and the body.
	Header   token.Stream
	Default  bool
	Unsafe   bool
	Generics Generics
	// Trait is nil for inherent impls.
	Trait   *TraitRef
	SelfTy  token.Stream
	Members []Member
	Span    token.Span
}

func (i *ItemImpl) declSpan() token.Span { return i.Span }
