package rewrite

import (
	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/normalize"
	"github.com/refaktor/overloadgen/overload"
	"github.com/refaktor/overloadgen/synth"
	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

// traitImpl synthesizes the overloaded methods of an impl against the
// dispatch types of its trait. Overloads the impl leaves out are
// recovered from the trait's default bodies.
func (x *expansion) traitImpl(im *syntax.ItemImpl) {
	path := im.Trait.Path
	name, ok := overload.TraitName(path)
	if !ok {
		x.bag.Errorf(diag.AmbiguousPath, path.Span(),
			"trait path `%v` is not supported, name the trait by its identifier", path)
		return
	}
	info, ok := x.Session.Trait(name)
	if !ok {
		x.bag.Errorf(diag.UnresolvedTrait, path.Span(), "definition of trait `%v` not found", name)
		return
	}
	bind := newTraitBinding(info.Params, path)

	var body, contracts token.Stream
	covered := map[string]overload.Signatures{}
	for _, mem := range im.Members {
		m := mem.Method
		if m == nil || !info.IsOverloaded(m.Sig.Ident) {
			body = append(body, mem.Tokens...)
			continue
		}
		synth.Check(&m.Sig, &x.bag)
		m, _ = x.stripDefaults(m)
		sigs := covered[m.Sig.Ident]
		if sigs == nil {
			sigs = overload.Signatures{}
			covered[m.Sig.Ident] = sigs
		}
		if !x.claim(sigs, implKey(&m.Sig, im.SelfTy), &m.Sig) {
			continue
		}
		contracts = append(contracts, x.implContract(im, info.Name, m)...)
	}

	for _, group := range info.Order {
		for _, e := range info.Methods[group] {
			m := bind.method(e.Method)
			if _, ok := covered[group][implKey(&m.Sig, im.SelfTy)]; ok {
				continue
			}
			if !e.HasBody {
				x.bag.Errorf(diag.MissingDefaultBody, im.Header.Span(),
					"not all trait items implemented, missing: `%v`", m.Sig.Tokens())
				continue
			}
			contracts = append(contracts, x.implContract(im, info.Name, m)...)
		}
	}

	x.emit(wrapItem(im.Attrs, im.Header, body))
	x.emit(contracts)
}

// implKey is the key of sig with `Self` spelled as selfTy, so that an
// impl method naming its self type matches the trait method naming
// `Self`.
func implKey(sig *syntax.Signature, selfTy token.Stream) string {
	s := token.ReplaceIdents(normalize.Tokens(normalize.Signature(sig)), func(name string, next *token.Tree) (token.Stream, bool) {
		if name != "Self" {
			return nil, false
		}
		return selfTy, true
	})
	return s.String()
}

// inherentImpl turns every method name declared more than once in an
// impl block into an associated const of a dispatch type, with one
// contract per declaration.
func (x *expansion) inherentImpl(im *syntax.ItemImpl) {
	owner := overload.Owner{Kind: overload.Impl, Path: im.SelfTy.String()}

	firsts := map[string]*syntax.Method{}
	for _, set := range methodSets(im.Members) {
		if !set.IsOverloaded() {
			continue
		}
		first := set.Members[0]
		firsts[set.Name] = first
		key := overload.TypeKey{Owner: owner, Name: set.Name}
		if !x.Session.MarkDefined(key) {
			continue
		}
		s, err := x.Synth.OwnedType(synth.OwnedType{Vis: first.Vis, Name: x.Session.TypeName(key)})
		if x.render(s, err, first.Span) {
			x.res.Types++
		}
	}

	var body, contracts token.Stream
	bound := map[string]bool{}
	sets := map[string]overload.Signatures{}
	for _, mem := range im.Members {
		m := mem.Method
		if m == nil {
			body = append(body, mem.Tokens...)
			continue
		}
		first, ok := firsts[m.Sig.Ident]
		if !ok {
			if stripped, ok := x.stripDefaults(m); ok {
				body = append(body, stripped.Tokens()...)
			} else {
				body = append(body, mem.Tokens...)
			}
			continue
		}
		if !bound[m.Sig.Ident] {
			bound[m.Sig.Ident] = true
			sets[m.Sig.Ident] = overload.Signatures{}
			key := overload.TypeKey{Owner: owner, Name: m.Sig.Ident}
			s, err := x.Synth.Binding(synth.Binding{Vis: first.Vis, Name: x.Session.TypeName(key), Ident: m.Sig.Ident})
			if err != nil {
				x.generated(err, m.Span)
			} else {
				body = append(body, s...)
			}
		}

		synth.Check(&m.Sig, &x.bag)
		m, _ = x.stripDefaults(m)
		if !x.claim(sets[m.Sig.Ident], normalize.Key(&m.Sig), &m.Sig) {
			continue
		}
		key := overload.TypeKey{Owner: owner, Name: m.Sig.Ident}
		contracts = append(contracts, x.contract(synth.Request{
			Target: target(x.Session.TypeName(key), im.SelfTy),
			SelfTy: im.SelfTy,
			Outer:  im.Generics,
			Sig:    &m.Sig,
			Attrs:  m.Attrs,
			Body:   m.Body,
			Inputs: m.Sig.Inputs,
		}, m.Span)...)
	}

	x.emit(wrapItem(im.Attrs, im.Header, body))
	x.emit(contracts)
}

// implContract builds the contract of trait method m for the self type
// of im.
func (x *expansion) implContract(im *syntax.ItemImpl, trait string, m *syntax.Method) token.Stream {
	key := overload.TypeKey{Owner: overload.Owner{Kind: overload.Trait, Path: trait}, Name: m.Sig.Ident}
	return x.contract(synth.Request{
		Target: target(x.Session.TypeName(key), im.SelfTy),
		SelfTy: im.SelfTy,
		Outer:  im.Generics,
		Sig:    &m.Sig,
		Attrs:  m.Attrs,
		Body:   m.Body,
		Inputs: m.Sig.Inputs,
	}, m.Span)
}

// traitBinding maps the generic params of a trait to the arguments an
// impl gives them in its trait path, e.g. `T` to `f64` for
// `impl Scale<f64> for Square`.
type traitBinding struct {
	types     map[string]token.Stream
	lifetimes map[string]string
}

func newTraitBinding(params []syntax.GenericParam, path token.Stream) traitBinding {
	b := traitBinding{types: map[string]token.Stream{}, lifetimes: map[string]string{}}
	args := pathArgs(path)
	for i, gp := range params {
		if i >= len(args) {
			break
		}
		arg := args[i]
		switch gp.Kind {
		case syntax.LifetimeParam:
			if len(arg) == 1 && arg[0].Kind == token.Lifetime {
				b.lifetimes[gp.Name] = arg[0].Text
			}
		default:
			b.types[gp.Name] = arg
		}
	}
	return b
}

// pathArgs returns the generic arguments of a single-segment path,
// skipping associated type bindings.
func pathArgs(path token.Stream) []token.Stream {
	if len(path) < 2 || !path[1].IsPunct("<") {
		return nil
	}
	depth := 0
	for i := 1; i < len(path); i++ {
		depth = token.AngleDepth(path, i, depth)
		if depth > 0 {
			continue
		}
		var args []token.Stream
		for _, arg := range token.Split(path[2:i], ",") {
			if len(arg) > 1 && arg[1].IsPunct("=") && token.IsLonePunct(arg, 1) {
				break
			}
			args = append(args, arg)
		}
		return args
	}
	return nil
}

// method returns m with the trait params replaced by their arguments.
func (b traitBinding) method(m *syntax.Method) *syntax.Method {
	if len(b.types) == 0 && len(b.lifetimes) == 0 {
		return m
	}
	s := token.ReplaceIdents(m.Tokens(), func(name string, next *token.Tree) (token.Stream, bool) {
		arg, ok := b.types[name]
		return arg, ok
	})
	s = token.RenameLifetimes(s, b.lifetimes)
	res, err := syntax.ParseMethod(s)
	if err != nil {
		return m
	}
	return res
}
