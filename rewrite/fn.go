package rewrite

import (
	"github.com/refaktor/overloadgen/defaults"
	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/normalize"
	"github.com/refaktor/overloadgen/overload"
	"github.com/refaktor/overloadgen/synth"
	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

// fn expands a free function. All free functions of one name share a
// dispatch type and a static across the session; every default
// variant adds one contract.
func (x *expansion) fn(f *syntax.ItemFn) {
	synth.Check(&f.Sig, &x.bag)

	var variants []defaults.Variant
	var keys []string
	for v := range defaults.New(f.Sig.Inputs).All() {
		sig := f.Sig
		sig.Inputs = v.Inputs
		variants = append(variants, v)
		keys = append(keys, normalize.Key(&sig))
	}

	key := overload.TypeKey{Owner: overload.Owner{Kind: overload.Free}, Name: f.Sig.Ident}
	if c, ok := x.Session.ClaimSignatures(key, keys, f.Sig.IdentSpan); !ok {
		x.bag.Errorf(diag.DuplicateOverload, f.Sig.IdentSpan,
			"`%v` with signature `%v` is already declared at %v", f.Sig.Ident, c.Key, c.Prior)
		return
	}

	name := x.Session.TypeName(key)
	if x.Session.MarkDefined(key) {
		s, err := x.Synth.FreeType(synth.FreeType{Vis: f.Vis, Name: name, Ident: f.Sig.Ident})
		if !x.render(s, err, f.Span) {
			return
		}
		x.res.Types++
	}

	tgt := token.Stream{token.NewIdent(name)}
	for _, v := range variants {
		x.emit(x.contract(synth.Request{
			Target:  tgt,
			Sig:     &f.Sig,
			Attrs:   f.Attrs,
			Body:    f.Body,
			Inputs:  v.Inputs,
			Assigns: v.Assigns,
		}, f.Span))
	}
}
