package rewrite

import (
	"github.com/refaktor/overloadgen/normalize"
	"github.com/refaktor/overloadgen/overload"
	"github.com/refaktor/overloadgen/synth"
	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

// trait replaces every overloaded method group of a trait with an
// associated const of the group's dispatch type, and records the
// group members for the impls that follow.
func (x *expansion) trait(tr *syntax.ItemTrait) {
	info := overload.NewTraitInfo(tr.Ident, tr.Span)
	info.Params = tr.Generics.Params

	overloaded := map[string]bool{}
	for _, set := range methodSets(tr.Members) {
		if !set.IsOverloaded() {
			continue
		}
		overloaded[set.Name] = true
		sigs := overload.Signatures{}
		for _, m := range set.Members {
			synth.Check(&m.Sig, &x.bag)
			m, _ = x.stripDefaults(m)
			key := normalize.Key(&m.Sig)
			if !x.claim(sigs, key, &m.Sig) {
				continue
			}
			info.Add(set.Name, overload.DefaultEntry{Key: key, Method: m, HasBody: m.HasBody})
		}
	}

	vis := leadingVis(tr.Header)
	for _, name := range info.Order {
		key := overload.TypeKey{Owner: overload.Owner{Kind: overload.Trait, Path: tr.Ident}, Name: name}
		if !x.Session.MarkDefined(key) {
			continue
		}
		s, err := x.Synth.OwnedType(synth.OwnedType{Vis: vis, Name: x.Session.TypeName(key)})
		if x.render(s, err, tr.Span) {
			x.res.Types++
		}
	}

	var body token.Stream
	bound := map[string]bool{}
	for _, mem := range tr.Members {
		m := mem.Method
		switch {
		case m == nil:
			body = append(body, mem.Tokens...)
		case overloaded[m.Sig.Ident]:
			if bound[m.Sig.Ident] {
				continue
			}
			bound[m.Sig.Ident] = true
			key := overload.TypeKey{Owner: overload.Owner{Kind: overload.Trait, Path: tr.Ident}, Name: m.Sig.Ident}
			s, err := x.Synth.Binding(synth.Binding{Name: x.Session.TypeName(key), Ident: m.Sig.Ident})
			if err != nil {
				x.generated(err, m.Span)
				continue
			}
			body = append(body, s...)
		default:
			if stripped, ok := x.stripDefaults(m); ok {
				body = append(body, stripped.Tokens()...)
			} else {
				body = append(body, mem.Tokens...)
			}
		}
	}

	x.emit(wrapItem(tr.Attrs, tr.Header, body))
	x.Session.RegisterTrait(info)
}
