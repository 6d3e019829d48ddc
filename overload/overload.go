/*
Package overload groups declarations into overload sets, names the
generated dispatch types and keeps the per-compilation registries in
a [Session].
*/
package overload

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/refaktor/overloadgen/textutils"
	"github.com/refaktor/overloadgen/token"
)

type OwnerKind uint8

const (
	Free OwnerKind = iota
	Trait
	Impl
)

func (k OwnerKind) String() string {
	switch k {
	case Free:
		return "fn"
	case Trait:
		return "trait"
	case Impl:
		return "impl"
	default:
		panic("invalid owner kind")
	}
}

// Owner is the namespace of an overload set. Path is empty for free
// functions, the trait name for traits and the rendered self type for
// impls.
type Owner struct {
	Kind OwnerKind
	Path string
}

// TypeKey identifies a generated dispatch type.
type TypeKey struct {
	Owner Owner
	Name  string
}

func (k TypeKey) String() string {
	if k.Owner.Path == "" {
		return fmt.Sprintf("%v %v", k.Owner.Kind, k.Name)
	}
	return fmt.Sprintf("%v %v::%v", k.Owner.Kind, k.Owner.Path, k.Name)
}

type Naming struct {
	Prefix string
	// Hash appends a hash of the type key to generated names.
	Hash bool
}

var DefaultNaming = Naming{Prefix: "Overloader", Hash: true}

func typeHash(k TypeKey) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v\x00%v\x00%v", k.Owner.Kind, k.Owner.Path, k.Name)
	return fmt.Sprintf("%016x", h.Sum64())
}

// TypeName returns the name of the dispatch type for k. The readable
// part is the prefix, the camel-cased owner path and the member name;
// with hashing enabled, a hash of the key follows, so that distinct
// keys never share a name.
func (n Naming) TypeName(k TypeKey) string {
	parts := []string{n.Prefix}
	if k.Owner.Path != "" {
		parts = append(parts, strcase.ToCamel(textutils.SanitizeIdent(k.Owner.Path)))
	}
	parts = append(parts, textutils.SanitizeIdent(k.Name))
	name := strings.Join(parts, "_")
	if n.Hash {
		name += "_" + typeHash(k)
	}
	return name
}

// Set is the group of members sharing one name.
type Set[T any] struct {
	Name    string
	Members []T
}

// IsOverloaded reports whether the set needs a dispatch type.
func (s Set[T]) IsOverloaded() bool {
	return len(s.Members) > 1
}

// Group partitions items by name, in order of first occurrence.
func Group[T any](items []T, name func(T) string) []*Set[T] {
	var sets []*Set[T]
	index := map[string]*Set[T]{}
	for _, it := range items {
		n := name(it)
		s, ok := index[n]
		if !ok {
			s = &Set[T]{Name: n}
			index[n] = s
			sets = append(sets, s)
		}
		s.Members = append(s.Members, it)
	}
	return sets
}

// Conflict describes a normalized signature that was already taken.
type Conflict struct {
	Key   string
	Prior token.Span
}

// Signatures are the normalized signatures taken within one overload
// set, with the span of the declaration that took each.
type Signatures map[string]token.Span

// Claim records keys for the declaration at span. If a key is taken,
// or repeated within keys, nothing is recorded and the conflict is
// returned.
func (sigs Signatures) Claim(keys []string, span token.Span) (Conflict, bool) {
	seen := map[string]bool{}
	for _, k := range keys {
		if prior, ok := sigs[k]; ok {
			return Conflict{Key: k, Prior: prior}, false
		}
		if seen[k] {
			return Conflict{Key: k, Prior: span}, false
		}
		seen[k] = true
	}
	for _, k := range keys {
		sigs[k] = span
	}
	return Conflict{}, true
}

// TraitName returns the trait named by an impl's trait path. Generic
// arguments are ignored; paths with `::` segments are not supported.
func TraitName(path token.Stream) (string, bool) {
	if len(path) == 0 || path[0].Kind != token.Ident {
		return "", false
	}
	depth := 0
	for i := range path {
		if depth == 0 && path.HasPunctSeq(i, "::") {
			return "", false
		}
		depth = token.AngleDepth(path, i, depth)
	}
	return path[0].Text, true
}
