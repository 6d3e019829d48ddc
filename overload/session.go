package overload

import (
	"sync"

	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

// DefaultEntry is one member of an overloaded trait method group.
type DefaultEntry struct {
	// Key is the normalized signature.
	Key string
	// Method is an owned copy of the trait method, with its default
	// body if it has one.
	Method  *syntax.Method
	HasBody bool
}

// TraitInfo is what an impl needs to know about a processed trait.
type TraitInfo struct {
	Name string
	// Params are the generic params of the trait, which impls bind
	// positionally through the arguments of their trait path.
	Params []syntax.GenericParam
	// Order lists the overloaded method names in declaration order.
	Order   []string
	Methods map[string][]DefaultEntry
	Span    token.Span
}

func NewTraitInfo(name string, span token.Span) *TraitInfo {
	return &TraitInfo{Name: name, Methods: map[string][]DefaultEntry{}, Span: span}
}

// Add records a member of the overloaded group name.
func (t *TraitInfo) Add(name string, e DefaultEntry) {
	if _, ok := t.Methods[name]; !ok {
		t.Order = append(t.Order, name)
	}
	t.Methods[name] = append(t.Methods[name], e)
}

func (t *TraitInfo) IsOverloaded(name string) bool {
	_, ok := t.Methods[name]
	return ok
}

// Session holds the registries of one compilation. Declarations are
// processed against it in textual order, so a trait is known to the
// impls that follow it. All methods are safe for concurrent use;
// updates are last-writer-wins.
type Session struct {
	Naming Naming

	mu      sync.Mutex
	defined map[TypeKey]bool
	claimed map[TypeKey]Signatures
	traits  map[string]*TraitInfo
}

func NewSession(naming Naming) *Session {
	return &Session{
		Naming:  naming,
		defined: map[TypeKey]bool{},
		claimed: map[TypeKey]Signatures{},
		traits:  map[string]*TraitInfo{},
	}
}

func (s *Session) TypeName(k TypeKey) string {
	return s.Naming.TypeName(k)
}

// MarkDefined records k as emitted and reports whether this is the
// first time.
func (s *Session) MarkDefined(k TypeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defined[k] {
		return false
	}
	s.defined[k] = true
	return true
}

// ClaimSignatures records the normalized signatures keys under k.
// If one of them was claimed before, nothing is recorded and the
// conflict is returned.
func (s *Session) ClaimSignatures(k TypeKey, keys []string, span token.Span) (Conflict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sigs := s.claimed[k]
	if sigs == nil {
		sigs = Signatures{}
		s.claimed[k] = sigs
	}
	return sigs.Claim(keys, span)
}

// RegisterTrait records t, replacing an earlier trait of the same name.
func (s *Session) RegisterTrait(t *TraitInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traits[t.Name] = t
}

func (s *Session) Trait(name string) (*TraitInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.traits[name]
	return t, ok
}
