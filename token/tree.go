/*
Package token models Rust source the way a procedural macro sees it:
a [Stream] of token trees, where each tree is an identifier, a single
punctuation character, a literal, a lifetime, or a delimited [Group]
holding a nested stream.

Multi-character operators are sequences of [Punct] trees whose
Joint flag is set on every character but the last, so `->` is
Punct('-', joint) followed by Punct('>').
*/
package token

import "slices"

type Kind uint8

const (
	Ident Kind = iota
	Punct
	Literal
	Lifetime
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Lifetime:
		return "lifetime"
	case Group:
		return "group"
	default:
		return "invalid"
	}
}

type Delim uint8

const (
	Paren Delim = iota
	Bracket
	Brace
)

func (d Delim) Open() string {
	return [...]string{"(", "[", "{"}[d]
}

func (d Delim) Close() string {
	return [...]string{")", "]", "}"}[d]
}

// Tree is a single token tree.
type Tree struct {
	Kind Kind
	// Text holds the source text of identifiers, punctuation (a single
	// character), literals and lifetimes (including the leading quote).
	Text string
	// Joint is set on a Punct immediately followed by another Punct.
	Joint bool
	// Delim and Inner are set on groups.
	Delim Delim
	Inner Stream
	Span  Span
}

// Stream is an ordered sequence of token trees.
type Stream []Tree

func NewIdent(name string) Tree {
	return Tree{Kind: Ident, Text: name}
}

func NewPunct(ch string, joint bool) Tree {
	return Tree{Kind: Punct, Text: ch, Joint: joint}
}

func NewLiteral(text string) Tree {
	return Tree{Kind: Literal, Text: text}
}

func NewLifetime(name string) Tree {
	return Tree{Kind: Lifetime, Text: name}
}

func NewGroup(delim Delim, inner Stream) Tree {
	return Tree{Kind: Group, Delim: delim, Inner: inner}
}

// Puncts returns the joint punctuation sequence spelling op, e.g. "::".
func Puncts(op string) Stream {
	res := make(Stream, len(op))
	for i := range len(op) {
		res[i] = NewPunct(op[i:i+1], i < len(op)-1)
	}
	return res
}

func (t Tree) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

func (t Tree) IsPunct(ch string) bool {
	return t.Kind == Punct && t.Text == ch
}

func (t Tree) IsGroup(d Delim) bool {
	return t.Kind == Group && t.Delim == d
}

// Clone deep-copies the tree.
func (t Tree) Clone() Tree {
	if t.Kind == Group {
		t.Inner = t.Inner.Clone()
	}
	return t
}

// Clone deep-copies the stream, so the copy can be reused across
// several emissions without aliasing.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}
	res := make(Stream, len(s))
	for i, t := range s {
		res[i] = t.Clone()
	}
	return res
}

// Span returns the span covering all trees of s.
func (s Stream) Span() Span {
	var sp Span
	for _, t := range s {
		sp = sp.Cover(t.Span)
	}
	return sp
}

// HasPunctSeq reports whether s[i:] starts with the joint punctuation
// sequence op.
func (s Stream) HasPunctSeq(i int, op string) bool {
	if i < 0 || i+len(op) > len(s) {
		return false
	}
	for j := range len(op) {
		t := s[i+j]
		if !t.IsPunct(op[j : j+1]) {
			return false
		}
		if j < len(op)-1 && !t.Joint {
			return false
		}
	}
	return true
}

// Concat joins streams into a new stream.
func Concat(streams ...Stream) Stream {
	var n int
	for _, s := range streams {
		n += len(s)
	}
	res := make(Stream, 0, n)
	for _, s := range streams {
		res = append(res, s...)
	}
	return res
}

// Leaves calls fn for every non-group tree, descending into groups.
// Group delimiters are reported as well, using the group's span.
func (s Stream) Leaves(fn func(t Tree)) {
	for _, t := range s {
		if t.Kind == Group {
			fn(Tree{Kind: Punct, Text: t.Delim.Open(), Span: t.Span})
			t.Inner.Leaves(fn)
			continue
		}
		fn(t)
	}
}

// Equal reports whether the two streams contain the same tokens,
// ignoring spans.
func Equal(a, b Stream) bool {
	return slices.EqualFunc(a, b, func(x, y Tree) bool {
		if x.Kind != y.Kind || x.Text != y.Text {
			return false
		}
		if x.Kind == Punct && x.Joint != y.Joint {
			return false
		}
		if x.Kind == Group {
			return x.Delim == y.Delim && Equal(x.Inner, y.Inner)
		}
		return true
	})
}
