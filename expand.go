package overloadgen

import (
	"bytes"
	"slices"

	"github.com/refaktor/overloadgen/config"
	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/overload"
	"github.com/refaktor/overloadgen/rewrite"
	"github.com/refaktor/overloadgen/synth"
	"github.com/refaktor/overloadgen/textutils"
	"github.com/refaktor/overloadgen/token"
)

// Stats counts what the expansion of one or more files produced.
type Stats struct {
	// Items counts the annotated declarations by shape.
	Items     map[rewrite.Shape]int
	Types     int
	Contracts int
	Warnings  int
	Errors    int
}

func (s *Stats) Add(other Stats) {
	if s.Items == nil {
		s.Items = map[rewrite.Shape]int{}
	}
	for sh, n := range other.Items {
		s.Items[sh] += n
	}
	s.Types += other.Types
	s.Contracts += other.Contracts
	s.Warnings += other.Warnings
	s.Errors += other.Errors
}

func (s *Stats) add(r rewrite.Result) {
	if s.Items == nil {
		s.Items = map[rewrite.Shape]int{}
	}
	s.Items[r.Shape]++
	s.Types += r.Types
	s.Contracts += r.Contracts
	for _, d := range r.Diagnostics {
		switch d.Severity {
		case diag.Warning:
			s.Warnings++
		case diag.Error:
			s.Errors++
		}
	}
}

// Result is the outcome of expanding one source file.
type Result struct {
	// Source is the file with every annotated declaration replaced by
	// its expansion. Text outside of annotated declarations is kept
	// byte for byte.
	Source      []byte
	Diagnostics []diag.Diagnostic
	Stats       Stats
}

// Err returns the error diagnostics as a single error, or nil.
func (r *Result) Err() error {
	return diag.Errors(r.Diagnostics)
}

// NewSession returns an empty session named according to cfg.
func NewSession(cfg *config.Config) *overload.Session {
	return overload.NewSession(overload.Naming{
		Prefix: cfg.Naming.Prefix,
		Hash:   cfg.HashNames(),
	})
}

// NewExpander returns an expander over sess configured by cfg.
func NewExpander(sess *overload.Session, cfg *config.Config) *rewrite.Expander {
	x := rewrite.New(sess, synth.Options{
		Std:             cfg.StdPath,
		SelfPlaceholder: cfg.SelfPlaceholder,
	})
	x.WarningsAsErrors = cfg.Diagnostics.WarningsAsErrors
	return x
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

type fileExpander struct {
	x     *rewrite.Expander
	cfg   *config.Config
	src   []byte
	edits []edit
	res   *Result
}

// ExpandSource expands every declaration of src that carries the
// configured attribute, in textual order, against sess. Declarations
// inside inline modules are expanded too. An error is returned only if
// src does not lex; problems with single declarations are reported as
// diagnostics.
func ExpandSource(sess *overload.Session, cfg *config.Config, filename string, src []byte) (*Result, error) {
	s, err := token.Lex(filename, src)
	if err != nil {
		return nil, err
	}
	return expandLexed(sess, cfg, src, s), nil
}

// expandLexed expands src, which lexes to s.
func expandLexed(sess *overload.Session, cfg *config.Config, src []byte, s token.Stream) *Result {
	fx := &fileExpander{
		x:   NewExpander(sess, cfg),
		cfg: cfg,
		src: src,
		res: &Result{Stats: Stats{Items: map[rewrite.Shape]int{}}},
	}
	fx.items(s)

	var b bytes.Buffer
	b.Grow(len(src))
	last := 0
	for _, e := range fx.edits {
		b.Write(src[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.Write(src[last:])
	fx.res.Source = b.Bytes()
	return fx.res
}

// items scans a sequence of items for annotated declarations.
func (fx *fileExpander) items(s token.Stream) {
	for i := 0; i < len(s); {
		switch {
		case isOuterAttr(s, i):
			start := i
			var args token.Stream
			var attrs token.Stream
			found := false
			for ; isOuterAttr(s, i); i += 2 {
				if !found {
					if a, ok := matchAttr(s[i+1].Inner, fx.cfg.Attribute); ok {
						args = a
						found = true
						continue
					}
				}
				attrs = append(attrs, s[i:i+2]...)
			}
			if !found {
				continue
			}
			end := itemEnd(s, i)
			item := token.Concat(attrs, s[i:end])
			fx.expand(args, item, s[start:end])
			i = end
		case i+2 < len(s) && s[i].IsIdent("mod") && s[i+1].Kind == token.Ident && s[i+2].IsGroup(token.Brace):
			fx.items(s[i+2].Inner)
			i += 3
		default:
			i++
		}
	}
}

func (fx *fileExpander) expand(args, item, orig token.Stream) {
	r := fx.x.Expand(args, item)
	fx.res.Diagnostics = append(fx.res.Diagnostics, r.Diagnostics...)
	fx.res.Stats.add(r)

	out := r.Tokens
	if fx.cfg.Diagnostics.EmitCompileErrors && r.HasErrors() {
		var errs token.Stream
		for _, d := range r.Diagnostics {
			if d.Severity == diag.Error {
				errs = append(errs, compileError(d)...)
			}
		}
		out = token.Concat(errs, out)
	}

	sp := orig.Span()
	start, end := int(sp.Start.Offset), int(sp.End.Offset)
	indent := textutils.LeadingSpace(fx.src, start)
	fx.edits = append(fx.edits, edit{
		start: start,
		end:   end,
		text:  textutils.IndentTail(token.Format(out), indent),
	})
}

// compileError renders d as a `compile_error!` item.
func compileError(d diag.Diagnostic) token.Stream {
	return token.Concat(
		token.Puncts("::"),
		token.Stream{token.NewIdent("core")},
		token.Puncts("::"),
		token.Stream{
			token.NewIdent("compile_error"),
			token.NewPunct("!", false),
			token.NewGroup(token.Paren, token.Stream{token.NewLiteral(token.QuoteString(d.Error()))}),
			token.NewPunct(";", false),
		},
	)
}

// isOuterAttr reports whether an outer attribute `#[...]` starts at i.
func isOuterAttr(s token.Stream, i int) bool {
	return i+1 < len(s) && s[i].IsPunct("#") && s[i+1].IsGroup(token.Bracket)
}

// matchAttr reports whether the attribute body inner names the
// attribute name, either bare or at the end of a path, and returns its
// parenthesized arguments.
func matchAttr(inner token.Stream, name string) (token.Stream, bool) {
	n := len(inner)
	var args token.Stream
	if n > 0 && inner[n-1].IsGroup(token.Paren) {
		args = inner[n-1].Inner
		n--
	}
	if n == 0 || !inner[n-1].IsIdent(name) {
		return nil, false
	}
	if prefix := inner[:n-1]; len(prefix) > 0 {
		if len(prefix) < 2 || !prefix.HasPunctSeq(len(prefix)-2, "::") {
			return nil, false
		}
		for _, t := range prefix {
			if t.Kind != token.Ident && !t.IsPunct(":") {
				return nil, false
			}
		}
	}
	return args, true
}

// itemEnd returns the end of the item starting at i: just past its
// first top-level braced group or `;`.
func itemEnd(s token.Stream, i int) int {
	j := slices.IndexFunc(s[i:], func(t token.Tree) bool {
		return t.IsGroup(token.Brace) || t.IsPunct(";")
	})
	if j < 0 {
		return len(s)
	}
	return i + j + 1
}
