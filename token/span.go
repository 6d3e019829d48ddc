package token

import (
	"fmt"

	"fortio.org/safecast"
)

// Pos is a location in a source file. Line and Col are 1-based,
// Col counts bytes. The zero Pos belongs to synthesized tokens.
type Pos struct {
	Offset uint32
	Line   uint32
	Col    uint32
}

// Span is a half-open byte range [Start, End) within File.
type Span struct {
	File  string
	Start Pos
	End   Pos
}

// IsValid reports whether the span points at real source text.
func (s Span) IsValid() bool {
	return s.Start.Line > 0
}

func (s Span) String() string {
	if !s.IsValid() {
		if s.File != "" {
			return s.File
		}
		return "<generated>"
	}
	return fmt.Sprintf("%v:%v:%v", s.File, s.Start.Line, s.Start.Col)
}

// Cover returns the smallest span containing both s and other.
// Invalid spans are absorbed by valid ones.
func (s Span) Cover(other Span) Span {
	if !other.IsValid() {
		return s
	}
	if !s.IsValid() {
		return other
	}
	if s.File != other.File {
		return s
	}
	if other.Start.Offset < s.Start.Offset {
		s.Start = other.Start
	}
	if other.End.Offset > s.End.Offset {
		s.End = other.End
	}
	return s
}

// lineTable maps byte offsets to line/column pairs.
type lineTable struct {
	starts []int // offset of the first byte of each line
}

func newLineTable(src []byte) lineTable {
	lt := lineTable{starts: []int{0}}
	for i, b := range src {
		if b == '\n' {
			lt.starts = append(lt.starts, i+1)
		}
	}
	return lt
}

func (lt lineTable) pos(off int) Pos {
	lo, hi := 0, len(lt.starts)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if lt.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Pos{
		Offset: u32(off),
		Line:   u32(lo + 1),
		Col:    u32(off - lt.starts[lo] + 1),
	}
}

// u32 converts a length or offset that is known to fit, since the lexer
// rejects sources larger than 4GiB up front.
func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
