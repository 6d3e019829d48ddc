// Package defaults expands argument lists with default values into
// their arity-reduced variants.
package defaults

import (
	"iter"

	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
)

// Variant is one arity-reduced rendering of an argument list.
type Variant struct {
	// Inputs are the retained arguments, in declaration order.
	Inputs []syntax.FnArg
	// Patterns are the binding patterns of Inputs. Receivers have none.
	Patterns []token.Stream
	// Assigns are `let` statements binding the dropped arguments to
	// their default values.
	Assigns []token.Stream
}

// Expander yields the variants of an argument list, from full arity
// down to the smallest. It cannot be restarted.
type Expander struct {
	args  []syntax.FnArg
	index int
	done  bool
}

func New(args []syntax.FnArg) *Expander {
	return &Expander{args: args, index: len(args)}
}

// Next returns the next variant. Arguments before the current index
// are kept; of the remaining ones, arguments without a default are
// kept and the others are assigned their default.
func (e *Expander) Next() (Variant, bool) {
	if e.done {
		return Variant{}, false
	}
	var v Variant
	keep := func(a syntax.FnArg) {
		v.Inputs = append(v.Inputs, a)
		v.Patterns = append(v.Patterns, a.Pat.Clone())
	}
	for _, a := range e.args[:e.index] {
		keep(a)
	}
	for _, a := range e.args[e.index:] {
		if a.Default != nil {
			v.Assigns = append(v.Assigns, Assign(a))
		} else {
			keep(a)
		}
	}

	// Move to the next defaulted argument from the right.
	for {
		if e.index == 0 {
			e.done = true
			break
		}
		e.index--
		if e.args[e.index].Default != nil {
			break
		}
	}
	return v, true
}

// All drains the expander.
func (e *Expander) All() iter.Seq[Variant] {
	return func(yield func(Variant) bool) {
		for {
			v, ok := e.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Assign renders `let <pat>: <type> = <default>;` for a defaulted
// argument. The type annotation pins the default expression to the
// declared argument type.
func Assign(a syntax.FnArg) token.Stream {
	s := token.Stream{token.NewIdent("let")}
	s = append(s, a.Pat.Clone()...)
	s = append(s, token.NewPunct(":", false))
	s = append(s, a.Type.Clone()...)
	s = append(s, token.NewPunct("=", false))
	s = append(s, a.Default.Expr.Clone()...)
	return append(s, token.NewPunct(";", false))
}
