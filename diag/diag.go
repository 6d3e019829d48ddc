// Package diag holds the diagnostics reported while expanding
// declarations: warnings for constructs that are approximated and
// errors that abort expansion of a single declaration.
package diag

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/refaktor/overloadgen/token"
)

type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		panic("invalid severity")
	}
}

type Kind uint8

const (
	// ParseError is malformed input for a declaration shape.
	ParseError Kind = iota
	// UnsupportedConstruct is a const, unsafe, extern or variadic
	// construct, or default-parameter sugar outside of free functions,
	// that is approximated.
	UnsupportedConstruct
	// UnresolvedTrait is an impl of a trait that was never processed.
	UnresolvedTrait
	// AmbiguousPath is an impl of a trait named by a multi-segment path.
	AmbiguousPath
	// MissingDefaultBody is an overloaded trait method that an impl
	// omits although the trait has no default body for it.
	MissingDefaultBody
	// NotApplicable is an annotation on something that is not a
	// function, trait or impl.
	NotApplicable
	// DuplicateOverload is a declaration whose normalized signature is
	// already taken by another member of the same overload set.
	DuplicateOverload
	// UnknownArgument is an unrecognized annotation argument.
	UnknownArgument
)

var kindNames = [...]string{
	ParseError:           "parse-error",
	UnsupportedConstruct: "unsupported-construct",
	UnresolvedTrait:      "unresolved-trait",
	AmbiguousPath:        "ambiguous-path",
	MissingDefaultBody:   "missing-default-body",
	NotApplicable:        "not-applicable",
	DuplicateOverload:    "duplicate-overload",
	UnknownArgument:      "unknown-argument",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Span     token.Span
	Message  string
}

// Error formats the diagnostic as "file:line:col: severity[kind]: message".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%v: %v[%v]: %v", d.Span, d.Severity, d.Kind, d.Message)
}

// spanError is implemented by the lexer and parser errors.
type spanError interface {
	error
	ErrSpan() token.Span
}

// Bag collects the diagnostics of one expansion.
type Bag struct {
	// WarningsAsErrors promotes every warning added afterwards.
	WarningsAsErrors bool

	diags []Diagnostic
}

func (b *Bag) Add(d Diagnostic) {
	if b.WarningsAsErrors && d.Severity == Warning {
		d.Severity = Error
	}
	b.diags = append(b.diags, d)
}

func (b *Bag) Warnf(kind Kind, span token.Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: Warning, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (b *Bag) Errorf(kind Kind, span token.Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: Error, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// AddParseError records err as a [ParseError] diagnostic. Errors
// carrying a location keep it; others are attributed to fallback.
func (b *Bag) AddParseError(err error, fallback token.Span) {
	var se spanError
	if errors.As(err, &se) {
		d := Diagnostic{Severity: Error, Kind: ParseError, Span: se.ErrSpan(), Message: err.Error()}
		if m, ok := se.(interface{ Message() string }); ok {
			d.Message = m.Message()
		}
		b.Add(d)
		return
	}
	b.Errorf(ParseError, fallback, "%v", err)
}

func (b *Bag) Diagnostics() []Diagnostic {
	return b.diags
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics of the given severity.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Err returns all error diagnostics folded into a *multierror.Error,
// or nil if there are none.
func (b *Bag) Err() error {
	return Errors(b.diags)
}

// Errors folds the error diagnostics of diags into a *multierror.Error,
// or returns nil if there are none.
func Errors(diags []Diagnostic) error {
	var res *multierror.Error
	for _, d := range diags {
		if d.Severity == Error {
			res = multierror.Append(res, d)
		}
	}
	return res.ErrorOrNil()
}
