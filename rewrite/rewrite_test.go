package rewrite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/overload"
	"github.com/refaktor/overloadgen/synth"
	"github.com/refaktor/overloadgen/token"
	"github.com/stretchr/testify/require"
)

type contract struct {
	Target string
	Tuple  string
	Body   string
}

// contracts extracts the FnOnce implementations of generated code.
func contracts(s token.Stream) []contract {
	var res []contract
	for i := 0; i+2 < len(s); i++ {
		if !s[i].IsIdent("FnOnce") || !s[i+1].IsPunct("<") || !s[i+2].IsGroup(token.Paren) {
			continue
		}
		c := contract{Tuple: s[i+2].String()}
		j := i + 5 // `> for`
		k := j
		for k < len(s) && !s[k].IsGroup(token.Brace) && !s[k].IsIdent("where") {
			k++
		}
		c.Target = s[j:k].String()
		for k < len(s) && !s[k].IsGroup(token.Brace) {
			k++
		}
		block := s[k].Inner
		for n, t := range block {
			if !t.IsIdent("call_once") {
				continue
			}
			for _, u := range block[n:] {
				if u.IsGroup(token.Brace) {
					c.Body = u.Inner.String()
					break
				}
			}
			break
		}
		res = append(res, c)
	}
	return res
}

// itemBody returns the body of the first top-level `keyword name` item.
func itemBody(s token.Stream, keyword, name string) token.Stream {
	for i := 0; i+1 < len(s); i++ {
		if !s[i].IsIdent(keyword) || !s[i+1].IsIdent(name) {
			continue
		}
		for _, t := range s[i:] {
			if t.IsGroup(token.Brace) {
				return t.Inner
			}
		}
	}
	return nil
}

func kinds(diags []diag.Diagnostic) []diag.Kind {
	var res []diag.Kind
	for _, d := range diags {
		res = append(res, d.Kind)
	}
	return res
}

func newExpander() *Expander {
	return New(overload.NewSession(overload.Naming{Prefix: "Overloader"}), synth.DefaultOptions)
}

func TestFreeOverloads(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`fn xdd(number: i32) -> i32 { number * 3 }`))
	require.Empty(r.Diagnostics)
	require.Equal(Function, r.Shape)
	require.Equal(1, r.Types)
	require.Equal(1, r.Contracts)
	require.Contains(r.Tokens.String(), "static xdd : Overloader_xdd = Overloader_xdd ;")
	require.Equal([]contract{
		{Target: "Overloader_xdd", Tuple: "(i32 ,)", Body: "let (number ,) = args ; number * 3"},
	}, contracts(r.Tokens))

	r = e.Expand(nil, token.MustParse(`fn xdd(number: &u64) -> u64 { *(number as *const u64) * 4 }`))
	require.Empty(r.Diagnostics)
	require.Equal(0, r.Types)
	require.NotContains(r.Tokens.String(), "static")
	require.Equal([]contract{
		{Target: "Overloader_xdd", Tuple: "(& u64 ,)", Body: "let (number ,) = args ; * (number as * const u64) * 4"},
	}, contracts(r.Tokens))
}

func TestFreeDefaults(t *testing.T) {
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`fn xdd(#[default(=5_i32)] a: i32, #[default(=32_u64)] b: u64) -> u64 { b - a as u64 }`))
	want := []contract{
		{Target: "Overloader_xdd", Tuple: "(i32 , u64)", Body: "let (a , b) = args ; b - a as u64"},
		{Target: "Overloader_xdd", Tuple: "(i32 ,)", Body: "let (a ,) = args ; let b : u64 = 32_u64 ; b - a as u64"},
		{Target: "Overloader_xdd", Tuple: "()", Body: "let () = args ; let a : i32 = 5_i32 ; let b : u64 = 32_u64 ; b - a as u64"},
	}
	if diff := cmp.Diff(want, contracts(r.Tokens)); diff != "" {
		t.Errorf("contracts mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 3, r.Contracts)
	require.Equal(t, 1, r.Types)
}

func TestDuplicateOverload(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`fn dup(a: i32) {}`))
	require.False(r.HasErrors())

	r = e.Expand(nil, token.MustParse(`fn dup(b: i32) { b; }`))
	require.Equal([]diag.Kind{diag.DuplicateOverload}, kinds(r.Diagnostics))
	require.Empty(r.Tokens)

	// The defaulted variant collides with the first declaration.
	r = e.Expand(nil, token.MustParse(`fn dup(a: i32, b: u8 = 1) {}`))
	require.Equal([]diag.Kind{diag.DuplicateOverload}, kinds(r.Diagnostics))
	require.Contains(r.Diagnostics[0].Message, "(i32)")

	// Differing arity is fine.
	r = e.Expand(nil, token.MustParse(`fn dup(a: i32, b: u8) {}`))
	require.False(r.HasErrors())
	require.Len(contracts(r.Tokens), 1)
}

func TestTraitAndImpl(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`pub trait Shape {
		fn area(&self) -> f64;
		fn area(&self, scale: f64) -> f64 { scale * scale }
		fn name(&self) -> String;
	}`))
	require.Empty(r.Diagnostics)
	require.Equal(Trait, r.Shape)
	require.Equal(1, r.Types)
	require.True(strings.HasPrefix(r.Tokens.String(), "# [doc (hidden)]"))
	require.Contains(r.Tokens.String(), "pub struct Overloader_Shape_area < T : ? Sized >")
	require.Equal(
		"# [allow (non_upper_case_globals)] const area : Overloader_Shape_area < Self > = Overloader_Shape_area (:: std :: marker :: PhantomData) ; fn name (& self) -> String ;",
		itemBody(r.Tokens, "trait", "Shape").String(),
	)
	info, ok := e.Session.Trait("Shape")
	require.True(ok)
	require.True(info.IsOverloaded("area"))
	require.False(info.IsOverloaded("name"))

	r = e.Expand(nil, token.MustParse(`impl Shape for Square {
		fn area(&self) -> f64 { self.side * self.side }
		fn name(&self) -> String { "square".into() }
	}`))
	require.Empty(r.Diagnostics)
	require.Equal(TraitImpl, r.Shape)
	require.Equal(0, r.Types)
	require.Equal(`fn name (& self) -> String { "square" . into () }`, itemBody(r.Tokens, "impl", "Shape").String())
	require.Equal([]contract{
		{Target: "Overloader_Shape_area < Square >", Tuple: "(& Square ,)", Body: "let (__self ,) = args ; __self . side * __self . side"},
		{Target: "Overloader_Shape_area < Square >", Tuple: "(& Square , f64)", Body: "let (__self , scale) = args ; scale * scale"},
	}, contracts(r.Tokens))
}

func TestImplSpellsSelfType(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	e.Expand(nil, token.MustParse(`trait Join {
		fn join(&self, other: Self) -> f64 { 0.0 }
		fn join(&self) -> f64;
	}`))
	r := e.Expand(nil, token.MustParse(`impl Join for Square {
		fn join(&self, other: Square) -> f64 { other.side }
		fn join(&self) -> f64 { self.side }
	}`))
	require.Empty(r.Diagnostics)
	require.Equal(2, r.Contracts)
	require.Equal([]contract{
		{Target: "Overloader_Join_join < Square >", Tuple: "(& Square , Square)", Body: "let (__self , other) = args ; other . side"},
		{Target: "Overloader_Join_join < Square >", Tuple: "(& Square ,)", Body: "let (__self ,) = args ; __self . side"},
	}, contracts(r.Tokens))
}

func TestMissingDefaultBody(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	e.Expand(nil, token.MustParse(`trait Shape {
		fn area(&self) -> f64;
		fn area(&self, scale: f64) -> f64 { scale }
	}`))
	r := e.Expand(nil, token.MustParse(`impl Shape for Square {
		fn area(&self, s: f64) -> f64 { s }
	}`))
	require.Equal([]diag.Kind{diag.MissingDefaultBody}, kinds(r.Diagnostics))
	require.Contains(r.Diagnostics[0].Message, "fn area (& self) -> f64")
	require.Len(contracts(r.Tokens), 1)
}

func TestTraitParams(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	e.Expand(nil, token.MustParse(`trait Scale<T> {
		fn scale(&self, by: T) -> T;
		fn scale(&self) -> T { T::default() }
	}`))
	r := e.Expand(nil, token.MustParse(`impl Scale<f64> for Square {
		fn scale(&self, by: f64) -> f64 { by }
	}`))
	require.Empty(r.Diagnostics)
	require.Equal([]contract{
		{Target: "Overloader_Scale_scale < Square >", Tuple: "(& Square , f64)", Body: "let (__self , by) = args ; by"},
		{Target: "Overloader_Scale_scale < Square >", Tuple: "(& Square ,)", Body: "let (__self ,) = args ; f64 :: default ()"},
	}, contracts(r.Tokens))
}

func TestPathArgs(t *testing.T) {
	require := require.New(t)

	render := func(args []token.Stream) []string {
		var res []string
		for _, a := range args {
			res = append(res, a.String())
		}
		return res
	}
	require.Equal([]string{"f64", "Vec < u8 >"}, render(pathArgs(token.MustParse("Scale<f64, Vec<u8>>"))))
	require.Equal([]string{"'a", "T"}, render(pathArgs(token.MustParse("Scale<'a, T, Item = u8>"))))
	require.Empty(pathArgs(token.MustParse("Shape")))
}

func TestTraitImplErrors(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`impl Unknown for Square { fn f(&self) {} }`))
	require.Equal([]diag.Kind{diag.UnresolvedTrait}, kinds(r.Diagnostics))
	require.Equal("definition of trait `Unknown` not found", r.Diagnostics[0].Message)
	require.Empty(r.Tokens)

	r = e.Expand(nil, token.MustParse(`impl geo::Shape for Square {}`))
	require.Equal([]diag.Kind{diag.AmbiguousPath}, kinds(r.Diagnostics))
	require.Empty(r.Tokens)

	// Traits without overloads still resolve; their impls pass through.
	e.Expand(nil, token.MustParse(`trait Plain { fn f(&self); }`))
	r = e.Expand(nil, token.MustParse(`impl Plain for Square { fn f(&self) {} }`))
	require.Empty(r.Diagnostics)
	require.True(token.Equal(token.MustParse(`impl Plain for Square { fn f(&self) {} }`), r.Tokens))
}

func TestInherentImpl(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	src := `impl Square {
		pub fn describe(&self) -> String { format!("{}", self.side) }
		pub fn describe(&self, prefix: &str) -> String { format!("{}{}", prefix, self.side) }
		fn single(&self, #[default(= 1)] n: u8) {}
	}`
	r := e.Expand(nil, token.MustParse(src))
	require.Equal(InherentImpl, r.Shape)
	require.Equal([]diag.Kind{diag.UnsupportedConstruct}, kinds(r.Diagnostics))
	require.Equal(1, r.Types)
	require.Contains(r.Tokens.String(), "pub struct Overloader_Square_describe < T : ? Sized >")
	require.Equal(
		"# [allow (non_upper_case_globals)] pub const describe : Overloader_Square_describe < Self > = Overloader_Square_describe (:: std :: marker :: PhantomData) ; fn single (& self , n : u8) {}",
		itemBody(r.Tokens, "impl", "Square").String(),
	)
	require.Equal([]contract{
		{Target: "Overloader_Square_describe < Square >", Tuple: "(& Square ,)", Body: `let (__self ,) = args ; format ! ("{}" , __self . side)`},
		{Target: "Overloader_Square_describe < Square >", Tuple: "(& Square , & str)", Body: `let (__self , prefix) = args ; format ! ("{}{}" , prefix , __self . side)`},
	}, contracts(r.Tokens))

	// The dispatch type is emitted once per session.
	r = e.Expand(nil, token.MustParse(src))
	require.Equal(0, r.Types)
	require.Equal(2, r.Contracts)

	r = e.Expand(nil, token.MustParse(`impl Square {
		fn twice(&self) {}
		fn twice(&self) {}
	}`))
	require.Equal([]diag.Kind{diag.DuplicateOverload}, kinds(r.Diagnostics))
	require.Equal(1, r.Contracts)
}

func TestQualifierWarnings(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`const unsafe fn q(x: u8) -> u8 { x }`))
	require.Equal([]diag.Kind{diag.UnsupportedConstruct, diag.UnsupportedConstruct}, kinds(r.Diagnostics))
	require.False(r.HasErrors())
	require.Equal("let (x ,) = args ; unsafe { x }", contracts(r.Tokens)[0].Body)

	e.WarningsAsErrors = true
	r = e.Expand(nil, token.MustParse(`const fn q2(x: u8) -> u8 { x }`))
	require.True(r.HasErrors())
}

func TestNotApplicable(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(nil, token.MustParse(`struct S;`))
	require.Equal(NotApplicable, r.Shape)
	require.Equal([]diag.Kind{diag.NotApplicable, diag.NotApplicable, diag.NotApplicable}, kinds(r.Diagnostics))
	require.Empty(r.Tokens)

	r = e.Expand(nil, token.MustParse(`fn f(&self, self) {}`))
	require.Equal([]diag.Kind{diag.ParseError}, kinds(r.Diagnostics))
	require.Empty(r.Tokens)
}

func TestArguments(t *testing.T) {
	require := require.New(t)
	e := newExpander()

	r := e.Expand(token.MustParse("default"), token.MustParse(`fn a() {}`))
	require.Empty(r.Diagnostics)

	r = e.Expand(token.MustParse("default, fast = 1"), token.MustParse(`fn b() {}`))
	require.Equal([]diag.Kind{diag.UnknownArgument}, kinds(r.Diagnostics))
	require.Equal("unknown argument `fast = 1`, only `default` is accepted", r.Diagnostics[0].Message)
}
