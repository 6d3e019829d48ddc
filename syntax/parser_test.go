package syntax

import (
	"testing"

	"github.com/refaktor/overloadgen/token"
	"github.com/stretchr/testify/require"
)

func parseFn(t *testing.T, src string) *ItemFn {
	t.Helper()
	f, err := ParseItemFn(token.MustParse(src))
	require.NoError(t, err, src)
	return f
}

func TestParseItemFn(t *testing.T) {
	require := require.New(t)

	f := parseFn(t, `#[inline] pub async unsafe fn f<'a, T: Clone + 'a>(x: &'a T, #[default(= 5)] n: usize) -> Vec<T> where T: Copy {
		#![allow(unused)]
		vec![x.clone(); n]
	}`)
	require.Equal("pub", f.Vis.String())
	require.True(f.Sig.Async)
	require.True(f.Sig.Unsafe)
	require.False(f.Sig.Const)
	require.Equal("f", f.Sig.Ident)

	require.Len(f.Sig.Generics.Params, 2)
	require.Equal(LifetimeParam, f.Sig.Generics.Params[0].Kind)
	require.Equal("'a", f.Sig.Generics.Params[0].Name)
	require.Equal(TypeParam, f.Sig.Generics.Params[1].Kind)
	require.Equal("Clone + 'a", f.Sig.Generics.Params[1].Bounds.String())
	require.Len(f.Sig.Generics.Where, 1)
	require.Equal("T", f.Sig.Generics.Where[0].Bounded.String())
	require.Equal("Copy", f.Sig.Generics.Where[0].Bounds.String())

	require.Len(f.Sig.Inputs, 2)
	require.Nil(f.Sig.Inputs[0].Default)
	require.Equal("& 'a T", f.Sig.Inputs[0].Type.String())
	require.NotNil(f.Sig.Inputs[1].Default)
	require.Equal("5", f.Sig.Inputs[1].Default.Expr.String())
	require.Empty(f.Sig.Inputs[1].Attrs)
	require.True(f.Sig.HasDefaults())
	require.Equal("Vec < T >", f.Sig.Output.String())

	require.Len(f.Attrs, 2)
	require.Equal("inline", f.Attrs[0].Name())
	require.True(f.Attrs[1].Inner)
	require.Equal("vec ! [x . clone () ; n]", f.Body.String())
}

func TestParseArgs(t *testing.T) {
	require := require.New(t)

	f := parseFn(t, `fn f(a: i32 = 5, b: u64 = 32_u64) {}`)
	require.Equal("5", f.Sig.Inputs[0].Default.Expr.String())
	require.Equal("32_u64", f.Sig.Inputs[1].Default.Expr.String())

	f = parseFn(t, `fn f(Vec<u8>, x: u8) {}`)
	require.Len(f.Sig.Inputs, 2)
	require.Equal("_", f.Sig.Inputs[0].Pat.String())
	require.Equal("Vec < u8 >", f.Sig.Inputs[0].Type.String())

	f = parseFn(t, `fn f(x: i32, ...) {}`)
	require.Len(f.Sig.Inputs, 1)
	require.NotNil(f.Sig.Variadic)
	require.Nil(f.Sig.Variadic.Pat)

	f = parseFn(t, `fn f(x: i32, args: ...) {}`)
	require.Len(f.Sig.Inputs, 1)
	require.Equal("args", f.Sig.Variadic.Pat.String())

	f = parseFn(t, `fn f(m: HashMap<K, V> = HashMap::new(), b: bool = 1 < 2, c: u8) {}`)
	require.Len(f.Sig.Inputs, 3)
	require.Equal("HashMap < K , V >", f.Sig.Inputs[0].Type.String())
	require.Equal("HashMap :: new ()", f.Sig.Inputs[0].Default.Expr.String())
	require.Equal("1 < 2", f.Sig.Inputs[1].Default.Expr.String())
	require.Equal("c", f.Sig.Inputs[2].Pat.String())

	f = parseFn(t, `fn f((a, b): (u8, u8), Point { x, y }: Point) {}`)
	require.Equal("(a , b)", f.Sig.Inputs[0].Pat.String())
	require.Equal("Point { x , y }", f.Sig.Inputs[1].Pat.String())
}

func TestParseReceivers(t *testing.T) {
	require := require.New(t)

	for src, want := range map[string]Receiver{
		`fn f(self) {}`:               {},
		`fn f(mut self) {}`:           {Mut: true},
		`fn f(&self, x: u8) {}`:       {Ref: true},
		`fn f(&'a mut self) {}`:       {Ref: true, Lifetime: "'a", Mut: true},
		`fn f(self: Box<Self>) {}`:    {Explicit: token.MustParse("Box<Self>")},
		`fn f(mut self: Rc<Self>) {}`: {Mut: true, Explicit: token.MustParse("Rc<Self>")},
	} {
		f := parseFn(t, src)
		require.True(f.Sig.HasReceiver(), src)
		got := *f.Sig.Inputs[0].Receiver
		require.Equal(want.Ref, got.Ref, src)
		require.Equal(want.Mut, got.Mut, src)
		require.Equal(want.Lifetime, got.Lifetime, src)
		require.Equal(want.Explicit.String(), got.Explicit.String(), src)
	}
}

func TestParseErrors(t *testing.T) {
	require := require.New(t)

	for src, msg := range map[string]string{
		`fn f(x: u8, &self) {}`:                  "unexpected method receiver",
		`fn f(self, self) {}`:                    "unexpected second method receiver",
		`fn f(x) {}`:                             "expected `:` after argument pattern",
		`fn f(x: u8)`:                            "expected function body",
		`fn (x: u8) {}`:                          "expected function name",
		`fn f<T(x: T) {}`:                        "unclosed `<`",
		`fn f(..., x: u8) {}`:                    "variadic marker must be the last argument",
		`fn f(#[default(= 1)] x: u8 = 2) {}`:     "duplicate default value",
		`fn f(x: u8 =) {}`:                       "expected default value after `=`",
		`fn f(#[default()] x: u8) {}`:            "expected default value expression",
		`fn f() -> {}`:                           "expected return type",
		`fn f() {} struct S;`:                    "unexpected token after function body",
		`fn f(x: u8,, y: u8) {}`:                 "expected argument before `,`",
		`fn f<T>() where T {}`:                   "expected `:` in where predicate",
		`struct S;`:                              "expected `fn`",
		`pub const fn f(x: u8) -> u8 where {}`:   "", // empty where clause
		`pub extern "C" fn f(x: u8) -> u8 { x }`: "",
	} {
		_, err := ParseItemFn(token.MustParse(src))
		if msg == "" {
			require.NoError(err, src)
			continue
		}
		require.Error(err, src)
		var perr *ParseError
		require.ErrorAs(err, &perr, src)
		require.Contains(perr.Message(), msg, src)
	}
}

func TestParseItem(t *testing.T) {
	require := require.New(t)

	for src, want := range map[string]any{
		`struct S;`:                          nil,
		`const X: u8 = 1;`:                   nil,
		`#[derive(Debug)] enum E { A }`:      nil,
		`mod m { fn f() {} }`:                nil,
		`extern "C" fn f() {}`:               &ItemFn{},
		`pub const unsafe fn f() {}`:         &ItemFn{},
		`unsafe impl Send for S {}`:          &ItemImpl{},
		`pub(crate) fn f() {}`:               &ItemFn{},
		`unsafe trait T {}`:                  &ItemTrait{},
		`default impl<T> Tr for T {}`:        &ItemImpl{},
	} {
		d, err := ParseItem(token.MustParse(src))
		if want == nil {
			require.ErrorIs(err, ErrNotApplicable, src)
			continue
		}
		require.NoError(err, src)
		require.IsType(want, d, src)
	}
}

func TestParseItemTrait(t *testing.T) {
	require := require.New(t)

	tr, err := ParseItemTrait(token.MustParse(`pub trait Shape<T> : Clone where T: Copy {
		const SIDES: usize;
		type Out;
		fn area(&self) -> f64;
		fn area(&self, scale: f64) -> f64 { self.area() * scale }
		my_macro! { x }
		#[doc = "name"] fn name(&self) -> String;
	}`))
	require.NoError(err)
	require.Equal("Shape", tr.Ident)
	require.Len(tr.Generics.Params, 1)
	require.Len(tr.Generics.Where, 1)
	require.Equal("pub trait Shape < T > : Clone where T : Copy", tr.Header.String())

	require.Len(tr.Members, 6)
	for i, isMethod := range []bool{false, false, true, true, false, true} {
		require.Equal(isMethod, tr.Members[i].Method != nil, i)
	}
	require.Equal("const SIDES : usize ;", tr.Members[0].Tokens.String())
	require.Equal("my_macro ! { x }", tr.Members[4].Tokens.String())
	require.False(tr.Members[2].Method.HasBody)
	require.True(tr.Members[3].Method.HasBody)
	require.Equal("self . area () * scale", tr.Members[3].Method.Body.String())
	require.Equal("doc", tr.Members[5].Method.Attrs[0].Name())
}

func TestParseItemImpl(t *testing.T) {
	require := require.New(t)

	im, err := ParseItemImpl(token.MustParse(`impl<T: Copy> Shape<T> for Square<T> where T: Default {
		fn area(&self) -> f64 { 1.0 }
		const N: u8 = 1;
		pub default fn side(&self) -> f64 { 2.0 }
	}`))
	require.NoError(err)
	require.NotNil(im.Trait)
	require.False(im.Trait.Negative)
	require.Equal("Shape < T >", im.Trait.Path.String())
	require.Equal("Square < T >", im.SelfTy.String())
	require.Len(im.Generics.Params, 1)
	require.Len(im.Generics.Where, 1)
	require.Len(im.Members, 3)
	require.True(im.Members[2].Method.Default)
	require.Equal("pub", im.Members[2].Method.Vis.String())

	im, err = ParseItemImpl(token.MustParse(`impl !Send for X {}`))
	require.NoError(err)
	require.True(im.Trait.Negative)
	require.Equal("Send", im.Trait.Path.String())

	im, err = ParseItemImpl(token.MustParse(`impl Foo { fn a() {} }`))
	require.NoError(err)
	require.Nil(im.Trait)
	require.Equal("Foo", im.SelfTy.String())

	im, err = ParseItemImpl(token.MustParse(`impl Tr for Box<dyn for<'a> Fn(&'a u8)> {}`))
	require.NoError(err)
	require.Equal("Tr", im.Trait.Path.String())
	require.Equal("Box", im.SelfTy[0].Text)

	_, err = ParseItemImpl(token.MustParse(`impl Tr for {}`))
	require.Error(err)
}

func TestSignatureTokens(t *testing.T) {
	require := require.New(t)

	f := parseFn(t, `fn f<T: Clone>(x: T, #[default(= 3)] y: u8, ...) -> T where T: Copy { x }`)
	require.Equal("fn f < T : Clone > (x : T , y : u8 = 3 , ...) -> T where T : Copy", f.Sig.Tokens().String())

	f = parseFn(t, `#[inline] pub fn g(&'a mut self) { #![allow(x)] 1 }`)
	require.Equal("# [inline] pub fn g (& 'a mut self) { #! [allow (x)] 1 }", f.Tokens().String())

	// Rendered items parse back to the same structure.
	again := parseFn(t, f.Tokens().String())
	require.True(token.Equal(f.Body, again.Body))
	require.Len(again.Attrs, 2)
}

func TestParseMethod(t *testing.T) {
	require := require.New(t)

	m, err := ParseMethod(token.MustParse(`#[inline] fn area(&self) -> f64 { #![allow(unused)] 1.0 }`))
	require.NoError(err)
	require.Equal("area", m.Sig.Ident)
	require.True(m.HasBody)
	require.Equal("# [inline] fn area (& self) -> f64 { #! [allow (unused)] 1.0 }", m.Tokens().String())

	m, err = ParseMethod(token.MustParse(`fn area(&self);`))
	require.NoError(err)
	require.False(m.HasBody)

	_, err = ParseMethod(token.MustParse(`const X: u8 = 1;`))
	require.Error(err)
	_, err = ParseMethod(token.MustParse(`fn a(); fn b();`))
	require.Error(err)
}
