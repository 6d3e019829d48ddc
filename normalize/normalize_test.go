package normalize

import (
	"testing"

	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
	"github.com/stretchr/testify/require"
)

func sig(t *testing.T, src string) *syntax.Signature {
	t.Helper()
	f, err := syntax.ParseItemFn(token.MustParse(src + " {}"))
	require.NoError(t, err, src)
	return &f.Sig
}

func key(t *testing.T, src string) string {
	t.Helper()
	return Key(sig(t, src))
}

func TestKeyEquivalence(t *testing.T) {
	require := require.New(t)

	for _, pair := range [][2]string{
		{`fn f<A>(x: A, y: A)`, `fn f<Z>(p: Z, q: Z)`},
		{`fn f(x: u8) -> u8`, `fn f(y: u8)`},
		{`async unsafe extern "C" fn f(x: u8)`, `const fn f(x: u8)`},
		{`fn g(x: u8)`, `fn f(x: u8)`},
		{`fn f(x: u8 = 3)`, `fn f(#[allow(unused)] x: u8)`},
		{`fn f<'a, T>(x: &'a T)`, `fn f<'b, U>(y: &'b U)`},
		{`fn f<T: Clone = u8>(x: T)`, `fn f<U: Clone>(x: U)`},
		{`fn f(mut self)`, `fn f(self)`},
		{`fn f((a, b): (u8, u8))`, `fn f(pair: (u8, u8))`},
	} {
		require.Equal(key(t, pair[0]), key(t, pair[1]), pair[0])
	}

	for _, pair := range [][2]string{
		{`fn f<A, B>(x: A, y: B)`, `fn f<A, B>(x: B, y: A)`},
		{`fn f(x: i32)`, `fn f(x: &u64)`},
		{`fn f(x: i32, ...)`, `fn f(x: i32)`},
		{`fn f(&self)`, `fn f(&mut self)`},
		{`fn f(&self)`, `fn f(&self, x: &str)`},
		{`fn f<T: Clone>(x: T)`, `fn f<T: Copy>(x: T)`},
		{`fn f(x: u8, y: u16)`, `fn f(y: u16, x: u8)`},
	} {
		require.NotEqual(key(t, pair[0]), key(t, pair[1]), pair[0])
	}
}

func TestKeyRendering(t *testing.T) {
	require := require.New(t)

	require.Equal("< __G0 > (__G0 , __G0)", key(t, `fn f<A>(x: A, y: A)`))
	require.Equal("< '__g0 , __G1 > (& '__g0 __G1)", key(t, `fn f<'a, T>(x: &'a T)`))
	require.Equal("(& Self , u8)", key(t, `fn f(&self, x: u8)`))
	require.Equal("(& mut Self)", key(t, `fn f(&mut self)`))
	require.Equal("(Box < Self >)", key(t, `fn f(self: Box<Self>)`))
	require.Equal("(i32 , ...)", key(t, `fn f(x: i32, ...)`))
	require.Equal("()", key(t, `fn f() -> u8`))
}

func TestPathSegmentsKept(t *testing.T) {
	require := require.New(t)

	require.Equal("< __G0 : Iterator > (__G0 :: Item , Foo :: T)", key(t, `fn f<T: Iterator>(x: T::Item, y: Foo::T)`))
}

func TestWherePredicates(t *testing.T) {
	require := require.New(t)

	k := key(t, `fn f<'a, T>(x: &'a T) where T: Clone, Vec<u8>: Debug, for<'b> T: Fn(&'b u8), 'a: 'static, U: Copy`)
	require.Equal("< '__g0 , __G1 > (& '__g0 __G1) where __G1 : Clone , for < 'b > __G1 : Fn (& 'b u8) , '__g0 : 'static", k)
}

func TestIdempotent(t *testing.T) {
	require := require.New(t)

	for _, src := range []string{
		`fn f<'a, T: Into<u8>, const N: usize>(x: &'a [T; N], y: T::Item) -> T where T: Clone, Vec<T>: Debug`,
		`fn f(&'a mut self, Vec<u8>, z: u8 = 1, ...)`,
		`fn f<T>(self: Rc<T>)`,
	} {
		s := sig(t, src)
		n := Signature(s)
		require.Equal(Key(s), Key(n), src)
		require.Equal(Key(n), Key(Signature(n)), src)
	}
}
