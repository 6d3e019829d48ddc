package defaults

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/refaktor/overloadgen/syntax"
	"github.com/refaktor/overloadgen/token"
	"github.com/stretchr/testify/require"
)

func args(t *testing.T, src string) []syntax.FnArg {
	t.Helper()
	f, err := syntax.ParseItemFn(token.MustParse(src))
	require.NoError(t, err)
	return f.Sig.Inputs
}

type rendered struct {
	Inputs  []string
	Assigns []string
}

func render(vs []Variant) []rendered {
	var res []rendered
	for _, v := range vs {
		var r rendered
		for _, p := range v.Patterns {
			r.Inputs = append(r.Inputs, p.String())
		}
		for _, a := range v.Assigns {
			r.Assigns = append(r.Assigns, a.String())
		}
		res = append(res, r)
	}
	return res
}

func TestTrailingDefaults(t *testing.T) {
	require := require.New(t)

	for k, src := range []string{
		`fn f(a: u8, b: u8) {}`,
		`fn f(a: u8, b: u8 = 1) {}`,
		`fn f(a: u8, b: u8 = 1, c: u8 = 2) {}`,
		`fn f(a: u8 = 0, b: u8 = 1, c: u8 = 2) {}`,
	} {
		vs := slices.Collect(New(args(t, src)).All())
		require.Len(vs, k+1, src)
		for i := 1; i < len(vs); i++ {
			require.Less(len(vs[i].Inputs), len(vs[i-1].Inputs), src)
			require.Equal(len(vs[i].Inputs)+len(vs[i].Assigns), len(vs[0].Inputs), src)
		}
		require.Empty(vs[0].Assigns, src)
	}
}

func TestDefaultOrder(t *testing.T) {
	got := render(slices.Collect(New(args(t, `fn xdd(#[default(=5_i32)] a: i32, #[default(=32_u64)] b: u64) -> u64 { b - a as u64 }`)).All()))
	want := []rendered{
		{Inputs: []string{"a", "b"}},
		{Inputs: []string{"a"}, Assigns: []string{"let b : u64 = 32_u64 ;"}},
		{Assigns: []string{"let a : i32 = 5_i32 ;", "let b : u64 = 32_u64 ;"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestInterleavedDefaults(t *testing.T) {
	got := render(slices.Collect(New(args(t, `fn f(a: u8, b: u8 = 1, c: u8, d: u8 = 2) {}`)).All()))
	want := []rendered{
		{Inputs: []string{"a", "b", "c", "d"}},
		{Inputs: []string{"a", "b", "c"}, Assigns: []string{"let d : u8 = 2 ;"}},
		{Inputs: []string{"a", "c"}, Assigns: []string{"let b : u8 = 1 ;", "let d : u8 = 2 ;"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestNotRestartable(t *testing.T) {
	require := require.New(t)

	e := New(args(t, `fn f(a: u8 = 1) {}`))
	require.Len(slices.Collect(e.All()), 2)
	_, ok := e.Next()
	require.False(ok)
	require.Empty(slices.Collect(e.All()))

	e = New(nil)
	v, ok := e.Next()
	require.True(ok)
	require.Empty(v.Inputs)
	_, ok = e.Next()
	require.False(ok)
}
