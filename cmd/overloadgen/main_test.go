package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/refaktor/overloadgen"
	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/token"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	require := require.New(t)
	color.NoColor = true

	var b bytes.Buffer
	l := &Logger{Writer: &b, Prefix: "[a.rs]", MinLevel: WARN}
	l.Log(INFO, "hidden")
	l.Log(WARN, "one %v", 1)
	l.Log(ERROR, "two\nlines")
	require.Equal("[a.rs] WARNING: one 1\n[a.rs] ERROR:\n  two\n  lines\n", b.String())

	b.Reset()
	l.Prefix = ""
	l.Diagnostic(diag.Diagnostic{
		Severity: diag.Error,
		Kind:     diag.UnresolvedTrait,
		Span:     token.Span{File: "a.rs", Start: token.Pos{Line: 3, Col: 6}},
		Message:  "definition of trait `T` not found",
	})
	require.Equal("ERROR: a.rs:3:6: error[unresolved-trait]: definition of trait `T` not found\n", b.String())
}

func TestCommands(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "overloadgen.toml")
	rootCmd.SetArgs([]string{"init", cfgPath})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	require.NoError(rootCmd.Execute())
	require.FileExists(cfgPath)

	src := filepath.Join(dir, "a.rs")
	require.NoError(os.WriteFile(src, []byte("#[overload]\nfn f(a: i32) {}\n"), 0666))
	out.Reset()
	rootCmd.SetArgs([]string{"--color", "off", "--quiet", "--stdout", "--config", cfgPath, src})
	require.NoError(rootCmd.Execute())
	require.Contains(out.String(), "// "+src+"\n")
	require.Contains(out.String(), "static f: Overloader_f_")
	require.NoFileExists(filepath.Join(dir, "a.expanded.rs"))
}

func TestExpansionErr(t *testing.T) {
	require := require.New(t)

	ok := &overloadgen.FileResult{Path: "a.rs", Result: &overloadgen.Result{}}
	require.NoError(expansionErr([]*overloadgen.FileResult{ok}))

	bad := &overloadgen.FileResult{Path: "b.rs", Result: &overloadgen.Result{
		Diagnostics: []diag.Diagnostic{
			{Severity: diag.Warning, Kind: diag.UnsupportedConstruct, Message: "ignored"},
			{Severity: diag.Error, Kind: diag.DuplicateOverload, Message: "one"},
			{Severity: diag.Error, Kind: diag.UnresolvedTrait, Message: "two"},
		},
	}}
	err := expansionErr([]*overloadgen.FileResult{ok, bad})
	require.EqualError(err, "expansion failed with 2 error(s)")
	var merr *multierror.Error
	require.ErrorAs(err, &merr)
	require.Len(merr.Errors, 2)
}
