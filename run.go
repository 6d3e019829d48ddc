package overloadgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/refaktor/overloadgen/config"
	"github.com/refaktor/overloadgen/token"
	"golang.org/x/sync/errgroup"
)

// FileResult is the expansion of the file at Path.
type FileResult struct {
	Path string
	*Result
}

// Output receives the expanded source of the file at path.
type Output func(path string, src []byte) error

// ExpandedPath returns where [WriteFiles] puts the expansion of path:
// next to it, or in outDir if set, with the `.rs` extension replaced
// by `.expanded.rs`.
func ExpandedPath(path, outDir string) string {
	dir := filepath.Dir(path)
	if outDir != "" {
		dir = outDir
	}
	name := strings.TrimSuffix(filepath.Base(path), ".rs")
	return filepath.Join(dir, name+".expanded.rs")
}

// WriteFiles returns an [Output] writing every expansion to
// [ExpandedPath].
func WriteFiles(outDir string) Output {
	return func(path string, src []byte) error {
		if outDir != "" {
			if err := os.MkdirAll(outDir, 0777); err != nil {
				return err
			}
		}
		return os.WriteFile(ExpandedPath(path, outDir), src, 0666)
	}
}

// WriteTo returns an [Output] writing every expansion to w, each
// preceded by a comment naming its file.
func WriteTo(w io.Writer) Output {
	return func(path string, src []byte) error {
		if _, err := fmt.Fprintf(w, "// %v\n", path); err != nil {
			return err
		}
		_, err := w.Write(src)
		return err
	}
}

// Run expands the files at paths as one compilation and passes the
// results to out in the order of paths. Files are read and lexed
// concurrently; the expansion then walks them in the order of paths
// against a single session, so a trait may be declared in one file and
// implemented in a later one, and a dispatch type is defined once for
// all of them. Files whose expansion has errors are still written. The
// returned error reports files that could not be read or lexed, and
// failures of out.
func Run(ctx context.Context, cfg *config.Config, paths []string, out Output) ([]*FileResult, error) {
	srcs := make([][]byte, len(paths))
	streams := make([]token.Stream, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			s, err := token.Lex(path, src)
			if err != nil {
				return err
			}
			srcs[i], streams[i] = src, s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sess := NewSession(cfg)
	results := make([]*FileResult, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = &FileResult{Path: path, Result: expandLexed(sess, cfg, srcs[i], streams[i])}
	}

	if out != nil {
		for _, r := range results {
			if err := out(r.Path, r.Source); err != nil {
				return results, fmt.Errorf("write expansion of %v: %w", r.Path, err)
			}
		}
	}
	return results, nil
}

// Total sums the stats of results.
func Total(results []*FileResult) Stats {
	var res Stats
	for _, r := range results {
		res.Add(r.Stats)
	}
	return res
}
