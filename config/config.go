package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultConfig []byte

type Naming struct {
	// Prefix starts every generated dispatch type name.
	Prefix string `toml:"prefix"`
	// Hash appends a hash of the overload set key to generated names.
	Hash *bool `toml:"hash"`
}

type Diagnostics struct {
	WarningsAsErrors bool `toml:"warnings-as-errors"`
	// EmitCompileErrors embeds error diagnostics into the output as
	// compile_error! invocations.
	EmitCompileErrors bool `toml:"emit-compile-errors"`
}

type Config struct {
	Imports []string `toml:"imports"`
	// Attribute is the name of the overload attribute.
	Attribute string `toml:"attribute"`
	// StdPath is the crate generated code takes marker and ops
	// items from, usually `std` or `core`.
	StdPath         string      `toml:"std-path"`
	SelfPlaceholder string      `toml:"self-placeholder"`
	Naming          Naming      `toml:"naming"`
	Diagnostics     Diagnostics `toml:"diagnostics"`
}

type Error struct {
	filePath string
	err      error  // short, single-line error
	str      string // full, multi-line error string, or err string, if none
}

// Error returns a short error message.
func (e *Error) Error() string {
	return e.filePath + ": " + e.err.Error()
}

// String returns the full multi-line error string.
func (e *Error) String() string {
	if e.str != "" {
		return "Error in file " + strconv.Quote(e.filePath) + ":\n" + e.str
	} else {
		return e.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

func decode(data []byte) (*Config, error) {
	c := &Config{}
	err := toml.NewDecoder(bytes.NewReader(data)).
		DisallowUnknownFields().
		Decode(c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	c, err := decode(defaultConfig)
	if err != nil {
		panic(fmt.Errorf("default config: %w", err))
	}
	return c
}

// wrapError attributes err to the file at path, keeping the full
// decoder message if there is one.
func wrapError(path string, err error) error {
	if cErr := (&Error{}); errors.As(err, &cErr) {
		return err
	}
	if tErr := (&toml.DecodeError{}); errors.As(err, &tErr) {
		return &Error{filePath: path, err: err, str: tErr.String()}
	} else if tErr := (&toml.StrictMissingError{}); errors.As(err, &tErr) {
		return &Error{filePath: path, err: err, str: tErr.String()}
	} else {
		return &Error{filePath: path, err: err}
	}
}

// Load reads the config file at path together with its imports. Import
// paths are relative to the importing file. Fields left unset fall back
// to the imported files, in order, and then to [Default]: a file always
// wins over what it imports, and an earlier import over a later one.
//
// Only pointer fields such as naming.hash can be set to their zero
// value against an import or the defaults; a plain boolean set to false
// is indistinguishable from an absent one.
func Load(path string) (_ *Config, err error) {
	defer func() {
		if err != nil {
			err = wrapError(path, err)
		}
	}()

	c, err := load(path, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(c, Default(), mergo.WithoutDereference); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func load(path string, visiting map[string]bool) (_ *Config, err error) {
	defer func() {
		if err != nil {
			err = wrapError(path, err)
		}
	}()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if visiting[abs] {
		return nil, errors.New("import cycle")
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := decode(file)
	if err != nil {
		return nil, err
	}

	var importedCs []*Config // collect imported files first so their imports don't leak into our file's imports
	for _, imp := range c.Imports {
		if !filepath.IsAbs(imp) {
			imp = filepath.Join(filepath.Dir(path), imp)
		}
		newC, err := load(imp, visiting)
		if err != nil {
			return nil, err
		}
		importedCs = append(importedCs, newC)
	}
	for _, newC := range importedCs {
		if err := mergo.Merge(c, newC, mergo.WithAppendSlice, mergo.WithoutDereference); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that every name ends up as a valid Rust identifier.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name, value string
	}{
		{"attribute", c.Attribute},
		{"std-path", c.StdPath},
		{"self-placeholder", c.SelfPlaceholder},
		{"naming.prefix", c.Naming.Prefix},
	} {
		if !reIdent.MatchString(f.value) {
			return fmt.Errorf("%v: %q is not a valid identifier", f.name, f.value)
		}
	}
	if c.SelfPlaceholder == "self" || c.SelfPlaceholder == "Self" {
		return errors.New("self-placeholder: must not be a keyword")
	}
	return nil
}

// HashNames reports whether generated names carry a hash.
func (c *Config) HashNames() bool {
	return c.Naming.Hash == nil || *c.Naming.Hash
}

// WriteDefault writes the commented built-in configuration to path. It
// fails if the file already exists.
func WriteDefault(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return err
	}
	if _, err := f.Write(defaultConfig); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
