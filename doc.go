/*
Package overloadgen brings function overloading to Rust source files.

Every function, trait and impl block carrying the overload attribute
(`#[overload]` by default) is rewritten so that several declarations of
the same name become one zero-sized dispatch value that implements the
FnOnce, FnMut and Fn traits once per declared signature. Call sites stay
untouched: the compiler picks the implementation from the argument
tuple.

# Architecture pipeline (for developers)

Each element in the pipeline has distinct sub-packages that do a specific part. These are then "glued" together in [ExpandSource] and [Run].
 1. [config]: Parse the user-supplied 'overloadgen.toml' and its imports
 2. [token] and [syntax]: Lex the file into token trees and parse annotated declarations
 3. [normalize] and [defaults]: Key signatures by their types and expand default parameters into variants
 4. [overload]: Group declarations into overload sets and keep the per-compilation registries
 5. [synth] and [rewrite]: Render dispatch types and contracts, and replace each declaration
*/
package overloadgen
