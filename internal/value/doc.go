// Package value provides the tagged data values carried through story data.
//
// Story documents are decoded into a closed set of variants (Null, String,
// Int, Float, Bool, Array, Object) instead of untyped maps, so every stage
// after decoding (rule resolution, schema validation, output) dispatches on
// a sealed type rather than on runtime reflection.
//
// This package imports nothing internal.
package value
