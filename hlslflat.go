// Package hlslflat flattens HLSL structs that carry texture and sampler
// handles into separate parameters and locals.
//
// The input is a type-checked translation unit in YAML form (see package
// hlsl). Transform decodes it, runs the flatten pass and prints the result
// as HLSL:
//
//	out, res, err := hlslflat.Transform(source, flatten.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d functions flattened\n%s", len(res.Replacements), out)
//
// The stages are also available separately through Decode, Flatten and Print.
package hlslflat

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gogpu/hlslflat/flatten"
	"github.com/gogpu/hlslflat/hlsl"
)

// Version is the version of the hlslflat tool chain.
const Version = "0.1.0-dev"

// Transform decodes a YAML translation unit, flattens it and returns the
// HLSL source of the rewritten unit.
//
// The pipeline is:
//  1. Decode YAML to a typed AST
//  2. Run the flatten pass
//  3. Print the unit as HLSL
func Transform(source []byte, opts *flatten.Options) ([]byte, *flatten.Result, error) {
	unit, err := Decode(bytes.NewReader(source))
	if err != nil {
		return nil, nil, err
	}
	res, err := Flatten(unit, opts)
	if err != nil {
		return nil, nil, err
	}
	return []byte(hlsl.Print(unit)), res, nil
}

// Decode reads a translation unit in YAML form.
func Decode(r io.Reader) (*hlsl.TranslationUnit, error) {
	unit, err := hlsl.DecodeUnit(r)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return unit, nil
}

// Flatten runs the flatten pass over unit in place.
func Flatten(unit *hlsl.TranslationUnit, opts *flatten.Options) (*flatten.Result, error) {
	res, err := flatten.Run(unit, opts)
	if err != nil {
		return nil, fmt.Errorf("flatten error: %w", err)
	}
	return res, nil
}

// Print writes unit as HLSL source to w.
func Print(w io.Writer, unit *hlsl.TranslationUnit) error {
	return hlsl.Fprint(w, unit)
}
