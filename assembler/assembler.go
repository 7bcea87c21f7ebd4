// Package assembler folds a compile outcome and per-input outcomes into the
// final QueryResult and writes it as a stable JSON document.
package assembler

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/kbukum/regexprobe/query"
)

// Assemble builds the result document. It echoes the query unchanged, keeps
// outcomes in the order given and drops them when the pattern was invalid.
// Nil slices become empty ones so the document never carries null arrays.
func Assemble(q query.Query, valid bool, outcomes []query.MatchResult) query.QueryResult {
	inputs := make([]string, len(q.Inputs))
	copy(inputs, q.Inputs)

	results := make([]query.MatchResult, 0, len(outcomes))
	if valid {
		for _, r := range outcomes {
			if r.MatchContents.CaptureGroups == nil {
				r.MatchContents.CaptureGroups = []string{}
			}
			results = append(results, r)
		}
	}

	return query.QueryResult{
		Pattern:      q.Pattern,
		Inputs:       inputs,
		ValidPattern: valid,
		Results:      results,
	}
}

// Options controls document encoding.
type Options struct {
	// Indent pretty-prints with two-space indentation.
	Indent bool
}

// Encode writes r as one JSON document followed by a newline. HTML escaping
// is off so patterns like "a<b" are echoed byte for byte.
func Encode(w io.Writer, r query.QueryResult, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// Marshal returns the encoded document.
func Marshal(r query.QueryResult, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
