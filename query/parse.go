package query

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/kbukum/regexprobe/errors"
	"github.com/kbukum/regexprobe/validation"
)

// request mirrors Query with pointers so that a missing field, a null field
// and an empty value can be told apart.
type request struct {
	Pattern *string    `json:"pattern" validate:"required"`
	Inputs  *[]*string `json:"inputs" validate:"required,dive,required"`
}

// Parse decodes a request document into a Query. Any shape mismatch yields a
// MALFORMED_QUERY AppError. Unknown fields are ignored.
func Parse(data []byte) (Query, error) {
	var req request

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&req); err != nil {
		return Query{}, decodeError(err)
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return Query{}, errors.MalformedQuery("unexpected data after the query document")
	}

	if fields := validation.Fields(req); len(fields) > 0 {
		return Query{}, errors.MalformedQuery(validation.Join(fields)).
			WithDetail("fields", fields)
	}

	inputs := make([]string, len(*req.Inputs))
	for i, in := range *req.Inputs {
		inputs[i] = *in
	}
	return Query{Pattern: *req.Pattern, Inputs: inputs}, nil
}

// Decode reads r to the end and parses it. Read failures are reported as
// malformed queries: no document means no query.
func Decode(r io.Reader) (Query, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Query{}, errors.MalformedQuery("failed to read query document").WithCause(err)
	}
	return Parse(data)
}

func decodeError(err error) *errors.AppError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case stderrors.As(err, &typeErr):
		if typeErr.Field == "" {
			return errors.MalformedQuery("query document must be a JSON object").WithCause(err)
		}
		return errors.MalformedQuery(fmt.Sprintf("%s: must not be a JSON %s", typeErr.Field, typeErr.Value)).
			WithDetail("field", typeErr.Field).
			WithCause(err)
	case stderrors.As(err, &syntaxErr):
		return errors.MalformedQuery(fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)).WithCause(err)
	case stderrors.Is(err, io.EOF), stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.MalformedQuery("empty or truncated query document").WithCause(err)
	default:
		return errors.MalformedQuery("invalid JSON").WithCause(err)
	}
}
