// Package payload decodes request bodies into the generic values consumed by
// apivalidate.Validate.
package payload

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	av "github.com/reoring/apivalidate"
	"github.com/reoring/apivalidate/i18n"
	eng "github.com/reoring/apivalidate/internal/engine"
	"github.com/reoring/apivalidate/source/gojson"
)

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Options controls decoding.
type Options struct {
	// MaxDepth limits object/array nesting; 0 uses DefaultMaxDepth and a
	// negative value disables the limit.
	MaxDepth int
	// RejectDuplicateKeys fails on a repeated object key instead of keeping
	// the last value.
	RejectDuplicateKeys bool
	// Translator localizes messages; nil means English.
	Translator i18n.Translator
}

func (o Options) translator() i18n.Translator {
	if o.Translator == nil {
		return i18n.Default()
	}
	return o.Translator
}

// FromJSON decodes a single JSON document. Numbers are kept as json.Number
// so integer literals keep their exact text. Failures are *apivalidate.Error.
func FromJSON(data []byte, opt Options) (any, error) {
	return FromJSONReader(bytes.NewReader(data), opt)
}

// FromJSONReader is FromJSON for a stream; it consumes r fully.
func FromJSONReader(r io.Reader, opt Options) (any, error) {
	eo := eng.EnforceOptions{MaxDepth: opt.MaxDepth}
	switch {
	case eo.MaxDepth == 0:
		eo.MaxDepth = DefaultMaxDepth
	case eo.MaxDepth < 0:
		eo.MaxDepth = 0
	}
	if opt.RejectDuplicateKeys {
		eo.OnDuplicate = eng.DupError
	}
	v, err := eng.DecodeAny(eng.WrapWithEnforcement(gojson.NewReader(r), eo))
	if err != nil {
		return nil, decodeError(err, opt.translator())
	}
	return v, nil
}

func decodeError(err error, tr i18n.Translator) *av.Error {
	var ie eng.IssueError
	switch {
	case errors.As(err, &ie) && ie.Code == eng.IssueDuplicateKey:
		return &av.Error{
			Path:    ie.Path,
			Code:    av.CodeDuplicateKey,
			Message: tr.Message(i18n.DuplicateKey, map[string]string{"key": ie.Key}),
			Params:  map[string]any{"key": ie.Key},
		}
	case errors.As(err, &ie):
		return &av.Error{Path: ie.Path, Code: av.CodeTruncated, Message: tr.Message(i18n.MaxDepthExceeded, nil)}
	case errors.Is(err, eng.ErrTrailingData):
		return &av.Error{Path: "/", Code: av.CodeParseError, Message: tr.Message(i18n.TrailingData, nil)}
	}
	return &av.Error{
		Path:    "/",
		Code:    av.CodeParseError,
		Message: tr.Message(i18n.ParseError, map[string]string{"reason": err.Error()}),
	}
}

// FromYAML decodes the first YAML document, converting mappings to
// map[string]any and sequences to []any.
func FromYAML(data []byte, opt Options) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &av.Error{
			Path:    "/",
			Code:    av.CodeParseError,
			Message: opt.translator().Message(i18n.ParseError, map[string]string{"reason": err.Error()}),
		}
	}
	return normalizeYAML(raw), nil
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}
