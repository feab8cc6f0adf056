// Package middleware validates JSON request bodies at a net/http boundary.
package middleware

import (
	"context"
	"net/http"

	gojson "github.com/goccy/go-json"

	av "github.com/reoring/apivalidate"
	"github.com/reoring/apivalidate/payload"
)

// ctxKeyValue is the context key for the normalized request value.
type ctxKeyValue struct{}

// ctxValue boxes the value so that a stored nil stays distinguishable from
// no value at all.
type ctxValue struct{ v any }

// ContextWithValue attaches a normalized value to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, ctxValue{v: v})
}

// ValueFromContext retrieves the value stored by ContextWithValue. ok is
// true for a stored nil, e.g. a body of null accepted by AllowNull.
func ValueFromContext(ctx context.Context) (any, bool) {
	cv, ok := ctx.Value(ctxKeyValue{}).(ctxValue)
	return cv.v, ok
}

// DefaultPayloadOptions returns the recommended decoding options for HTTP
// JSON boundaries: duplicate keys are errors and depth is bounded.
func DefaultPayloadOptions() payload.Options {
	return payload.Options{MaxDepth: payload.DefaultMaxDepth, RejectDuplicateKeys: true}
}

// ErrorPayload shapes an *apivalidate.Error for JSON responses.
func ErrorPayload(e *av.Error) map[string]any {
	return map[string]any{"error": map[string]any{
		"path":    e.Path,
		"code":    e.Code,
		"message": e.Message,
		"text":    e.Error(),
	}}
}

// Config customizes Validate.
type Config struct {
	Payload payload.Options
	Options av.Options
	// MaxBodyBytes caps the request body; 0 means 1 MiB.
	MaxBodyBytes int64
}

// Validate decodes the JSON body, validates it against rule and passes the
// normalized value to next through the request context. Rejected bodies get
// a 400 with ErrorPayload.
func Validate(rule *av.Rule, cfg Config, next http.Handler) http.Handler {
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		raw, err := payload.FromJSONReader(body, cfg.Payload)
		if err == nil {
			raw, err = av.Validate(rule, raw, av.Root(), cfg.Options)
		}
		if err != nil {
			e, ok := av.AsError(err)
			if !ok {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusBadRequest, ErrorPayload(e))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), raw)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = gojson.NewEncoder(w).Encode(v)
}
