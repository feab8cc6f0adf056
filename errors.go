package apivalidate

import (
	"errors"
	"fmt"
)

// Error codes (exported consts so callers can switch on them).
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooBig        = "too_big"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeUniqueness    = "uniqueness"
	CodeParseError    = "parse_error"
	CodeTruncated     = "truncated"
)

// ErrInvalidRule is wrapped by every schema construction error.
var ErrInvalidRule = errors.New("invalid rule")

// Error is the single failure produced by Validate and ValidateUniqueness.
type Error struct {
	Path    string // Slash path of the offending node ("/" for the root).
	Code    string // One of the codes listed above.
	Message string // Human readable reason, localized by Options.Translator.
	// Params carries structured parameters (e.g. {"name": "host"}) for
	// callers that build their own messages.
	Params map[string]any
}

// Error renders the canonical `Invalid parameter "<path>": <message>.` line.
func (e *Error) Error() string {
	return "Invalid parameter \"" + e.Path + "\": " + e.Message + "."
}

// AsError extracts an *Error from err using errors.As.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func ruleErrorf(p Path, format string, args ...any) error {
	return fmt.Errorf("%w at %s: %s", ErrInvalidRule, p, fmt.Sprintf(format, args...))
}
