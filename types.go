package apivalidate

import (
	"fmt"
	"log/slog"

	"github.com/reoring/apivalidate/i18n"
)

// Kind is the closed set of value kinds a Rule can describe.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt32
	KindID
	KindBoolean
	KindFlag       // Boolean with legacy coercion of non-boolean input.
	KindGroupName  // Slash separated host group name.
	KindTimePeriod // "d[-d],hh:mm-hh:mm" schedule.
	KindObject
	KindObjects // Sequence of objects.
	KindIDs     // Sequence of ids.
)

var kindNames = map[Kind]string{
	KindString:     "string",
	KindInt32:      "int32",
	KindID:         "id",
	KindBoolean:    "boolean",
	KindFlag:       "flag",
	KindGroupName:  "group_name",
	KindTimePeriod: "time_period",
	KindObject:     "object",
	KindObjects:    "objects",
	KindIDs:        "ids",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Flags modify how a Rule treats its value.
type Flags uint16

const (
	// Required fails an object field that is absent.
	Required Flags = 1 << iota
	// NotEmpty rejects empty strings and empty sequences.
	NotEmpty
	// AllowNull accepts nil and skips every other check.
	AllowNull
	// Normalize wraps a lone element into a one-element sequence.
	Normalize
	// AllowMultipleSegments lets a time period hold ";" separated segments.
	AllowMultipleSegments
	// AllowUserMacro accepts a {$MACRO} in place of a time period.
	AllowUserMacro
	// RequireLLDMacro demands at least one {#MACRO} in a group name.
	RequireLLDMacro
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Required, "required"},
	{NotEmpty, "not_empty"},
	{AllowNull, "allow_null"},
	{Normalize, "normalize"},
	{AllowMultipleSegments, "allow_multiple_segments"},
	{AllowUserMacro, "allow_user_macro"},
	{RequireLLDMacro, "require_lld_macro"},
}

// ParseFlag maps a schema-file flag name to its Flags bit.
func ParseFlag(s string) (Flags, error) {
	for _, f := range flagNames {
		if f.name == s {
			return f.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", s)
}

// Names lists the set flags in declaration order.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, fn.name)
		}
	}
	return out
}

// Options tune a single Validate or ValidateUniqueness call. The zero value
// is ready to use: English messages, no logging, LLD macros not recognized.
type Options struct {
	// Translator localizes messages; nil means English.
	Translator i18n.Translator
	// Logger receives deprecation notices (for example a flag given a
	// non-boolean value); nil discards them.
	Logger *slog.Logger
	// LLDMacros treats {#MACRO} tokens as opaque in group names and accepts
	// them in place of a time period.
	LLDMacros bool
}

func pickOptions(opts []Options) Options {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.Translator == nil {
		o.Translator = i18n.Default()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
