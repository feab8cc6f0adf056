package apivalidate

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/reoring/apivalidate/i18n"
)

// Validate checks value against rule and returns its normalized form:
// numeric strings become int32 (KindInt32) or canonical decimal strings
// (KindID), absent fields receive their defaults, and lone elements are
// wrapped when Normalize is set. The input is never modified.
//
// path is the location of value inside the request and prefixes every
// reported path. Validation stops at the first failure, returned as *Error.
func Validate(rule *Rule, value any, path Path, opts ...Options) (any, error) {
	v := validator{opts: pickOptions(opts)}
	out, err := v.value(rule, value, path)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type validator struct {
	opts Options
}

func (v *validator) fail(p Path, code, key string, data map[string]string) *Error {
	var params map[string]any
	if len(data) > 0 {
		params = make(map[string]any, len(data))
		for k, val := range data {
			params[k] = val
		}
	}
	return &Error{Path: p.String(), Code: code, Message: v.opts.Translator.Message(key, data), Params: params}
}

func (v *validator) value(r *Rule, val any, p Path) (any, *Error) {
	if val == nil && r.flags&AllowNull != 0 && r.kind != KindFlag {
		return nil, nil
	}
	switch r.kind {
	case KindString:
		return v.str(r, val, p)
	case KindInt32:
		return v.integer(r, val, p)
	case KindID:
		return v.id(r, val, p)
	case KindBoolean:
		if b, ok := val.(bool); ok {
			return b, nil
		}
		return nil, v.fail(p, CodeInvalidType, i18n.BooleanExpected, nil)
	case KindFlag:
		return v.flag(val, p), nil
	case KindGroupName:
		return v.groupName(r, val, p)
	case KindTimePeriod:
		return v.timePeriod(r, val, p)
	case KindObject:
		return v.object(r, val, p)
	case KindObjects:
		return v.objects(r, val, p)
	case KindIDs:
		return v.ids(r, val, p)
	}
	panic(fmt.Sprintf("apivalidate: unhandled kind %s", r.kind))
}

// text runs the checks shared by every string-shaped kind.
func (v *validator) text(r *Rule, val any, p Path, notEmpty bool) (string, *Error) {
	s, ok := val.(string)
	if !ok {
		return "", v.fail(p, CodeInvalidType, i18n.StringExpected, nil)
	}
	if s == "" && (notEmpty || r.flags&NotEmpty != 0) {
		return "", v.fail(p, CodeTooShort, i18n.CannotBeEmpty, nil)
	}
	if !utf8.ValidString(s) {
		return "", v.fail(p, CodeInvalidFormat, i18n.InvalidUTF8, nil)
	}
	if r.hasLength && utf8.RuneCountInString(s) > r.length {
		return "", v.fail(p, CodeTooLong, i18n.ValueTooLong, map[string]string{"max": strconv.Itoa(r.length)})
	}
	return s, nil
}

func (v *validator) str(r *Rule, val any, p Path) (any, *Error) {
	s, err := v.text(r, val, p, false)
	if err != nil {
		return nil, err
	}
	if r.in != nil && !r.in.ContainsString(s) {
		return nil, v.enum(r, p)
	}
	return s, nil
}

func (v *validator) enum(r *Rule, p Path) *Error {
	e := v.fail(p, CodeInvalidEnum, "", nil)
	e.Message = r.in.message(v.opts.Translator)
	e.Params = map[string]any{"set": r.in.String()}
	return e
}

func (v *validator) integer(r *Rule, val any, p Path) (any, *Error) {
	n, key := parseInt32(val)
	if key != "" {
		return nil, v.numberError(p, key)
	}
	if r.in != nil && !r.in.ContainsInt(int64(n)) {
		return nil, v.enum(r, p)
	}
	return n, nil
}

func (v *validator) id(r *Rule, val any, p Path) (any, *Error) {
	s, n, key := parseID(val)
	if key != "" {
		return nil, v.numberError(p, key)
	}
	if r.in != nil && !r.in.ContainsInt(n) {
		return nil, v.enum(r, p)
	}
	return s, nil
}

func (v *validator) numberError(p Path, key string) *Error {
	if key == i18n.NumberTooLarge {
		return v.fail(p, CodeTooBig, key, nil)
	}
	return v.fail(p, CodeInvalidType, key, nil)
}

// flag accepts anything; non-boolean input is coerced to "was set".
func (v *validator) flag(val any, p Path) bool {
	if b, ok := val.(bool); ok {
		return b
	}
	v.opts.Logger.Warn("non-boolean value for a flag parameter is deprecated",
		"path", p.String(), "type", fmt.Sprintf("%T", val))
	return val != nil
}

func (v *validator) groupName(r *Rule, val any, p Path) (any, *Error) {
	s, err := v.text(r, val, p, true)
	if err != nil {
		return nil, err
	}
	requireLLD := r.flags&RequireLLDMacro != 0
	ok, macros := checkGroupName(s, v.opts.LLDMacros || requireLLD)
	if !ok {
		return nil, v.fail(p, CodeInvalidFormat, i18n.InvalidGroupName, map[string]string{"value": s})
	}
	if requireLLD && macros == 0 {
		return nil, v.fail(p, CodeInvalidFormat, i18n.LLDMacroRequired, nil)
	}
	return s, nil
}

func (v *validator) timePeriod(r *Rule, val any, p Path) (any, *Error) {
	s, err := v.text(r, val, p, true)
	if err != nil {
		return nil, err
	}
	if !checkTimePeriod(s, r.flags, v.opts.LLDMacros) {
		return nil, v.fail(p, CodeInvalidFormat, i18n.TimePeriodExpected, nil)
	}
	return s, nil
}

func (v *validator) object(r *Rule, val any, p Path) (any, *Error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, v.fail(p, CodeInvalidType, i18n.ArrayExpected, nil)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, declared := r.index[k]; !declared {
			return nil, v.fail(p, CodeUnknownKey, i18n.UnexpectedParameter, map[string]string{"name": k})
		}
	}

	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		fv, present := m[f.Name]
		if !present {
			if d, ok := f.Rule.Default(); ok {
				fv, present = d, true
			} else if f.Rule.flags&Required != 0 {
				return nil, v.fail(p, CodeRequired, i18n.ParameterMissing, map[string]string{"name": f.Name})
			}
		}
		if !present {
			continue
		}
		nv, err := v.value(f.Rule, fv, p.Field(f.Name))
		if err != nil {
			return nil, err
		}
		out[f.Name] = nv
	}
	return out, nil
}

// elements turns a sequence value into a slice without copying elements.
func elements(val any) ([]any, bool) {
	switch s := val.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	return nil, false
}

// sequence applies the checks shared by KindObjects and KindIDs.
func (v *validator) sequence(r *Rule, val any, p Path) ([]any, *Error) {
	items, ok := elements(val)
	if !ok {
		return nil, v.fail(p, CodeInvalidType, i18n.ArrayExpected, nil)
	}
	if len(items) == 0 && r.flags&NotEmpty != 0 {
		return nil, v.fail(p, CodeTooShort, i18n.CannotBeEmpty, nil)
	}
	if r.hasLength && len(items) > r.length {
		if r.length == 0 {
			return nil, v.fail(p, CodeTooLong, i18n.ShouldBeEmpty, nil)
		}
		return nil, v.fail(p, CodeTooLong, i18n.MaxElements, map[string]string{"max": strconv.Itoa(r.length)})
	}
	return items, nil
}

func (v *validator) objects(r *Rule, val any, p Path) (any, *Error) {
	if m, ok := val.(map[string]any); ok && r.flags&Normalize != 0 {
		val = []any{m}
	}
	items, err := v.sequence(r, val, p)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(items))
	for i, it := range items {
		nv, err := v.object(r, it, p.Nth(i+1))
		if err != nil {
			return nil, err
		}
		out[i] = nv.(map[string]any)
	}
	if len(r.uniq) > 0 {
		if err := v.uniqueObjects(r, out, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (v *validator) ids(r *Rule, val any, p Path) (any, *Error) {
	if r.flags&Normalize != 0 {
		if _, _, key := parseID(val); key == "" {
			val = []any{val}
		}
	}
	items, err := v.sequence(r, val, p)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, it := range items {
		s, _, key := parseID(it)
		if key != "" {
			return nil, v.numberError(p.Nth(i+1), key)
		}
		out[i] = s
	}
	if len(r.uniq) > 0 {
		if err := v.uniqueIDs(out, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}
