package apivalidate

import (
	"encoding/json"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/apivalidate/i18n"
)

// ValidateUniqueness checks the uniq key-sets of rule over value and of every
// collection nested inside it. value may be raw or already normalized by
// Validate; key values are compared after normalization, so "03" and 3 are
// the same id. The error points at the second occurrence of a duplicate.
func ValidateUniqueness(rule *Rule, value any, path Path, opts ...Options) error {
	v := validator{opts: pickOptions(opts)}
	if err := v.uniqueTree(rule, value, path); err != nil {
		return err
	}
	return nil
}

func (v *validator) uniqueTree(r *Rule, val any, p Path) *Error {
	if val == nil {
		return nil
	}
	switch r.kind {
	case KindObject:
		if m, ok := val.(map[string]any); ok {
			return v.uniqueFields(r, m, p)
		}
	case KindObjects:
		if m, ok := val.(map[string]any); ok && r.flags&Normalize != 0 {
			val = []any{m}
		}
		items, ok := elements(val)
		if !ok {
			return nil
		}
		objs := make([]map[string]any, len(items))
		for i, it := range items {
			objs[i], _ = it.(map[string]any)
		}
		if len(r.uniq) > 0 {
			if err := v.uniqueObjects(r, objs, p); err != nil {
				return err
			}
		}
		for i, m := range objs {
			if m == nil {
				continue
			}
			if err := v.uniqueFields(r, m, p.Nth(i+1)); err != nil {
				return err
			}
		}
	case KindIDs:
		if len(r.uniq) == 0 {
			return nil
		}
		if _, _, key := parseID(val); key == "" && r.flags&Normalize != 0 {
			val = []any{val}
		}
		items, ok := elements(val)
		if !ok {
			return nil
		}
		ids := make([]string, len(items))
		for i, it := range items {
			if s, _, key := parseID(it); key == "" {
				ids[i] = s
			} else {
				ids[i] = scalarText(it)
			}
		}
		return v.uniqueIDs(ids, p)
	}
	return nil
}

func (v *validator) uniqueFields(r *Rule, m map[string]any, p Path) *Error {
	for _, f := range r.fields {
		fv, ok := m[f.Name]
		if !ok {
			continue
		}
		if err := v.uniqueTree(f.Rule, fv, p.Field(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// uniqueObjects scans key-sets in declaration order and elements in sequence
// order. Elements lacking any key of a key-set are skipped for that set.
func (v *validator) uniqueObjects(r *Rule, objs []map[string]any, p Path) *Error {
	for _, ks := range r.uniq {
		seen := make(map[string]struct{}, len(objs))
	elems:
		for i, m := range objs {
			if m == nil {
				continue
			}
			tuple := make([]string, 0, len(ks))
			if len(ks) == 0 {
				tuple = append(tuple, scalarText(canonicalObject(r, m)))
			}
			for _, k := range ks {
				fv, ok := m[k]
				if !ok {
					continue elems
				}
				tuple = append(tuple, canonicalText(r.field(k), fv))
			}
			key := tupleKey(tuple)
			if _, dup := seen[key]; dup {
				return v.duplicate(p.Nth(i+1), ks, tuple)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}

func (v *validator) uniqueIDs(ids []string, p Path) *Error {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			return v.duplicate(p.Nth(i+1), nil, []string{id})
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (v *validator) duplicate(p Path, keys, values []string) *Error {
	rendered := "(" + strings.Join(values, ", ") + ")"
	if len(keys) > 0 {
		rendered = "(" + strings.Join(keys, ", ") + ")=" + rendered
	}
	e := v.fail(p, CodeUniqueness, i18n.AlreadyExists, map[string]string{"value": rendered})
	e.Params["keys"] = append([]string(nil), keys...)
	e.Params["values"] = append([]string(nil), values...)
	return e
}

// tupleKey encodes a tuple so that ("a,b") and ("a", "b") never collide.
func tupleKey(tuple []string) string {
	b, err := gojson.Marshal(tuple)
	if err != nil {
		return strings.Join(tuple, "\x00")
	}
	return string(b)
}

// canonicalText renders a key value the way its field kind normalizes it.
func canonicalText(r *Rule, val any) string {
	return scalarText(canonicalValue(r, val))
}

// canonicalValue mirrors the normalization of Validate without reporting
// errors; values that would fail validation are returned unchanged.
func canonicalValue(r *Rule, val any) any {
	switch r.kind {
	case KindID:
		if s, _, key := parseID(val); key == "" {
			return s
		}
	case KindInt32:
		if n, key := parseInt32(val); key == "" {
			return n
		}
	case KindObject:
		if m, ok := val.(map[string]any); ok {
			return canonicalObject(r, m)
		}
	case KindObjects:
		if m, ok := val.(map[string]any); ok && r.flags&Normalize != 0 {
			val = []any{m}
		}
		if items, ok := elements(val); ok {
			out := make([]any, len(items))
			for i, it := range items {
				out[i] = it
				if m, ok := it.(map[string]any); ok {
					out[i] = canonicalObject(r, m)
				}
			}
			return out
		}
	case KindIDs:
		if _, _, key := parseID(val); key == "" && r.flags&Normalize != 0 {
			val = []any{val}
		}
		if items, ok := elements(val); ok {
			out := make([]any, len(items))
			for i, it := range items {
				out[i] = it
				if s, _, key := parseID(it); key == "" {
					out[i] = s
				}
			}
			return out
		}
	}
	return val
}

// canonicalObject normalizes the declared fields of m; undeclared keys are
// kept as they are.
func canonicalObject(r *Rule, m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if f, ok := r.Field(k); ok {
			v = canonicalValue(f, v)
		}
		out[k] = v
	}
	return out
}

func scalarText(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return string(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	if s, ok := numericText(val); ok {
		return s
	}
	b, err := gojson.Marshal(val)
	if err != nil {
		return ""
	}
	return string(b)
}
