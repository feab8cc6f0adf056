package apivalidate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/apivalidate/i18n"
)

// InSet is a parsed allow-list such as "0,60:900" (numeric, with inclusive
// ranges) or "xml,json" (string literals).
type InSet struct {
	numeric  bool
	items    []inItem
	hasEmpty bool
}

type inItem struct {
	lit     string
	lo, hi  int64
	isRange bool
}

// ParseInSet parses a comma separated allow-list. Numeric sets accept
// integers and "lo:hi" ranges; string sets take every token literally, an
// empty token meaning the empty string is allowed.
func ParseInSet(spec string, numeric bool) (*InSet, error) {
	set := &InSet{numeric: numeric}
	if !numeric {
		for _, tok := range strings.Split(spec, ",") {
			if tok == "" {
				set.hasEmpty = true
				continue
			}
			set.items = append(set.items, inItem{lit: tok})
		}
		return set, nil
	}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("empty token in %q", spec)
		}
		// a leading '-' is a sign, not a range separator
		if i := strings.IndexByte(tok[1:], ':'); i >= 0 {
			lo, err := strconv.ParseInt(tok[:i+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad range %q: %w", tok, err)
			}
			hi, err := strconv.ParseInt(tok[i+2:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad range %q: %w", tok, err)
			}
			if lo > hi {
				return nil, fmt.Errorf("bad range %q: lower bound exceeds upper bound", tok)
			}
			set.items = append(set.items, inItem{lo: lo, hi: hi, isRange: true})
			continue
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", tok, err)
		}
		set.items = append(set.items, inItem{lo: n, hi: n})
	}
	return set, nil
}

// Numeric reports whether the set compares integers.
func (s *InSet) Numeric() bool { return s.numeric }

// ContainsInt reports whether n is a listed value or inside a listed range.
func (s *InSet) ContainsInt(n int64) bool {
	for _, it := range s.items {
		if n >= it.lo && n <= it.hi {
			return true
		}
	}
	return false
}

// ContainsString reports exact membership of a string literal.
func (s *InSet) ContainsString(v string) bool {
	if v == "" {
		return s.hasEmpty
	}
	for _, it := range s.items {
		if it.lit == v {
			return true
		}
	}
	return false
}

// Discrete returns the listed single values in order (ranges excluded).
func (s *InSet) Discrete() []string {
	var out []string
	if s.hasEmpty {
		out = append(out, "")
	}
	for _, it := range s.items {
		switch {
		case !s.numeric:
			out = append(out, it.lit)
		case !it.isRange:
			out = append(out, strconv.FormatInt(it.lo, 10))
		}
	}
	return out
}

// String renders the set for messages, e.g. "0, 60-900".
func (s *InSet) String() string {
	parts := make([]string, 0, len(s.items))
	for _, it := range s.items {
		switch {
		case !s.numeric:
			parts = append(parts, it.lit)
		case it.isRange:
			parts = append(parts, strconv.FormatInt(it.lo, 10)+"-"+strconv.FormatInt(it.hi, 10))
		default:
			parts = append(parts, strconv.FormatInt(it.lo, 10))
		}
	}
	return strings.Join(parts, ", ")
}

// message builds the violation text.
func (s *InSet) message(tr i18n.Translator) string {
	set := s.String()
	data := map[string]string{"set": set}
	switch {
	case s.hasEmpty && len(s.items) == 0:
		return tr.Message(i18n.ValueMustBeEmpty, nil)
	case s.hasEmpty:
		return tr.Message(i18n.ValueEmptyOrOneOf, data)
	case len(s.items) == 1 && !s.items[0].isRange:
		return tr.Message(i18n.ValueMustBe, data)
	default:
		return tr.Message(i18n.ValueOneOf, data)
	}
}
