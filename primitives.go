package apivalidate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/apivalidate/i18n"
)

const (
	maxInt32Digits = "2147483647"
	maxIDDigits    = "9223372036854775807"
)

// numericText renders integer-like input as decimal text. Floats and every
// non-numeric type are rejected; a float cannot be told apart from an
// integral literal such as 0.0 once decoded.
func numericText(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		return string(n), true
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	}
	return "", false
}

// splitDigits strips an optional sign and leading zeros. ok is false when
// the remainder is not a non-empty run of ASCII digits.
func splitDigits(s string, allowSign bool) (neg bool, digits string, ok bool) {
	if allowSign && strings.HasPrefix(s, "-") {
		neg, s = true, s[1:]
	}
	if s == "" {
		return false, "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false, "", false
		}
	}
	digits = strings.TrimLeft(s, "0")
	if digits == "" {
		digits = "0"
	}
	return neg, digits, true
}

// exceeds compares two canonical digit strings.
func exceeds(digits, limit string) bool {
	if len(digits) != len(limit) {
		return len(digits) > len(limit)
	}
	return digits > limit
}

// parseInt32 returns the value or the message key of the failure.
func parseInt32(v any) (int32, string) {
	s, ok := numericText(v)
	if !ok {
		return 0, i18n.NumberExpected
	}
	neg, digits, ok := splitDigits(s, true)
	if !ok {
		return 0, i18n.NumberExpected
	}
	if neg {
		// -2147483648 is one past the positive limit
		if exceeds(digits, "2147483648") {
			return 0, i18n.NumberTooLarge
		}
	} else if exceeds(digits, maxInt32Digits) {
		return 0, i18n.NumberTooLarge
	}
	n, _ := strconv.ParseInt(digits, 10, 64)
	if neg {
		n = -n
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, i18n.NumberTooLarge
	}
	return int32(n), ""
}

// parseID returns the canonical decimal id and its numeric value, or the
// message key of the failure.
func parseID(v any) (string, int64, string) {
	s, ok := numericText(v)
	if !ok {
		return "", 0, i18n.NumberExpected
	}
	_, digits, ok := splitDigits(s, false)
	if !ok {
		return "", 0, i18n.NumberExpected
	}
	if exceeds(digits, maxIDDigits) {
		return "", 0, i18n.NumberTooLarge
	}
	n, _ := strconv.ParseInt(digits, 10, 64)
	return digits, n, ""
}
