package apivalidate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	userMacroRe = regexp.MustCompile(`^\{\$[A-Z0-9_.]+(?::.*)?\}$`)
	periodRe    = regexp.MustCompile(`^([1-7])(?:-([1-7]))?,([0-9]{1,2}):([0-9]{2})-([0-9]{1,2}):([0-9]{2})$`)
)

func isMacroNameByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.'
}

// lldMacroLen returns the length of a "{#NAME}" starting at s[i], or 0.
func lldMacroLen(s string, i int) int {
	if !strings.HasPrefix(s[i:], "{#") {
		return 0
	}
	j := i + 2
	for j < len(s) && isMacroNameByte(s[j]) {
		j++
	}
	if j == i+2 || j >= len(s) || s[j] != '}' {
		return 0
	}
	return j + 1 - i
}

// lldMacroFuncLen returns the length of a `{{#NAME}.func(params)}` starting
// at s[i], or 0. Quoted parameters may contain any character.
func lldMacroFuncLen(s string, i int) int {
	if i+1 >= len(s) || s[i] != '{' {
		return 0
	}
	m := lldMacroLen(s, i+1)
	if m == 0 {
		return 0
	}
	j := i + 1 + m
	if j >= len(s) || s[j] != '.' {
		return 0
	}
	j++
	start := j
	for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
		j++
	}
	if j == start || j >= len(s) || s[j] != '(' {
		return 0
	}
	j++
	quoted := false
	for ; j < len(s); j++ {
		c := s[j]
		switch {
		case quoted && c == '\\' && j+1 < len(s):
			j++
		case c == '"':
			quoted = !quoted
		case !quoted && c == ')':
			if j+1 < len(s) && s[j+1] == '}' {
				return j + 2 - i
			}
			return 0
		}
	}
	return 0
}

// checkGroupName reports whether s is a well formed group name and how many
// LLD macros it carries. Macros are only recognized when lld is set.
func checkGroupName(s string, lld bool) (ok bool, macros int) {
	var skel strings.Builder
	for i := 0; i < len(s); {
		if lld && s[i] == '{' {
			n := lldMacroFuncLen(s, i)
			if n == 0 {
				n = lldMacroLen(s, i)
			}
			if n > 0 {
				skel.WriteByte('M')
				macros++
				i += n
				continue
			}
		}
		skel.WriteByte(s[i])
		i++
	}
	k := skel.String()
	if strings.HasPrefix(k, "/") || strings.HasSuffix(k, "/") || strings.Contains(k, "//") {
		return false, macros
	}
	return true, macros
}

// checkTimePeriod validates one or more "d[-d],hh:mm-hh:mm" segments.
func checkTimePeriod(s string, flags Flags, lld bool) bool {
	if flags&AllowUserMacro != 0 && userMacroRe.MatchString(s) {
		return true
	}
	if lld && lldMacroLen(s, 0) == len(s) && len(s) > 0 {
		return true
	}
	segments := strings.Split(s, ";")
	if len(segments) > 1 && flags&AllowMultipleSegments == 0 {
		return false
	}
	for _, seg := range segments {
		if !checkPeriodSegment(seg) {
			return false
		}
	}
	return true
}

func checkPeriodSegment(seg string) bool {
	m := periodRe.FindStringSubmatch(seg)
	if m == nil {
		return false
	}
	dayFrom, _ := strconv.Atoi(m[1])
	dayTo := dayFrom
	if m[2] != "" {
		dayTo, _ = strconv.Atoi(m[2])
	}
	if dayFrom > dayTo {
		return false
	}
	from, ok := clockMinutes(m[3], m[4])
	if !ok {
		return false
	}
	to, ok := clockMinutes(m[5], m[6])
	if !ok {
		return false
	}
	return from < to
}

// clockMinutes converts hh:mm to minutes since midnight; 24:00 is the only
// valid time with hour 24.
func clockMinutes(hh, mm string) (int, bool) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 24 || m > 59 || h == 24 && m != 0 {
		return 0, false
	}
	return h*60 + m, true
}
