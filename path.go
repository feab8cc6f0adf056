package apivalidate

import (
	"strconv"
	"strings"
)

// Path addresses a node inside the validated value. It is immutable: Field
// and Nth return new paths and never modify the receiver.
type Path struct {
	parts []string
}

// Root returns the root path "/".
func Root() Path { return Path{} }

// ParsePath splits a slash path such as "/1/name". Empty segments are ignored,
// so "" and "/" both yield the root.
func ParsePath(s string) Path {
	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return Path{parts: parts}
}

// Field returns the child path for an object field.
func (p Path) Field(name string) Path {
	return Path{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), name)}
}

// Nth returns the child path for the n-th (1-based) element of a sequence.
func (p Path) Nth(n int) Path { return p.Field(strconv.Itoa(n)) }

// IsRoot reports whether p is "/".
func (p Path) IsRoot() bool { return len(p.parts) == 0 }

// Segments returns a copy of the path segments.
func (p Path) Segments() []string { return append([]string(nil), p.parts...) }

func (p Path) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
