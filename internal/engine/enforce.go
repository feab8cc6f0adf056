package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota // last value wins
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int // 0 means unlimited
}

// Issue codes reported through IssueError.
const (
	IssueMaxDepth     = "max_depth"
	IssueDuplicateKey = "duplicate_key"
)

// IssueError reports an enforcement failure at a slash path whose array
// segments are 1-based.
type IssueError struct {
	Code string
	Path string
	Key  string // duplicated key, for IssueDuplicateKey
}

func (e IssueError) Error() string {
	if e.Code == IssueDuplicateKey {
		return "key '" + e.Key + "' duplicated at " + e.Path
	}
	return "max depth exceeded at " + e.Path
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	keys       map[string]struct{}
	segment    string // this container's own segment in its parent
	pendingKey string
	nextIndex  int
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and the maximum nesting depth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		seg := e.childSegment()
		f := frame{kind: kindArray, segment: seg}
		if tok.Kind == KindBeginObject {
			f.kind, f.keys = kindObject, make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{Code: IssueMaxDepth, Path: e.path(len(e.stack))}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate == DupError {
				return Token{}, IssueError{Code: IssueDuplicateKey, Path: e.path(n), Key: tok.String}
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
		}
	default:
		e.childSegment()
	}
	return tok, nil
}

// childSegment returns the segment of the value that is about to be read and
// advances the parent array's index.
func (e *enforcingTokenSource) childSegment() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		top.nextIndex++
		return strconv.Itoa(top.nextIndex)
	}
	return top.pendingKey
}

// path renders the location of the innermost depth containers.
func (e *enforcingTokenSource) path(depth int) string {
	var b strings.Builder
	for i := 1; i < depth; i++ {
		b.WriteByte('/')
		b.WriteString(e.stack[i].segment)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
