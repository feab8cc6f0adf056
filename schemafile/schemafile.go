// Package schemafile loads apivalidate rules from YAML (or JSON) documents.
//
// A rule is a mapping:
//
//	type: objects            # string, int32, id, boolean, flag, group_name,
//	                         # time_period, object, objects, ids
//	flags: [not_empty]       # required, not_empty, allow_null, normalize, ...
//	length: 64
//	in: "0,60:900"
//	default: 0
//	fields:                  # object/objects only, declaration order is kept
//	  valuemapid: {type: id, flags: [required]}
//	uniq: [[valuemapid]]     # objects: key-sets; ids: true
package schemafile

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	av "github.com/reoring/apivalidate"
)

// Error locates a problem inside a schema document.
type Error struct {
	Path string // slash path inside the document, e.g. /fields/name/type
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema %s (line %d): %s", e.Path, e.Line, e.Msg)
}

func errAt(p av.Path, n *yaml.Node, format string, args ...any) error {
	return &Error{Path: p.String(), Line: n.Line, Msg: fmt.Sprintf(format, args...)}
}

// LoadFile reads and builds the rule stored at path.
func LoadFile(path string) (*av.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Load(data)
}

// Load parses data and builds the rule.
func Load(data []byte) (*av.Rule, error) {
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// Parse returns the builder described by data, for callers that want to
// extend it before building.
func Parse(data []byte) (*av.Builder, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &Error{Path: "/", Msg: "empty document"}
	}
	return parseRule(doc.Content[0], av.Root())
}

func parseRule(n *yaml.Node, p av.Path) (*av.Builder, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errAt(p, n, "a mapping is expected")
	}
	var typeNode *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "type" {
			typeNode = n.Content[i+1]
		}
	}
	if typeNode == nil {
		return nil, errAt(p, n, `the key "type" is missing`)
	}
	kind, err := av.ParseKind(typeNode.Value)
	if err != nil {
		return nil, errAt(p.Field("type"), typeNode, "%v", err)
	}
	b := av.New(kind)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		kp := p.Field(key)
		switch key {
		case "type":
		case "flags":
			if err := parseFlags(b, val, kp); err != nil {
				return nil, err
			}
		case "length":
			l, err := strconv.Atoi(val.Value)
			if err != nil || val.Kind != yaml.ScalarNode {
				return nil, errAt(kp, val, "an integer is expected")
			}
			b.Length(l)
		case "in":
			if val.Kind != yaml.ScalarNode {
				return nil, errAt(kp, val, "a scalar is expected")
			}
			b.In(val.Value)
		case "default":
			var d any
			if err := val.Decode(&d); err != nil {
				return nil, errAt(kp, val, "%v", err)
			}
			b.Default(d)
		case "fields":
			if val.Kind != yaml.MappingNode {
				return nil, errAt(kp, val, "a mapping is expected")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				name := val.Content[j].Value
				child, err := parseRule(val.Content[j+1], kp.Field(name))
				if err != nil {
					return nil, err
				}
				b.Field(name, child)
			}
		case "uniq":
			if err := parseUniq(b, val, kp); err != nil {
				return nil, err
			}
		default:
			return nil, errAt(p, n.Content[i], "unexpected key %q", key)
		}
	}
	return b, nil
}

func parseFlags(b *av.Builder, n *yaml.Node, p av.Path) error {
	nodes := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		nodes = n.Content
	}
	for i, fn := range nodes {
		if fn.Kind != yaml.ScalarNode {
			return errAt(p, fn, "a flag name is expected")
		}
		f, err := av.ParseFlag(fn.Value)
		if err != nil {
			return errAt(p.Nth(i+1), fn, "%v", err)
		}
		b.WithFlags(f)
	}
	return nil
}

func parseUniq(b *av.Builder, n *yaml.Node, p av.Path) error {
	if n.Kind == yaml.ScalarNode {
		on, err := strconv.ParseBool(n.Value)
		if err != nil {
			return errAt(p, n, "true or a list of key lists is expected")
		}
		if on {
			b.Uniq()
		}
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return errAt(p, n, "true or a list of key lists is expected")
	}
	for i, ks := range n.Content {
		var keys []string
		if err := ks.Decode(&keys); err != nil {
			return errAt(p.Nth(i+1), ks, "a list of field names is expected")
		}
		b.Uniq(keys...)
	}
	return nil
}
