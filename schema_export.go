package apivalidate

import (
	"math"
	"strconv"

	js "github.com/reoring/apivalidate/jsonschema"
)

// JSONSchema projects the rule into a JSON Schema document describing the
// input it accepts. Grammar checks (group names, time periods) and
// composite uniqueness have no JSON Schema equivalent and are left out.
func (r *Rule) JSONSchema() *js.Schema {
	s := r.jsonSchema()
	s.SchemaURI = js.Draft
	return s
}

func (r *Rule) jsonSchema() *js.Schema {
	s := &js.Schema{}
	var types []string
	switch r.kind {
	case KindString, KindGroupName, KindTimePeriod:
		types = []string{"string"}
		if r.flags&NotEmpty != 0 || r.kind != KindString {
			s.MinLength = js.Ptr(1)
		}
		if r.hasLength {
			s.MaxLength = js.Ptr(r.length)
		}
		if r.kind == KindTimePeriod {
			s.Format = "time-period"
		}
		if r.in != nil {
			for _, v := range r.in.Discrete() {
				s.Enum = append(s.Enum, v)
			}
		}
	case KindInt32:
		types = []string{"integer", "string"}
		s.Pattern = `^-?[0-9]+$`
		s.Minimum, s.Maximum = js.Ptr[int64](math.MinInt32), js.Ptr[int64](math.MaxInt32)
		r.numericBounds(s)
	case KindID:
		types = []string{"integer", "string"}
		s.Pattern = `^[0-9]+$`
		s.Minimum = js.Ptr[int64](0)
		r.numericBounds(s)
	case KindBoolean:
		types = []string{"boolean"}
	case KindFlag:
	case KindObject:
		types = []string{"object"}
		r.objectSchema(s)
	case KindObjects:
		types = []string{"array"}
		item := &js.Schema{Type: "object"}
		r.objectSchema(item)
		s.Items = item
		r.arrayBounds(s)
	case KindIDs:
		types = []string{"array"}
		s.Items = ID().MustBuild().jsonSchema()
		s.UniqueItems = len(r.uniq) > 0
		r.arrayBounds(s)
	}
	if len(types) > 0 && r.flags&AllowNull != 0 {
		types = append(types, "null")
	}
	switch len(types) {
	case 0:
	case 1:
		s.Type = types[0]
	default:
		s.Type = types
	}
	if r.hasDefault {
		s.Default = r.def
	}
	return s
}

// numericBounds narrows min/max to a single-range set, or lists a discrete one.
func (r *Rule) numericBounds(s *js.Schema) {
	if r.in == nil {
		return
	}
	items := r.in.items
	if len(items) == 1 && items[0].isRange {
		s.Minimum, s.Maximum = js.Ptr(items[0].lo), js.Ptr(items[0].hi)
		return
	}
	discrete := r.in.Discrete()
	if len(discrete) != len(items) {
		return
	}
	for _, d := range discrete {
		n, _ := strconv.ParseInt(d, 10, 64)
		s.Enum = append(s.Enum, n, d)
	}
}

func (r *Rule) objectSchema(s *js.Schema) {
	s.Properties = make(map[string]*js.Schema, len(r.fields))
	for _, f := range r.fields {
		s.Properties[f.Name] = f.Rule.jsonSchema()
		if f.Rule.flags&Required != 0 && !f.Rule.hasDefault {
			s.Required = append(s.Required, f.Name)
		}
	}
	s.AdditionalProperties = false
}

func (r *Rule) arrayBounds(s *js.Schema) {
	if r.flags&NotEmpty != 0 {
		s.MinItems = js.Ptr(1)
	}
	if r.hasLength {
		s.MaxItems = js.Ptr(r.length)
	}
}
