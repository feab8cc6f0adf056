package apivalidate

// Rule describes the expected shape of a value. Rules are immutable once
// built and safe for concurrent use.
type Rule struct {
	kind       Kind
	flags      Flags
	length     int
	hasLength  bool
	in         *InSet
	fields     []Field
	index      map[string]int
	uniq       [][]string
	def        any
	hasDefault bool
}

// Field is a named child rule of an object.
type Field struct {
	Name string
	Rule *Rule
}

// Kind reports the value kind the rule accepts.
func (r *Rule) Kind() Kind { return r.kind }

// Flags reports every flag set on the rule.
func (r *Rule) Flags() Flags { return r.flags }

// Has reports whether all of f are set.
func (r *Rule) Has(f Flags) bool { return r.flags&f == f }

// Length returns the configured maximum and whether one is set.
func (r *Rule) Length() (int, bool) { return r.length, r.hasLength }

// In returns the allow-list, or nil.
func (r *Rule) In() *InSet { return r.in }

// Default returns the value substituted for an absent field.
func (r *Rule) Default() (any, bool) { return r.def, r.hasDefault }

// Fields returns a copy of the declared child rules in declaration order.
func (r *Rule) Fields() []Field { return append([]Field(nil), r.fields...) }

// Uniq returns a copy of the uniqueness key-sets.
func (r *Rule) Uniq() [][]string { return cloneKeySets(r.uniq) }

func (r *Rule) hasFields() bool         { return r.kind == KindObject || r.kind == KindObjects }
func (r *Rule) field(name string) *Rule { return r.fields[r.index[name]].Rule }

// Field looks up a declared child rule.
func (r *Rule) Field(name string) (*Rule, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Rule, true
}

func cloneKeySets(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, ks := range in {
		out[i] = append([]string{}, ks...)
	}
	return out
}

// Builder assembles a Rule. Start from one of the kind constructors
// (String, Int32, Objects, ...) and finish with Build or MustBuild.
type Builder struct {
	kind       Kind
	flags      Flags
	length     int
	hasLength  bool
	inSpec     string
	hasIn      bool
	fields     []builderField
	uniq       [][]string
	def        any
	hasDefault bool
}

type builderField struct {
	name string
	b    *Builder
}

func newBuilder(k Kind) *Builder { return &Builder{kind: k} }

// String starts a rule for a UTF-8 string.
func String() *Builder { return newBuilder(KindString) }

// Int32 starts a rule for a signed 32-bit integer given as a number or
// decimal text.
func Int32() *Builder { return newBuilder(KindInt32) }

// ID starts a rule for a non-negative 64-bit identifier.
func ID() *Builder { return newBuilder(KindID) }

// Boolean starts a rule for a strict true/false value.
func Boolean() *Builder { return newBuilder(KindBoolean) }

// Flag starts a rule for a boolean that tolerates legacy non-boolean input.
func Flag() *Builder { return newBuilder(KindFlag) }

// GroupName starts a rule for a slash separated host group name.
func GroupName() *Builder { return newBuilder(KindGroupName) }

// TimePeriod starts a rule for a "d[-d],hh:mm-hh:mm" schedule.
func TimePeriod() *Builder { return newBuilder(KindTimePeriod) }

// Object starts a rule for a map with declared fields.
func Object() *Builder { return newBuilder(KindObject) }

// Objects starts a rule for a sequence of objects.
func Objects() *Builder { return newBuilder(KindObjects) }

// IDs starts a rule for a sequence of ids.
func IDs() *Builder { return newBuilder(KindIDs) }

// New starts a builder for an arbitrary kind.
func New(k Kind) *Builder { return newBuilder(k) }

// WithFlags adds f to the rule's flags; the helpers below set one flag each.
func (b *Builder) WithFlags(f Flags) *Builder { b.flags |= f; return b }
func (b *Builder) Required() *Builder         { return b.WithFlags(Required) }
func (b *Builder) NotEmpty() *Builder         { return b.WithFlags(NotEmpty) }
func (b *Builder) AllowNull() *Builder        { return b.WithFlags(AllowNull) }
func (b *Builder) Normalize() *Builder        { return b.WithFlags(Normalize) }
func (b *Builder) MultipleSegments() *Builder { return b.WithFlags(AllowMultipleSegments) }
func (b *Builder) AllowUserMacro() *Builder   { return b.WithFlags(AllowUserMacro) }
func (b *Builder) RequireLLDMacro() *Builder  { return b.WithFlags(RequireLLDMacro) }

// Length caps the character count of string kinds, or the element count of
// sequence kinds.
func (b *Builder) Length(n int) *Builder {
	b.length, b.hasLength = n, true
	return b
}

// In restricts the value to an allow-list, see ParseInSet.
func (b *Builder) In(spec string) *Builder {
	b.inSpec, b.hasIn = spec, true
	return b
}

// Default is substituted (and then validated) when the field is absent from
// its parent object.
func (b *Builder) Default(v any) *Builder {
	b.def, b.hasDefault = v, true
	return b
}

// Field appends a child rule; declaration order is validation order.
func (b *Builder) Field(name string, child *Builder) *Builder {
	b.fields = append(b.fields, builderField{name: name, b: child})
	return b
}

// Uniq adds a uniqueness key-set. Objects take field names; IDs take none
// (the whole element is the key).
func (b *Builder) Uniq(keys ...string) *Builder {
	b.uniq = append(b.uniq, append([]string{}, keys...))
	return b
}

// MustBuild is like Build but panics on a malformed rule.
func (b *Builder) MustBuild() *Rule {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Build checks the rule for consistency and freezes it.
func (b *Builder) Build() (*Rule, error) { return b.build(Root()) }

func (b *Builder) build(p Path) (*Rule, error) {
	if _, ok := kindNames[b.kind]; !ok {
		return nil, ruleErrorf(p, "unknown kind %d", int(b.kind))
	}
	r := &Rule{kind: b.kind, flags: b.flags, length: b.length, hasLength: b.hasLength}

	if b.hasLength {
		switch b.kind {
		case KindString, KindGroupName, KindTimePeriod, KindObjects, KindIDs:
		default:
			return nil, ruleErrorf(p, "length is not supported by %s", b.kind)
		}
		if b.length < 0 {
			return nil, ruleErrorf(p, "negative length %d", b.length)
		}
	}

	if b.hasIn {
		var numeric bool
		switch b.kind {
		case KindString:
		case KindInt32, KindID:
			numeric = true
		default:
			return nil, ruleErrorf(p, "in is not supported by %s", b.kind)
		}
		set, err := ParseInSet(b.inSpec, numeric)
		if err != nil {
			return nil, ruleErrorf(p, "in: %v", err)
		}
		r.in = set
	}

	if len(b.fields) > 0 && b.kind != KindObject && b.kind != KindObjects {
		return nil, ruleErrorf(p, "fields are not supported by %s", b.kind)
	}
	if r.hasFields() {
		r.index = make(map[string]int, len(b.fields))
		for _, f := range b.fields {
			if _, dup := r.index[f.name]; dup {
				return nil, ruleErrorf(p, "duplicate field %q", f.name)
			}
			if f.b == nil {
				return nil, ruleErrorf(p, "field %q has no rule", f.name)
			}
			child, err := f.b.build(p.Field(f.name))
			if err != nil {
				return nil, err
			}
			r.index[f.name] = len(r.fields)
			r.fields = append(r.fields, Field{Name: f.name, Rule: child})
		}
	}

	if len(b.uniq) > 0 {
		switch b.kind {
		case KindObjects:
			for _, ks := range b.uniq {
				for _, k := range ks {
					if _, ok := r.index[k]; !ok {
						return nil, ruleErrorf(p, "uniq key %q is not a declared field", k)
					}
				}
			}
		case KindIDs:
			for _, ks := range b.uniq {
				if len(ks) > 0 {
					return nil, ruleErrorf(p, "uniq keys are not supported by %s", b.kind)
				}
			}
		default:
			return nil, ruleErrorf(p, "uniq is not supported by %s", b.kind)
		}
		r.uniq = cloneKeySets(b.uniq)
	}

	if b.hasDefault {
		if _, err := Validate(r, b.def, p); err != nil {
			return nil, ruleErrorf(p, "default: %v", err)
		}
		r.def, r.hasDefault = b.def, true
	}
	return r, nil
}
