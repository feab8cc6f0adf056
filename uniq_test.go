package apivalidate_test

import (
	"fmt"
	"testing"

	av "github.com/reoring/apivalidate"
)

func expectErr(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
}

func TestUniqueness_Composite(t *testing.T) {
	rule := av.Objects().
		Field("valuemapid", av.ID().Required()).
		Field("name", av.String().Required().NotEmpty().Length(64)).
		Uniq("valuemapid").Uniq("name").
		MustBuild()

	in := []any{
		map[string]any{"valuemapid": 4, "name": "A"},
		map[string]any{"valuemapid": 5, "name": "B"},
		map[string]any{"valuemapid": 4, "name": "A"},
	}
	_, err := av.Validate(rule, in, av.Root())
	expectErr(t, err, `Invalid parameter "/3": value (valuemapid)=(4) already exists.`)

	expectErr(t, av.ValidateUniqueness(rule, in, av.Root()),
		`Invalid parameter "/3": value (valuemapid)=(4) already exists.`)
}

func TestUniqueness_KeySetOrder(t *testing.T) {
	rule := av.Objects().
		Field("applicationid", av.ID()).
		Field("hostid", av.ID()).
		Field("name", av.String()).
		Uniq("applicationid").Uniq("hostid", "name").
		MustBuild()

	var in []any
	for i := 1; i <= 10; i++ {
		in = append(in, map[string]any{"applicationid": i, "hostid": 1, "name": fmt.Sprintf("app%d", i)})
	}
	for i := 1; i <= 5; i++ {
		in = append(in, map[string]any{"applicationid": 10 + i, "hostid": 2, "name": fmt.Sprintf("app%d", i)})
	}
	for i := 1; i <= 5; i++ {
		in = append(in, map[string]any{"applicationid": 15 + i, "hostid": 3, "name": fmt.Sprintf("app%d", i)})
	}

	// element 21 repeats the (hostid, name) of element 1
	dupTuple := append(append([]any{}, in...), map[string]any{"applicationid": 21, "hostid": 1, "name": "app1"})
	expectErr(t, av.ValidateUniqueness(rule, dupTuple, av.Root()),
		`Invalid parameter "/21": value (hostid, name)=(1, app1) already exists.`)

	// the applicationid key-set is scanned first, even though the tuple
	// duplicate appears earlier in the sequence
	both := append([]any{}, in[:19]...)
	both = append(both,
		map[string]any{"applicationid": "01", "hostid": 3, "name": "app5"},
		map[string]any{"applicationid": 99, "hostid": 1, "name": "app1"},
	)
	both[1] = map[string]any{"applicationid": 2, "hostid": 1, "name": "app1"}
	expectErr(t, av.ValidateUniqueness(rule, both, av.Root()),
		`Invalid parameter "/20": value (applicationid)=(1) already exists.`)
}

func TestUniqueness_SkipsElementsMissingKeys(t *testing.T) {
	rule := av.Objects().
		Field("name", av.String()).
		Uniq("name").
		MustBuild()

	in := []any{}
	for i := 1; i <= 9; i++ {
		in = append(in, map[string]any{"name": fmt.Sprintf("app%d", i)})
	}
	in = append(in, map[string]any{})
	for i := 10; i <= 12; i++ {
		in = append(in, map[string]any{"name": fmt.Sprintf("app%d", i)})
	}
	in = append(in, map[string]any{}, map[string]any{}, map[string]any{})
	for i := 13; i <= 19; i++ {
		in = append(in, map[string]any{"name": fmt.Sprintf("app%d", i)})
	}
	in = append(in, map[string]any{"name": "app1"})

	expectErr(t, av.ValidateUniqueness(rule, in, av.Root()),
		`Invalid parameter "/24": value (name)=(app1) already exists.`)
	_, err := av.Validate(rule, in, av.Root())
	expectErr(t, err, `Invalid parameter "/24": value (name)=(app1) already exists.`)

	// absence is not a value: two elements without the key never collide
	partial := av.Objects().
		Field("hostid", av.ID()).
		Field("name", av.String()).
		Uniq("hostid", "name").
		MustBuild()
	ok := []any{
		map[string]any{"hostid": 1},
		map[string]any{"hostid": 1},
		map[string]any{"name": "a"},
		map[string]any{"name": "a"},
	}
	if err := av.ValidateUniqueness(partial, ok, av.Root()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUniqueness_DefaultsTakePart(t *testing.T) {
	rule := av.Object().
		Field("tags", av.Objects().
			Field("tag", av.String().Required().NotEmpty().Length(255)).
			Field("operator", av.Int32().In("0,2").Default(2)).
			Field("value", av.String().Length(255).Default("")).
			Uniq("tag", "operator", "value")).
		MustBuild()

	in := map[string]any{"tags": []any{
		map[string]any{"tag": "tag"},
		map[string]any{"tag": "tag"},
	}}
	_, err := av.Validate(rule, in, av.Root())
	expectErr(t, err, `Invalid parameter "/tags/2": value (tag, operator, value)=(tag, 2, ) already exists.`)
}

func TestUniqueness_NormalizedValues(t *testing.T) {
	rule := av.Objects().
		Field("hostid", av.ID()).
		Field("port", av.Int32()).
		Uniq("hostid").Uniq("port").
		MustBuild()

	expectErr(t, av.ValidateUniqueness(rule, []any{
		map[string]any{"hostid": "03"},
		map[string]any{"hostid": 3},
	}, av.Root()), `Invalid parameter "/2": value (hostid)=(3) already exists.`)

	expectErr(t, av.ValidateUniqueness(rule, []any{
		map[string]any{"port": "-010"},
		map[string]any{"port": -10},
	}, av.Root()), `Invalid parameter "/2": value (port)=(-10) already exists.`)
}

func TestUniqueness_TupleEncodingDoesNotCollide(t *testing.T) {
	rule := av.Objects().
		Field("a", av.String()).
		Field("b", av.String()).
		Uniq("a", "b").
		MustBuild()
	in := []any{
		map[string]any{"a": "x, y", "b": "z"},
		map[string]any{"a": "x", "b": "y, z"},
	}
	if err := av.ValidateUniqueness(rule, in, av.Root()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUniqueness_WholeElement(t *testing.T) {
	rule := av.Objects().
		Field("a", av.String()).
		Field("b", av.Int32()).
		Uniq().
		MustBuild()
	_, err := av.Validate(rule, []any{
		map[string]any{"a": "x", "b": 1},
		map[string]any{"a": "y", "b": 1},
		map[string]any{"b": "1", "a": "x"},
	}, av.Root())
	expectErr(t, err, `Invalid parameter "/3": value ({"a":"x","b":1}) already exists.`)
}

func TestUniqueness_WholeElementRawInput(t *testing.T) {
	rule := av.Objects().
		Field("a", av.String()).
		Field("b", av.Int32()).
		Uniq().
		MustBuild()
	in := []any{
		map[string]any{"a": "x", "b": 1},
		map[string]any{"a": "x", "b": "01"},
	}
	want := `Invalid parameter "/2": value ({"a":"x","b":1}) already exists.`
	expectErr(t, av.ValidateUniqueness(rule, in, av.Root()), want)
	_, err := av.Validate(rule, in, av.Root())
	expectErr(t, err, want)

	nested := av.Objects().
		Field("host", av.Object().Field("hostid", av.ID())).
		Field("groupids", av.IDs()).
		Uniq().
		MustBuild()
	expectErr(t, av.ValidateUniqueness(nested, []any{
		map[string]any{"host": map[string]any{"hostid": 1}, "groupids": []any{2, "3"}},
		map[string]any{"host": map[string]any{"hostid": "001"}, "groupids": []any{"02", 3}},
	}, av.Root()), `Invalid parameter "/2": value ({"groupids":["2","3"],"host":{"hostid":"1"}}) already exists.`)
}

func TestUniqueness_Nested(t *testing.T) {
	rule := av.Objects().
		Field("tags", av.Objects().
			Field("tag", av.String()).
			Field("operator", av.Int32()).
			Field("value", av.String()).
			Uniq("tag", "operator", "value")).
		MustBuild()

	in := []any{map[string]any{"tags": []any{
		map[string]any{"tag": "tag", "operator": 0, "value": ""},
		map[string]any{"tag": "tag", "operator": 0, "value": ""},
	}}}
	expectErr(t, av.ValidateUniqueness(rule, in, av.Root()),
		`Invalid parameter "/1/tags/2": value (tag, operator, value)=(tag, 0, ) already exists.`)

	levels := av.Object().
		Field("levels", av.IDs().Uniq()).
		MustBuild()
	expectErr(t, av.ValidateUniqueness(levels, map[string]any{"levels": []any{"1", "2", "001"}}, av.Root()),
		`Invalid parameter "/levels/3": value (1) already exists.`)
}

func TestUniqueness_ScalarIDs(t *testing.T) {
	rule := av.IDs().Uniq().MustBuild()
	in := []any{0, 1, 2, 3, "4", "9223372036854775807", 5, 6, 7, "03"}
	expectErr(t, av.ValidateUniqueness(rule, in, av.Root()),
		`Invalid parameter "/10": value (3) already exists.`)

	if err := av.ValidateUniqueness(rule, []any{"1", "2"}, av.ParsePath("/output")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectErr(t, av.ValidateUniqueness(rule, []string{"55", "55"}, av.ParsePath("/output")),
		`Invalid parameter "/output/2": value (55) already exists.`)

	// without a key-set there is nothing to check
	if err := av.ValidateUniqueness(av.IDs().MustBuild(), []any{1, 1}, av.Root()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUniqueness_ErrorParams(t *testing.T) {
	rule := av.Objects().Field("name", av.String()).Uniq("name").MustBuild()
	err := av.ValidateUniqueness(rule, []any{
		map[string]any{"name": "a"},
		map[string]any{"name": "a"},
	}, av.Root())
	e, ok := av.AsError(err)
	if !ok || e.Code != av.CodeUniqueness {
		t.Fatalf("got %#v", err)
	}
	if keys, _ := e.Params["keys"].([]string); len(keys) != 1 || keys[0] != "name" {
		t.Fatalf("keys param: %#v", e.Params)
	}
}
