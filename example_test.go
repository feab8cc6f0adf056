package apivalidate_test

import (
	"fmt"

	av "github.com/reoring/apivalidate"
)

func ExampleValidate() {
	rule := av.Objects().NotEmpty().
		Field("valuemapid", av.ID().Required()).
		Field("name", av.String().Required().NotEmpty().Length(64)).
		Uniq("valuemapid").Uniq("name").
		MustBuild()

	out, err := av.Validate(rule, []any{
		map[string]any{"valuemapid": "004", "name": "Service state"},
	}, av.Root())
	fmt.Println(out, err)

	_, err = av.Validate(rule, []any{
		map[string]any{"valuemapid": 4, "name": "A"},
		map[string]any{"valuemapid": 5, "name": "B"},
		map[string]any{"valuemapid": 4, "name": "A"},
	}, av.Root())
	fmt.Println(err)
	// Output:
	// [map[name:Service state valuemapid:4]] <nil>
	// Invalid parameter "/3": value (valuemapid)=(4) already exists.
}

func ExampleAsError() {
	rule := av.Int32().In("0,60:900").MustBuild()
	_, err := av.Validate(rule, "30", av.ParsePath("/delay"))
	if e, ok := av.AsError(err); ok {
		fmt.Println(e.Path, e.Code, e.Message)
	}
	// Output:
	// /delay invalid_enum value must be one of 0, 60-900
}
