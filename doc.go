// Package apivalidate validates decoded API request payloads against
// declarative rules before they reach business logic.
//
// It provides:
//
//   - Rules built from a closed set of kinds (strings, int32, ids, booleans,
//     flags, group names, time periods, objects and arrays of them)
//   - Strict numeric coercion ("-012" becomes int32(-12), ids become
//     canonical decimal strings) and field defaults
//   - Composite uniqueness across sibling objects ("value (name)=(x) already
//     exists")
//   - A single addressable Error per failure, e.g.
//     `Invalid parameter "/1/name": cannot be empty.`
//
// Design policy:
//   - The root package never parses wire formats; payload/ decodes JSON and
//     YAML, schemafile/ loads rules from files, cmd/apivalidate is the CLI.
//   - Rules are immutable and shared freely; per-call behavior comes from an
//     Options value.
//
// Typical usage:
//
//	rule := apivalidate.Objects().NotEmpty().
//		Field("valuemapid", apivalidate.ID().Required()).
//		Field("name", apivalidate.String().Required().NotEmpty().Length(64)).
//		Uniq("name").
//		MustBuild()
//
//	v, err := apivalidate.Validate(rule, data, apivalidate.Root())
package apivalidate
