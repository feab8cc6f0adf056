package apivalidate_test

import (
	"bytes"
	"reflect"
	"testing"

	gojson "github.com/goccy/go-json"

	av "github.com/reoring/apivalidate"
	js "github.com/reoring/apivalidate/jsonschema"
)

func TestJSONSchema_Objects(t *testing.T) {
	rule := av.Objects().NotEmpty().Length(5).
		Field("valuemapid", av.ID().Required()).
		Field("name", av.String().Required().NotEmpty().Length(64)).
		Field("status", av.Int32().In("0:1").Default(0)).
		Field("format", av.String().AllowNull().In("xml,json")).
		MustBuild()

	s := rule.JSONSchema()
	if s.SchemaURI != js.Draft || s.Type != "array" {
		t.Fatalf("root: %#v", s)
	}
	if *s.MinItems != 1 || *s.MaxItems != 5 {
		t.Fatalf("items bounds: %v %v", *s.MinItems, *s.MaxItems)
	}
	item := s.Items
	if item.Type != "object" || item.AdditionalProperties != false {
		t.Fatalf("item: %#v", item)
	}
	if !reflect.DeepEqual(item.Required, []string{"valuemapid", "name"}) {
		t.Fatalf("required: %v", item.Required)
	}
	name := item.Properties["name"]
	if name.Type != "string" || *name.MaxLength != 64 || *name.MinLength != 1 {
		t.Fatalf("name: %#v", name)
	}
	status := item.Properties["status"]
	if *status.Minimum != 0 || *status.Maximum != 1 || status.Default != 0 {
		t.Fatalf("status: %#v", status)
	}
	format := item.Properties["format"]
	if !reflect.DeepEqual(format.Type, []string{"string", "null"}) || !reflect.DeepEqual(format.Enum, []any{"xml", "json"}) {
		t.Fatalf("format: %#v", format)
	}
	id := item.Properties["valuemapid"]
	if id.Pattern != `^[0-9]+$` || !reflect.DeepEqual(id.Type, []string{"integer", "string"}) {
		t.Fatalf("id: %#v", id)
	}
}

func TestJSONSchema_IDsAndFlag(t *testing.T) {
	s := av.Object().
		Field("hostids", av.IDs().Uniq()).
		Field("monitored", av.Flag()).
		MustBuild().JSONSchema()

	hostids := s.Properties["hostids"]
	if hostids.Type != "array" || !hostids.UniqueItems || hostids.Items.Pattern != `^[0-9]+$` {
		t.Fatalf("hostids: %#v", hostids)
	}
	if flag := s.Properties["monitored"]; flag.Type != nil {
		t.Fatalf("flag should accept anything: %#v", flag)
	}
}

func TestJSONSchema_EncodesIndented(t *testing.T) {
	s := av.Object().Field("status", av.Int32().In("0,1").Default(0)).MustBuild().JSONSchema()
	b, err := gojson.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, b, "", "  "); err != nil {
		t.Fatalf("indent: %v", err)
	}

	var got map[string]any
	if err := gojson.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	status := got["properties"].(map[string]any)["status"].(map[string]any)
	if !reflect.DeepEqual(status["type"], []any{"integer", "string"}) {
		t.Fatalf("status type: %#v", status["type"])
	}
	if !reflect.DeepEqual(status["enum"], []any{float64(0), "0", float64(1), "1"}) {
		t.Fatalf("status enum: %#v", status["enum"])
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"properties\": {")) {
		t.Fatalf("not indented:\n%s", buf.String())
	}
}
