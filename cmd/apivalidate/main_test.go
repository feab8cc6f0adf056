package main

import (
	"bytes"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheck_Normalizes(t *testing.T) {
	code, out, errOut := runCLI(t, "", "check", "-schema", "testdata/host.yaml", "-input", "testdata/host_ok.json")
	require.Equal(t, exitOK, code, errOut)

	var got map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(out), &got))
	assert.Equal(t, "db01", got["host"])
	assert.EqualValues(t, 0, got["status"])
	assert.Equal(t, []any{map[string]any{"groupid": "2"}, map[string]any{"groupid": "5"}}, got["groups"])
}

func TestCheck_Rejects(t *testing.T) {
	code, out, _ := runCLI(t, "", "check", "-schema", "testdata/host.yaml", "-input", "testdata/host_dup.yaml")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, `Invalid parameter "/groups/2": value (groupid)=(2) already exists.`+"\n", out)

	code, out, _ = runCLI(t, `{"host": ""}`, "check", "-schema", "testdata/host.yaml", "-path", "/params")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, `Invalid parameter "/params/host": cannot be empty.`+"\n", out)
}

func TestCheck_DuplicateKeysRejectedByDefault(t *testing.T) {
	code, out, _ := runCLI(t, `{"host": "a", "host": "b"}`, "check", "-schema", "testdata/host.yaml")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, `key "host" duplicated`)

	t.Setenv("APIVALIDATE_REJECT_DUPLICATE_KEYS", "false")
	code, out, _ = runCLI(t, `{"host": "a", "host": "b", "groups": {"groupid": 1}}`, "check", "-schema", "testdata/host.yaml")
	assert.Equal(t, exitOK, code, out)
	assert.Contains(t, out, `"host": "b"`)
}

func TestUniq(t *testing.T) {
	code, out, _ := runCLI(t, "", "uniq", "-schema", "testdata/host.yaml", "-input", "testdata/host_dup.yaml")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, "value (groupid)=(2) already exists")

	code, out, _ = runCLI(t, "", "uniq", "-schema", "testdata/host.yaml", "-input", "testdata/host_ok.json")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "ok\n", out)
}

func TestJSONSchema(t *testing.T) {
	code, out, errOut := runCLI(t, "", "jsonschema", "-schema", "testdata/host.yaml")
	require.Equal(t, exitOK, code, errOut)

	var got map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(out), &got))
	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []any{"host", "groups"}, got["required"])
}

func TestEnvFile(t *testing.T) {
	code, out, errOut := runCLI(t, `{"host": 1}`, "check", "-schema", "testdata/host.yaml", "-env", "testdata/lang_ja.env")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, `Invalid parameter "/host": 文字列が必要です.`)
	assert.Contains(t, errOut, "schema loaded")

	t.Setenv("APIVALIDATE_LANG", "en")
	_, out, _ = runCLI(t, `{"host": 1}`, "check", "-schema", "testdata/host.yaml", "-env", "testdata/lang_ja.env")
	assert.Contains(t, out, "a character string is expected", "process environment wins over the file")
}

func TestUsageErrors(t *testing.T) {
	code, _, _ := runCLI(t, "")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", "compile")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", "check")
	assert.Equal(t, exitUsage, code)

	code, _, errOut := runCLI(t, "", "check", "-schema", "testdata/missing.yaml")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "read schema")

	code, _, errOut = runCLI(t, "", "check", "-schema", "testdata/host.yaml", "-env", "testdata/missing.env")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "invalid configuration")

	t.Setenv("APIVALIDATE_LOG_FORMAT", "xml")
	code, _, errOut = runCLI(t, "{}", "check", "-schema", "testdata/host.yaml")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "log format")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.True(t, cfg.RejectDuplicateKeys)
	assert.False(t, cfg.LLDMacros)

	t.Setenv("APIVALIDATE_MAX_DEPTH", "many")
	_, err = loadConfig("")
	require.ErrorIs(t, err, errConfig)
}
