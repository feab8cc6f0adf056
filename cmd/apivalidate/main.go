package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"

	av "github.com/reoring/apivalidate"
	"github.com/reoring/apivalidate/i18n"
	"github.com/reoring/apivalidate/payload"
	"github.com/reoring/apivalidate/schemafile"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `apivalidate CLI

Usage:
  apivalidate check      -schema rule.yaml [-input payload.json|-] [-format json|yaml] [-path /] [-env .env]
  apivalidate uniq       -schema rule.yaml [-input payload.json|-] [-format json|yaml] [-path /] [-env .env]
  apivalidate jsonschema -schema rule.yaml

Exit status is 1 when the payload is rejected and 2 on usage or configuration errors.
Configuration: APIVALIDATE_LANG, APIVALIDATE_LOG_LEVEL, APIVALIDATE_LOG_FORMAT,
APIVALIDATE_MAX_DEPTH, APIVALIDATE_LLD_MACROS, APIVALIDATE_REJECT_DUPLICATE_KEYS.`)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "check":
		return validateCmd(args[1:], false, stdin, stdout, stderr)
	case "uniq":
		return validateCmd(args[1:], true, stdin, stdout, stderr)
	case "jsonschema":
		return jsonSchemaCmd(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

func validateCmd(args []string, uniqOnly bool, stdin io.Reader, stdout, stderr io.Writer) int {
	name := "check"
	if uniqOnly {
		name = "uniq"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var schemaPath, inputPath, format, at, envFile string
	fs.StringVar(&schemaPath, "schema", "", "rule file (YAML or JSON)")
	fs.StringVar(&inputPath, "input", "-", "payload file, - for stdin")
	fs.StringVar(&format, "format", "", "payload format: json or yaml (default from the file extension)")
	fs.StringVar(&at, "path", "/", "path of the payload inside the request")
	fs.StringVar(&envFile, "env", "", "dotenv file with APIVALIDATE_* settings")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if schemaPath == "" {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		return fatalf(stderr, "%v", err)
	}
	logger, err := cfg.logger(stderr)
	if err != nil {
		return fatalf(stderr, "%v", err)
	}

	rule, err := schemafile.LoadFile(schemaPath)
	if err != nil {
		return fatalf(stderr, "%v", err)
	}
	logger.Debug("schema loaded", "file", schemaPath, "kind", rule.Kind().String())

	tr := i18n.New(cfg.Lang)
	value, err := readPayload(inputPath, format, stdin, payload.Options{
		MaxDepth:            cfg.MaxDepth,
		RejectDuplicateKeys: cfg.RejectDuplicateKeys,
		Translator:          tr,
	})
	if err != nil {
		return reject(stdout, logger, err)
	}

	opts := av.Options{Translator: tr, Logger: logger, LLDMacros: cfg.LLDMacros}
	if uniqOnly {
		if err := av.ValidateUniqueness(rule, value, av.ParsePath(at), opts); err != nil {
			return reject(stdout, logger, err)
		}
		fmt.Fprintln(stdout, "ok")
		return exitOK
	}

	out, err := av.Validate(rule, value, av.ParsePath(at), opts)
	if err != nil {
		return reject(stdout, logger, err)
	}
	b, err := marshalIndent(out)
	if err != nil {
		return fatalf(stderr, "encode result: %v", err)
	}
	fmt.Fprintln(stdout, string(b))
	return exitOK
}

func readPayload(path, format string, stdin io.Reader, opt payload.Options) (any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	if format == "yaml" {
		return payload.FromYAML(data, opt)
	}
	return payload.FromJSON(data, opt)
}

// reject prints a validation failure on stdout; anything else is an
// operational error.
func reject(stdout io.Writer, logger *slog.Logger, err error) int {
	e, ok := av.AsError(err)
	if !ok {
		logger.Error("cannot validate", "error", err)
		return exitUsage
	}
	logger.Info("payload rejected", "path", e.Path, "code", e.Code)
	fmt.Fprintln(stdout, e.Error())
	return exitInvalid
}

func jsonSchemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "rule file (YAML or JSON)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if schemaPath == "" {
		fs.Usage()
		return exitUsage
	}
	rule, err := schemafile.LoadFile(schemaPath)
	if err != nil {
		return fatalf(stderr, "%v", err)
	}
	b, err := marshalIndent(rule.JSONSchema())
	if err != nil {
		return fatalf(stderr, "encode schema: %v", err)
	}
	fmt.Fprintln(stdout, string(b))
	return exitOK
}

// marshalIndent encodes compactly and re-indents the bytes; go-json's
// MarshalIndent crashes on the interface-typed schema fields.
func marshalIndent(v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, b, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fatalf(w io.Writer, format string, a ...any) int {
	fmt.Fprintf(w, "apivalidate: "+format+"\n", a...)
	return exitUsage
}
