package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config is read from APIVALIDATE_* environment variables, optionally seeded
// from a .env file. Process variables win over the file.
type config struct {
	Lang                string `env:"APIVALIDATE_LANG" envDefault:"en"`
	LogLevel            string `env:"APIVALIDATE_LOG_LEVEL" envDefault:"info"`
	LogFormat           string `env:"APIVALIDATE_LOG_FORMAT" envDefault:"text"`
	MaxDepth            int    `env:"APIVALIDATE_MAX_DEPTH" envDefault:"64"`
	LLDMacros           bool   `env:"APIVALIDATE_LLD_MACROS" envDefault:"false"`
	RejectDuplicateKeys bool   `env:"APIVALIDATE_REJECT_DUPLICATE_KEYS" envDefault:"true"`
}

var errConfig = errors.New("invalid configuration")

// loadConfig parses the environment. envFile is optional; when empty a
// ".env" in the working directory is used if present.
func loadConfig(envFile string) (config, error) {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	file := envFile
	if file == "" {
		file = ".env"
	}
	fromFile, err := godotenv.Read(file)
	switch {
	case err == nil:
		for k, v := range fromFile {
			if _, set := vars[k]; !set {
				vars[k] = v
			}
		}
	case envFile != "":
		return config{}, errors.Join(errConfig, fmt.Errorf("read %s: %w", envFile, err))
	}

	var c config
	if err := env.ParseWithOptions(&c, env.Options{Environment: vars}); err != nil {
		return config{}, errors.Join(errConfig, err)
	}
	return c, nil
}

func (c config) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, errors.Join(errConfig, fmt.Errorf("log level: %w", err))
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.LogFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, errors.Join(errConfig, fmt.Errorf("log format %q: must be text or json", c.LogFormat))
}
