// Package config loads the optional cera.json project file.
//
// The file is validated against an embedded JSON Schema before it is
// decoded, so every error a user sees names the offending JSON location.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

// FileName is the project file looked up by Discover.
const FileName = "cera.json"

// Edition is the newest language edition this toolchain understands.
const Edition = "0.1.0"

//go:embed schema.json
var schemaJSON string

var ErrInvalid = errors.New("invalid configuration")

// Config is a decoded project file.
type Config struct {
	Edition string       `json:"edition"`
	Name    string       `json:"name,omitempty"`
	Sources []string     `json:"sources,omitempty"`
	Lexer   LexerConfig  `json:"lexer"`
	Output  OutputConfig `json:"output"`
}

// LexerConfig selects tokenizer instrumentation.
type LexerConfig struct {
	Telemetry string `json:"telemetry"` // off, basic or timing
	Debug     bool   `json:"debug"`
}

// OutputConfig sets defaults for the lex command.
type OutputConfig struct {
	Format string `json:"format"`
	Digest bool   `json:"digest"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Edition: Edition,
		Lexer:   LexerConfig{Telemetry: "off"},
		Output:  OutputConfig{Format: "text"},
	}
}

// Load reads and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates data against the schema and decodes it over Default.
func Parse(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if semver.Compare(canonicalVersion(cfg.Edition), canonicalVersion(Edition)) > 0 {
		return nil, fmt.Errorf("%w: edition %s is newer than supported edition %s", ErrInvalid, cfg.Edition, Edition)
	}
	return cfg, nil
}

// Discover looks for FileName in dir and its parents and returns the first
// path found.
func Discover(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(interface{}) bool)
	}
	compiler.Formats["semver"] = isSemver

	// The schema is self-contained; refuse to fetch anything.
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("external $ref not allowed: %s", url)
	}

	url := "schema://cera.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
})

// isSemver accepts versions with or without the leading "v".
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true // Type validation happens separately
	}
	return semver.IsValid(canonicalVersion(s))
}

// canonicalVersion adds the "v" prefix x/mod/semver requires.
func canonicalVersion(s string) string {
	if !strings.HasPrefix(s, "v") {
		return "v" + s
	}
	return s
}
