package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func cera(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLexText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.cera", "foo(12)")

	res := cera(t, "lex", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	expected := "" +
		"1:1  [0,3)  ident  foo\n" +
		"1:4  [3,4)  punct  (\n" +
		"1:5  [4,6)  int    12\n" +
		"1:7  [6,7)  punct  )\n"
	assert.Equal(t, expected, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestLexExitCodes(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.cera", "a")
	bad := writeFile(t, dir, "bad.cera", "a $b")

	tests := []struct {
		name      string
		args      []string
		code      int
		stderrHas []string
	}{
		{"no_args", []string{"lex"}, ExitInvalidArguments, []string{"accepts 1 arg(s)"}},
		{"unknown_format", []string{"lex", "--format", "jsn", good}, ExitInvalidArguments, []string{`did you mean "json"?`}},
		{"unknown_telemetry", []string{"lex", "--telemetry", "loud", good}, ExitInvalidArguments, []string{"unknown telemetry mode"}},
		{"missing_file", []string{"lex", filepath.Join(dir, "nope.cera")}, ExitIOError, []string{"read source"}},
		{"missing_config", []string{"lex", "--config", filepath.Join(dir, "nope.json"), good}, ExitIOError, []string{"nope.json"}},
		{"lex_error", []string{"lex", bad}, ExitLexError, []string{
			"error: no token matches at @2",
			"bad.cera:1:3",
			"1 | a $b",
			`hint: unmatched input: "$b"`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := cera(t, tt.args...)
			assert.Equal(t, tt.code, res.code)
			for _, part := range tt.stderrHas {
				assert.Contains(t, res.stderr, part)
			}
		})
	}
}

func TestLexUsesDiscoveredConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cera.json", `{"edition": "0.1.0", "output": {"format": "json", "digest": true}}`)
	path := writeFile(t, dir, "main.cera", "x")

	res := cera(t, "lex", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"class": "ident"`)
	assert.Regexp(t, `^digest: [0-9a-f]{64}\n$`, res.stderr)

	res = cera(t, "lex", "--format", "text", "--digest=false", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "1:1  [0,1)  ident  x\n", res.stdout, "flags override the config")
	assert.Empty(t, res.stderr)
}

func TestLexRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cera.json", `{"edition": "0.1.0", "output": {"format": "yaml"}}`)
	path := writeFile(t, dir, "main.cera", "x")

	res := cera(t, "lex", path)
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "invalid configuration")
}

func TestLexTelemetry(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.cera", "a b 1")

	res := cera(t, "lex", "--telemetry", "basic", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	expected := "" +
		"class   count  bytes  avg\n" +
		"ident   2      2      0s\n" +
		"int     1      1      0s\n" +
		"trivia  2      2      0s\n"
	assert.Equal(t, expected, res.stderr)
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.cera", "a")
	logPath := filepath.Join(dir, "cera.log")

	res := cera(t, "--log-file", logPath, "lex", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Empty(t, res.stderr, "debug records stay out of stderr without -v")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"lexed"`)
	assert.Contains(t, string(data), `"tokens":1`)

	res = cera(t, "-v", "lex", path)
	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "msg=lexed")
}

func TestLexDebugTrace(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{"flag", "", []string{"--debug"}},
		{"config", `{"edition": "0.1.0", "lexer": {"debug": true}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.config != "" {
				writeFile(t, dir, "cera.json", tt.config)
			}
			path := writeFile(t, dir, "main.cera", "a 1")

			args := append([]string{"lex"}, tt.args...)
			res := cera(t, append(args, path)...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)
			assert.Contains(t, res.stderr, `msg="lexer step"`)
			assert.Contains(t, res.stderr, `context="ident a"`)
			assert.Contains(t, res.stderr, `context="int 1"`)
		})
	}
}

func TestLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.cera", "a\r\n\nb\nc\nd\ne\nf\ng\nh\ni\nj\n")

	res := cera(t, "lines", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	expected := "" +
		" 1 | a\n" +
		" 2 | \n" +
		" 3 | b\n" +
		" 4 | c\n" +
		" 5 | d\n" +
		" 6 | e\n" +
		" 7 | f\n" +
		" 8 | g\n" +
		" 9 | h\n" +
		"10 | i\n" +
		"11 | j\n"
	assert.Equal(t, expected, res.stdout)
}

func TestValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.cera", `x = 42 "s" 2.5`)

	res := cera(t, "values", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	expected := "" +
		"1:5   42     comptime_int\n" +
		"1:8   \"s\"    string\n" +
		"1:12  25e-1  comptime_float\n"
	assert.Equal(t, expected, res.stdout)
}

func TestValuesLexError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.cera", `"open`)

	res := cera(t, "values", path)
	assert.Equal(t, ExitLexError, res.code)
	assert.Contains(t, res.stderr, "unterminated string literal at @0")
}

func TestValuesRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cera.json", `{"edition": "0.1.0", "output": {"format": "yaml"}}`)
	path := writeFile(t, dir, "main.cera", "42")

	res := cera(t, "values", path)
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "invalid configuration")
	assert.Empty(t, res.stdout)
}

func TestWatchFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.cera", "a")

	ctx, cancel := context.WithCancel(context.Background())
	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, slog.New(slog.DiscardHandler), func() { changes.Add(1) })
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("a b"), 0o644)
		return changes.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
