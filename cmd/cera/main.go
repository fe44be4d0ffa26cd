package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cera-lang/cera/core/config"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitLexError         = 3
)

// exitError carries the process exit code for a failed command. A nil err
// means the failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, s := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := s.close(); closeErr != nil && err == nil {
		err = fail(ExitIOError, "close log file: %w", closeErr)
	}
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitInvalidArguments
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logFile    string
	verbose    bool
	noColor    bool
}

// session is the per-invocation state built from the global flags.
type session struct {
	opts   *globalOptions
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	level  *slog.LevelVar
	close  func() error
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *session) {
	opts := &globalOptions{}
	s := &session{
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
		level:  new(slog.LevelVar),
		close:  func() error { return nil },
	}

	rootCmd := &cobra.Command{
		Use:           "cera",
		Short:         "Lexical tools for cera source files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.level.Set(slog.LevelWarn)
			if opts.verbose {
				s.level.Set(slog.LevelDebug)
			}
			logger, closeLog, err := newLogger(stderr, opts.logFile, s.level)
			if err != nil {
				return fail(ExitIOError, "open log file: %w", err)
			}
			s.logger = logger
			s.close = closeLog
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to "+config.FileName+" (default: discovered next to the source file)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newLexCmd(s), newLinesCmd(s), newValuesCmd(s))
	return rootCmd, s
}

// loadConfig resolves the project configuration for the source at path.
func (s *session) loadConfig(path string) (*config.Config, error) {
	cfgPath := s.opts.configPath
	if cfgPath == "" {
		found, ok := config.Discover(filepath.Dir(path))
		if !ok {
			return config.Default(), nil
		}
		cfgPath = found
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, fail(ExitInvalidArguments, "%w", err)
		}
		return nil, fail(ExitIOError, "%w", err)
	}
	s.logger.Debug("loaded config", "path", cfgPath, "edition", cfg.Edition)
	return cfg, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fail(ExitIOError, "read source: %w", err)
	}
	return string(data), nil
}

// useColor reports whether diagnostics written to w should be colored.
// Respects --no-color and NO_COLOR.
func (s *session) useColor(w io.Writer) bool {
	if s.opts.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
