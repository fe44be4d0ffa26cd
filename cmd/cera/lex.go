package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cera-lang/cera/core/config"
	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/core/tokenfmt"
	"github.com/cera-lang/cera/runtime/diagnostic"
	"github.com/cera-lang/cera/runtime/lexer"
)

type lexOptions struct {
	format    string
	digest    bool
	watch     bool
	telemetry string
	debug     bool
}

func newLexCmd(s *session) *cobra.Command {
	opts := &lexOptions{}

	cmd := &cobra.Command{
		Use:   "lex FILE",
		Short: "Print the tokens of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := s.loadConfig(path)
			if err != nil {
				return err
			}
			opts.merge(cmd, cfg)
			if opts.debug {
				s.level.Set(slog.LevelDebug)
			}
			format, err := tokenfmt.ParseFormat(opts.format)
			if err != nil {
				return fail(ExitInvalidArguments, "%w", err)
			}

			lexOpts, err := opts.lexerOptions(s.logger)
			if err != nil {
				return err
			}
			l := lexer.New(lexOpts...)

			if !opts.watch {
				return s.lexFile(l, path, format, opts.digest)
			}
			return s.watchLex(cmd.Context(), l, path, format, opts.digest)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: "+fmt.Sprint(tokenfmt.Formats()))
	cmd.Flags().BoolVar(&opts.digest, "digest", false, "Print the blake2b-256 digest of the token stream")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-lex whenever the file changes")
	cmd.Flags().StringVar(&opts.telemetry, "telemetry", "off", "Lexer telemetry: off, basic or timing")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Trace every lexer step")
	return cmd
}

// merge fills options the user did not set on the command line from the
// project configuration.
func (o *lexOptions) merge(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.format = cfg.Output.Format
	}
	if !flags.Changed("digest") {
		o.digest = cfg.Output.Digest
	}
	if !flags.Changed("telemetry") {
		o.telemetry = cfg.Lexer.Telemetry
	}
	if !flags.Changed("debug") {
		o.debug = cfg.Lexer.Debug
	}
}

func (o *lexOptions) lexerOptions(logger *slog.Logger) ([]lexer.LexerOpt, error) {
	var opts []lexer.LexerOpt
	switch o.telemetry {
	case "off", "":
	case "basic":
		opts = append(opts, lexer.WithTelemetryBasic())
	case "timing":
		opts = append(opts, lexer.WithTelemetryTiming())
	default:
		return nil, fail(ExitInvalidArguments, "unknown telemetry mode %q (supported: off, basic, timing)", o.telemetry)
	}
	if o.debug {
		opts = append(opts, lexer.WithDebugPaths(), lexer.WithLogger(logger))
	}
	return opts, nil
}

// lexFile tokenizes path and writes the stream to stdout. Lex errors are
// rendered as diagnostics on stderr.
func (s *session) lexFile(l *lexer.Lexer, path string, format tokenfmt.Format, digest bool) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}
	idx := text.NewIndex(src)

	tokens, spans, err := l.Tokenize(src)
	if err != nil {
		d := diagnostic.FromError(path, idx, err)
		if rerr := diagnostic.Render(s.stderr, idx, d, s.useColor(s.stderr)); rerr != nil {
			return fail(ExitIOError, "write diagnostic: %w", rerr)
		}
		s.logger.Debug("lex failed", "path", path, "span", d.Span.String())
		return &exitError{code: ExitLexError}
	}

	stream := tokenfmt.NewStream(path, idx, tokens, spans)
	if err := tokenfmt.Write(s.stdout, format, stream); err != nil {
		return fail(ExitIOError, "write tokens: %w", err)
	}
	if digest {
		sum, err := stream.Digest()
		if err != nil {
			return fail(ExitIOError, "digest: %w", err)
		}
		fmt.Fprintf(s.stderr, "digest: %x\n", sum)
	}
	if tel := l.Telemetry(); tel != nil {
		writeTelemetry(s.stderr, tel)
	}
	s.logger.Debug("lexed", "path", path, "tokens", len(tokens))
	return nil
}

func writeTelemetry(w io.Writer, tel map[lexer.Class]*lexer.TokenTelemetry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "class\tcount\tbytes\tavg")
	for _, class := range slices.Sorted(maps.Keys(tel)) {
		t := tel[class]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%v\n", class, t.Count, t.Bytes, t.AvgTime)
	}
	_ = tw.Flush()
}

// watchLex lexes path once and again after every change until ctx is
// cancelled. Lex errors are reported but do not stop watching.
func (s *session) watchLex(ctx context.Context, l *lexer.Lexer, path string, format tokenfmt.Format, digest bool) error {
	relex := func() {
		if err := s.lexFile(l, path, format, digest); err != nil {
			var ee *exitError
			if errors.As(err, &ee) && ee.err != nil {
				fmt.Fprintf(s.stderr, "Error: %v\n", ee.err)
			}
		}
	}
	relex()
	return watchFile(ctx, path, s.logger, relex)
}

// watchFile calls onChange whenever path is written or recreated. The
// parent directory is watched so editors that replace the file on save are
// still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fail(ExitIOError, "watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fail(ExitIOError, "watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fail(ExitIOError, "watch %s: %w", path, err)
	}
	logger.Debug("watching", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("source changed", "path", target, "op", event.Op.String())
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
