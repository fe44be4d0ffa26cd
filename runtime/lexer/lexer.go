// Package lexer turns cera source text into positioned tokens.
//
// TryParse recognizes a single token (or a run of whitespace and comments)
// at the start of a string; Tokenize drives it over a whole source with
// the parsing package and reports absolute spans.
package lexer

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/parsing"
)

// LexerOpt configures a Lexer.
type LexerOpt func(*LexerConfig)

// TelemetryMode controls telemetry collection
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Token counts only
	TelemetryTiming                      // Token counts + timing per class
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff   DebugLevel = iota // No debug info (default)
	DebugPaths                   // One event per parse step
)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	telemetry TelemetryMode
	debug     DebugLevel
	logger    *slog.Logger
}

// WithTelemetryBasic enables token counts per class.
func WithTelemetryBasic() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables counts and timing per class.
func WithTelemetryTiming() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths records a DebugEvent for every parse step and logs it at
// debug level.
func WithDebugPaths() LexerOpt {
	return func(c *LexerConfig) {
		c.debug = DebugPaths
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *LexerConfig) {
		c.logger = logger
	}
}

// TokenTelemetry holds per-class telemetry.
type TokenTelemetry struct {
	Class     Class
	Count     int
	Bytes     int
	TotalTime time.Duration
	AvgTime   time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// DebugEvent is one traced parse step.
type DebugEvent struct {
	Event   string // "token", "trivia", "error"
	Span    text.Span
	Context string
}

// Lexer tokenizes sources with optional telemetry and tracing. A Lexer
// keeps per-run state and must not be shared between goroutines; the
// package-level Tokenize has no shared state at all.
type Lexer struct {
	telemetryMode  TelemetryMode
	tokenTelemetry map[Class]*TokenTelemetry // nil when telemetry is off

	debugLevel  DebugLevel
	debugEvents []DebugEvent // nil when debug is off
	logger      *slog.Logger

	cursor int // absolute offset of the current step, for tracing
}

// New creates a lexer with optional configuration.
func New(opts ...LexerOpt) *Lexer {
	config := &LexerConfig{}
	for _, opt := range opts {
		opt(config)
	}

	l := &Lexer{
		telemetryMode: config.telemetry,
		debugLevel:    config.debug,
		logger:        config.logger,
	}

	if config.telemetry > TelemetryOff {
		l.tokenTelemetry = make(map[Class]*TokenTelemetry)
	}
	if config.debug > DebugOff {
		l.debugEvents = make([]DebugEvent, 0, 256)
		if l.logger == nil {
			l.logger = debugLogger()
		}
	}
	return l
}

// debugLogger writes plain key=value lines to stderr. CERA_DEBUG_LEXER
// lowers the level to debug.
func debugLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("CERA_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Tokenize splits src into tokens and their absolute spans. On error no
// tokens are returned and the error is a *parsing.Error whose position is
// absolute.
func Tokenize(src string, opts ...LexerOpt) ([]Token, []text.Span, error) {
	return New(opts...).Tokenize(src)
}

// Tokenize splits src into tokens and their absolute spans, resetting any
// telemetry and debug events from a previous run.
func (l *Lexer) Tokenize(src string) ([]Token, []text.Span, error) {
	l.reset()
	if l.telemetryMode == TelemetryOff && l.debugLevel == DebugOff {
		return parsing.Parse(src, TryParse)
	}
	tokens, spans, err := parsing.Parse(src, l.step)
	var pe *parsing.Error
	if errors.As(err, &pe) {
		l.recordDebugEvent("error", pe.Span(), pe.Error())
	}
	return tokens, spans, err
}

func (l *Lexer) reset() {
	l.cursor = 0
	clear(l.tokenTelemetry)
	if l.debugEvents != nil {
		l.debugEvents = l.debugEvents[:0]
	}
}

// step wraps TryParse with telemetry and tracing.
func (l *Lexer) step(src string) (parsing.Outcome[Token], error) {
	var start time.Time
	if l.telemetryMode >= TelemetryTiming {
		start = time.Now()
	}

	out, err := TryParse(src)

	var elapsed time.Duration
	if l.telemetryMode >= TelemetryTiming {
		elapsed = time.Since(start)
	}

	span := text.Span{Offset: l.cursor, Len: out.Len()}
	// Errors are traced by Tokenize once their positions are absolute.
	switch {
	case err != nil:
	case out.Kind() == parsing.Skip:
		l.recordTelemetry(ClassTrivia, out.Len(), elapsed)
		l.recordDebugEvent("trivia", span, "")
	case out.Kind() == parsing.Value:
		tok, _ := out.Value()
		l.recordTelemetry(tok.Class(), out.Len(), elapsed)
		l.recordDebugEvent("token", span, tok.String())
	}

	l.cursor += max(out.Len(), 0)
	return out, err
}

func (l *Lexer) recordTelemetry(class Class, n int, elapsed time.Duration) {
	if l.telemetryMode == TelemetryOff {
		return
	}

	tel, exists := l.tokenTelemetry[class]
	if !exists {
		tel = &TokenTelemetry{Class: class, MinTime: elapsed, MaxTime: elapsed}
		l.tokenTelemetry[class] = tel
	}

	tel.Count++
	tel.Bytes += n

	if l.telemetryMode >= TelemetryTiming {
		tel.TotalTime += elapsed
		tel.AvgTime = tel.TotalTime / time.Duration(tel.Count)
		tel.MinTime = min(tel.MinTime, elapsed)
		tel.MaxTime = max(tel.MaxTime, elapsed)
	}
}

func (l *Lexer) recordDebugEvent(event string, span text.Span, context string) {
	if l.debugLevel == DebugOff {
		return
	}

	l.debugEvents = append(l.debugEvents, DebugEvent{Event: event, Span: span, Context: context})
	l.logger.Debug("lexer step", "event", event, "span", span.String(), "context", context)
}

// Telemetry returns a copy of the per-class telemetry of the last run, or
// nil when telemetry is off.
func (l *Lexer) Telemetry() map[Class]*TokenTelemetry {
	if l.telemetryMode == TelemetryOff {
		return nil
	}

	result := make(map[Class]*TokenTelemetry, len(l.tokenTelemetry))
	for k, v := range l.tokenTelemetry {
		telemetryCopy := *v
		result[k] = &telemetryCopy
	}
	return result
}

// DebugEvents returns a copy of the traced steps of the last run, or nil
// when debug tracing is off.
func (l *Lexer) DebugEvents() []DebugEvent {
	if l.debugLevel == DebugOff {
		return nil
	}

	result := make([]DebugEvent, len(l.debugEvents))
	copy(result, l.debugEvents)
	return result
}
