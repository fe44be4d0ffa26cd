package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/comptime"
	"github.com/cera-lang/cera/runtime/diagnostic"
	"github.com/cera-lang/cera/runtime/lexer"
)

func newValuesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "values FILE",
		Short: "Print every literal of a source file with its comptime type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := s.loadConfig(path); err != nil {
				return err
			}
			src, err := readSource(path)
			if err != nil {
				return err
			}
			idx := text.NewIndex(src)

			tokens, spans, err := lexer.Tokenize(src)
			if err != nil {
				d := diagnostic.FromError(path, idx, err)
				if rerr := diagnostic.Render(s.stderr, idx, d, s.useColor(s.stderr)); rerr != nil {
					return fail(ExitIOError, "write diagnostic: %w", rerr)
				}
				return &exitError{code: ExitLexError}
			}

			scope := comptime.NewScope()
			tw := tabwriter.NewWriter(s.stdout, 0, 4, 2, ' ', 0)
			for i, tok := range tokens {
				if tok.Kind != lexer.Literal {
					continue
				}
				v, err := comptime.FromLiteral(tok)
				if err != nil {
					return fail(ExitLexError, "%w", err)
				}
				typed, err := comptime.Eval(comptime.CallExpr(comptime.BuiltinTypeOf, comptime.ValueExpr(v)), scope)
				if err != nil {
					return fail(ExitLexError, "%w", err)
				}
				ty, _ := typed.Reduced()
				line, col := idx.Location(spans[i].Offset)
				fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", line, col, v, ty)
			}
			if err := tw.Flush(); err != nil {
				return fail(ExitIOError, "write: %w", err)
			}
			return nil
		},
	}
}
