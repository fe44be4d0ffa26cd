package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cera-lang/cera/core/text"
)

func newLinesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "lines FILE",
		Short: "Print a source file with line numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			idx := text.NewIndex(src)
			width := len(fmt.Sprint(idx.LineCount()))
			for n, line := range idx.All() {
				line = strings.TrimRight(line, "\r\n")
				if _, err := fmt.Fprintf(s.stdout, "%*d | %s\n", width, n+1, line); err != nil {
					return fail(ExitIOError, "write: %w", err)
				}
			}
			return nil
		},
	}
}
