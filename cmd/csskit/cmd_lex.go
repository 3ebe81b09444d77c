package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/csskit/css/parser"
	"github.com/dhamidi/csskit/format"
	"github.com/spf13/cobra"
)

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex [file]",
		Short: "Dump the token stream of a stylesheet as JSON",
		Long: `Dump every token of a stylesheet, whitespace and comments included,
as a JSON array of kind, start, end and text records.

If no file is provided, reads CSS from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := readSource(args)
			if err != nil {
				return err
			}
			enc := format.NewTokenJSONEncoder(os.Stdout)
			if err := enc.Encode(source, parser.Tokenize(source)); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return nil
		},
	}
}
