package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/parser"
	"github.com/dhamidi/csskit/format"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var minify bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Write a stylesheet back out, optionally minified",
		Long: `Parse a stylesheet and write it back to stdout.

Without flags the output is byte-identical to the input. With --minify,
comments are dropped and whitespace is removed wherever it does not
change how the stylesheet parses.

If no file is provided, reads CSS from stdin.
Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			doc := format.FromResult(ast.ParseStyleSheet(source, parser.WithFile(filename)))

			var out bytes.Buffer
			if minify {
				err = format.Minify(&out, doc.Source, doc.Tokens, doc.Node)
			} else {
				err = format.Render(&out, doc.Source, doc.Tokens, doc.Node)
			}
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(filename, out.Bytes(), 0644)
			}
			_, err = os.Stdout.Write(out.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&minify, "minify", false, "drop comments and redundant whitespace")

	return cmd
}
