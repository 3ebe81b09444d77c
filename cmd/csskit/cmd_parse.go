package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/parser"
	"github.com/dhamidi/csskit/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var property string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a stylesheet and dump the tree",
		Long: `Parse a stylesheet and dump its tree and diagnostics.

With --value, the input is parsed as the value of the given property
instead of as a stylesheet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			var doc *format.Document
			if property != "" {
				doc = format.FromResult(ast.ParseDeclarationValue(property, source, parser.WithFile(filename)))
			} else {
				doc = format.FromResult(ast.ParseStyleSheet(source, parser.WithFile(filename)))
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewASTJSONEncoder(os.Stdout)
			case "css":
				encoder = format.NewSourceEncoder(os.Stdout)
			case "diagnostics":
				encoder = format.NewLineEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, css, diagnostics)")
	cmd.Flags().StringVar(&property, "value", "", "parse the input as the value of this property")

	return cmd
}
