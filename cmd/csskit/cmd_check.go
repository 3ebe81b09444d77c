package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/parser"
	"github.com/dhamidi/csskit/format"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report parse diagnostics",
		Long: `Parse each stylesheet and print one line per diagnostic.

Exits with a non-zero status if any file has diagnostics.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("csskit.check")
			enc := format.NewLineEncoder(os.Stdout)
			total := 0
			for _, filename := range args {
				source, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				res := ast.ParseStyleSheet(source, parser.WithFile(filename))
				log.Debugf("%s: %d diagnostics", filename, len(res.Diagnostics))
				if err := enc.Encode(format.FromResult(res)); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				total += len(res.Diagnostics)
			}
			if total > 0 {
				return fmt.Errorf("%d diagnostics", total)
			}
			return nil
		},
	}
}
