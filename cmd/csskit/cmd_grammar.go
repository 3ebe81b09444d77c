package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/dhamidi/csskit/css/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "Keyword grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarListCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF keyword grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := grammar.LoadFile(args[0], startProduction)
			if err != nil {
				printErrors(err)
				return err
			}
			for _, name := range keywords.Names() {
				fmt.Printf("%s\t%d\n", name, keywords.Set(name).Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification")

	return cmd
}

func newGrammarListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [production]",
		Short: "List the built-in keyword sets, or the words of one set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords := grammar.Default()
			if len(args) == 0 {
				for _, name := range keywords.Names() {
					fmt.Printf("%s\t%d\n", name, keywords.Set(name).Len())
				}
				return nil
			}
			set := keywords.Set(args[0])
			if set == nil {
				return fmt.Errorf("unknown production: %s", args[0])
			}
			fmt.Println(strings.Join(set.Words(), "\n"))
			return nil
		},
	}
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		if u, ok := err.(interface{ Unwrap() error }); ok && u.Unwrap() != nil {
			v = reflect.ValueOf(u.Unwrap())
		}
	}
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(os.Stderr, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
