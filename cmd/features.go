package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AreaLayer/elements-miniscript-ci/pkg/driver"
)

type declarations struct {
	Features []string         `json:"features" yaml:"features"`
	Examples []driver.Example `json:"examples" yaml:"examples"`
	Pins     []driver.PinRule `json:"pins" yaml:"pins"`
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Lists the declared features, examples and dependency pins",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		return writeDeclarations(cmd.OutOrStdout(), format, declarations{
			Features: driver.Features,
			Examples: driver.Examples,
			Pins:     driver.PinRules,
		})
	},
}

func writeDeclarations(w io.Writer, format string, decl declarations) error {
	return writeFormatted(w, format, decl, func(w io.Writer) error {
		return writeDeclarationsTable(w, decl)
	})
}

func writeDeclarationsTable(w io.Writer, decl declarations) error {
	fmt.Fprintf(w, "Features: %s\n\n", strings.Join(decl.Features, ", "))

	fmt.Fprintln(w, "Examples:")
	for _, example := range decl.Examples {
		features := "-"
		if len(example.Features) > 0 {
			features = strings.Join(example.Features, ", ")
		}

		note := ""
		if example.DiscardOutput {
			note = " (output discarded)"
		}
		fmt.Fprintf(w, " * %-20s %s%s\n", example.Name, features, note)
	}

	fmt.Fprintln(w, "\nPins:")
	for _, pin := range decl.Pins {
		fmt.Fprintf(w, " * %-10s %s = %s\n", pin.Pattern, pin.Package, pin.Version)
	}
	return nil
}

func init() {
	featuresCmd.Flags().StringP("format", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(featuresCmd)
}
