package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"scriptscan/internal/usecase"
)

var headerCmd = &cobra.Command{
	Use:   "header <identifier>",
	Short: "Show the header comment and its directives",
	Long: `Print the comment text that precedes the first code line of a file, and
the targets of header lines starting with the configured directive keyword
(scan.directive, "using" by default).

Example:
  /* using "lib/jquery.js" */   ->   lib/jquery.js`,
	Args: cobra.ExactArgs(1),
	RunE: runHeader,
}

func init() {
	rootCmd.AddCommand(headerCmd)
}

func runHeader(cmd *cobra.Command, args []string) error {
	src, err := openSource(args[0])
	if err != nil {
		return err
	}

	report := usecase.ScanSource(src, GetConfig().Scan.Directive)

	out := cmd.OutOrStdout()
	view := struct {
		Path       string   `json:"path" yaml:"path"`
		Header     []string `json:"header" yaml:"header"`
		Directives []string `json:"directives" yaml:"directives"`
	}{report.Path, report.Header, report.Directives}
	if done, err := writeStructured(out, GetConfig().Output.Format, view); done {
		return err
	}

	for _, line := range report.Header {
		fmt.Fprintln(out, cell(line))
	}
	if len(report.Directives) > 0 {
		fmt.Fprintln(out)
		for _, d := range report.Directives {
			fmt.Fprintf(out, "%s %s\n", GetConfig().Scan.Directive, d)
		}
	}
	return nil
}
