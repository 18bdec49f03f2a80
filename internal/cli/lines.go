package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"scriptscan/internal/adapter/fs"
	"scriptscan/internal/adapter/source"
)

var linesCmd = &cobra.Command{
	Use:   "lines <identifier>",
	Short: "Show how each line of a file is classified",
	Long: `Print every line of a file with its kind and comment flags. The identifier
is resolved against --dir; a query suffix such as "?v=2" is ignored.

Flags column: C = the line is entirely comment, S = the line touched a comment.

Examples:
  scriptscan lines app.js
  scriptscan lines "lib/widget.js?v=3" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runLines,
}

func init() {
	rootCmd.AddCommand(linesCmd)
}

type lineView struct {
	Number     int    `json:"number" yaml:"number"`
	Kind       string `json:"kind" yaml:"kind"`
	InComment  bool   `json:"in_comment" yaml:"in_comment"`
	SawComment bool   `json:"saw_comment" yaml:"saw_comment"`
	Text       string `json:"text" yaml:"text"`
}

func runLines(cmd *cobra.Command, args []string) error {
	src, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	var views []lineView
	for {
		line, ok := src.NextLine()
		if !ok {
			break
		}
		views = append(views, lineView{
			Number:     line.Number,
			Kind:       line.Kind.String(),
			InComment:  line.InComment,
			SawComment: line.SawComment,
			Text:       line.Text,
		})
	}
	if src.Unterminated() {
		logger.Warn("file ends inside a comment", "path", src.ID())
	}

	out := cmd.OutOrStdout()
	if done, err := writeStructured(out, GetConfig().Output.Format, views); done {
		return err
	}
	return printLines(out, views)
}

func printLines(w io.Writer, views []lineView) error {
	t := newTable("LINE", "KIND", "FLAGS", "TEXT")
	for _, v := range views {
		flags := ""
		if v.InComment {
			flags += "C"
		}
		if v.SawComment {
			flags += "S"
		}
		if flags == "" {
			flags = "-"
		}
		t.add(strconv.Itoa(v.Number), v.Kind, flags, cell(v.Text))
	}
	return t.render(w)
}

// openSource opens id relative to the root directory.
func openSource(id string) (*source.Source, error) {
	src, err := source.Open(fs.NewResolver(GetRootDir()), id)
	if err != nil {
		return nil, err
	}
	return src, nil
}

