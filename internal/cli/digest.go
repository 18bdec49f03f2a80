package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest <identifier>...",
	Short: "Print the content digest of files",
	Long: `Print the MD5 digest of each file's full text, one per line, in the
same layout as md5sum. Files that cannot be resolved are reported and make
the command fail after the rest have been printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

type digestView struct {
	Path   string `json:"path" yaml:"path"`
	Digest string `json:"digest" yaml:"digest"`
}

func runDigest(cmd *cobra.Command, args []string) error {
	var (
		views  []digestView
		failed int
	)
	for _, id := range args {
		src, err := openSource(id)
		if err != nil {
			logger.Error("cannot digest", "identifier", id, "err", err)
			failed++
			continue
		}
		views = append(views, digestView{Path: src.ID(), Digest: src.Digest()})
		src.Close()
	}

	out := cmd.OutOrStdout()
	done, err := writeStructured(out, GetConfig().Output.Format, views)
	if err != nil {
		return err
	}
	if !done {
		for _, v := range views {
			fmt.Fprintf(out, "%s  %s\n", v.Digest, v.Path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d identifier(s) could not be resolved", failed, len(args))
	}
	return nil
}
