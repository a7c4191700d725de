package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/locseed/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured sources in priority order",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("sources"); err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		return printSources(cmd.OutOrStdout(), cfg.Sources, output)
	},
}

func init() {
	sourcesCmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	rootCmd.AddCommand(sourcesCmd)
}

func printSources(out io.Writer, descs []source.Descriptor, output string) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"sources": descs}); err != nil {
			return eris.Wrap(err, "sources: encode yaml")
		}
		return enc.Close()
	case "text", "":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tNAME\tFORMAT\tCHARSET\tURL")
		for i, d := range descs {
			charset := d.Charset
			if charset == "" {
				charset = "utf-8"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, d.Name, d.Format, charset, d.URL)
		}
		return w.Flush()
	default:
		return eris.Errorf("sources: unknown output %q (valid: text, yaml)", output)
	}
}
