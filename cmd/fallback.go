package main

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/locseed/internal/model"
	"github.com/sells-group/locseed/internal/source"
)

var fallbackCmd = &cobra.Command{
	Use:   "fallback",
	Short: "Print the built-in city catalog as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCatalog(cmd.OutOrStdout(), source.Fallback())
	},
}

func init() {
	rootCmd.AddCommand(fallbackCmd)
}

func writeCatalog(out io.Writer, records []model.LocationRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(model.Columns); err != nil {
		return eris.Wrap(err, "fallback: write header")
	}
	for _, rec := range records {
		row := rec.Row()
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i], _ = v.(string)
		}
		if err := w.Write(fields); err != nil {
			return eris.Wrap(err, "fallback: write record")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "fallback: flush")
}
