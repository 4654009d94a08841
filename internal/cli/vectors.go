// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/db47h/bnnbench/vectors"
	"github.com/spf13/cobra"
)

// NewVectorsCommand creates the vectors command.
func NewVectorsCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Print the test vector table",
		Long: `Print the test vector table with the names of the features set in each
input, from MSB to LSB: ` + strings.Join(vectors.Features[:], ", ") + `.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(file)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load vectors", err)
			}
			if err := writeTable(cmd.OutOrStdout(), rootOpts.Format, table); err != nil {
				return WrapExitError(ExitCommandError, "failed to write vectors", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "vectors", "", "test vector file (default: built-in patient table)")
	return cmd
}

// VectorJSON is the JSON form of a vectors.Vector.
type VectorJSON struct {
	Index    int      `json:"index"`
	Name     string   `json:"name,omitempty"`
	Input    string   `json:"input"`
	Expected uint8    `json:"expected"`
	Features []string `json:"features"`
}

func writeTable(w io.Writer, format string, table vectors.Table) error {
	if format == "json" {
		out := make([]VectorJSON, 0, len(table))
		for i, v := range table {
			fs := v.Flags()
			if fs == nil {
				fs = []string{}
			}
			out = append(out, VectorJSON{Index: i, Name: v.Name, Input: v.Bin(), Expected: v.Expected, Features: fs})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for i, v := range table {
		fs := "-"
		if f := v.Flags(); len(f) > 0 {
			fs = strings.Join(f, ",")
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t[%s]\n", i, v, fs); err != nil {
			return err
		}
	}
	return nil
}
