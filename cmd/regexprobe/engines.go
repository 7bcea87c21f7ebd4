package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/regexprobe/engine"
)

type engineRow struct {
	Name       string `json:"name"`
	LinearTime bool   `json:"linear_time"`
	Default    bool   `json:"default"`
}

func newEnginesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "engines",
		Short: "List the available regex engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			cliLogger(cmd, cfg)

			rows := make([]engineRow, 0)
			for _, name := range engine.Names() {
				eng, err := engine.Lookup(name)
				if err != nil {
					return err
				}
				rows = append(rows, engineRow{Name: name, LinearTime: eng.LinearTime(), Default: name == cfg.Engine.Name})
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLINEAR\tDEFAULT")
			for _, r := range rows {
				def := ""
				if r.Default {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%t\t%s\n", r.Name, r.LinearTime, def)
			}
			return tw.Flush()
		},
	}
	c.Flags().Bool("json", false, "Print as JSON")
	return c
}
