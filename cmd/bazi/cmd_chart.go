package main

import (
	"github.com/spf13/cobra"

	"bazi-fengshui/bazi"
)

type chartFlags struct {
	date        string
	time        string
	directional bool
	model       string
	format      string
}

func newChartCmd() *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Analyze a birth date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := newEngine(flags.model)
			if err != nil {
				return err
			}
			a, err := engine.Analyze(bazi.Request{
				BirthDate:   flags.date,
				BirthTime:   flags.time,
				Directional: flags.directional,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.format, a)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.date, "date", "", "Birth date YYYY-MM-DD (required)")
	f.StringVar(&flags.time, "time", "", "Birth time HH or HH:MM")
	f.BoolVar(&flags.directional, "directions", false, "Include Feng Shui directions")
	f.StringVar(&flags.model, "model", "rich", "Analysis model: rich or simple")
	f.StringVarP(&flags.format, "format", "f", formatJSON, "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
