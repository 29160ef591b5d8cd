package main

import (
	"time"

	"github.com/spf13/cobra"

	"bazi-fengshui/bazi"
)

type dailyFlags struct {
	date   string
	time   string
	target string
	model  string
	format string
}

// now is replaced in tests
var now = time.Now

func newDailyCmd() *cobra.Command {
	var flags dailyFlags
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Recommend a color for a day",
		Long:  "daily compares the day stem of --target (default today) with the\nlucky and unlucky elements of the birth chart.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := newEngine(flags.model)
			if err != nil {
				return err
			}
			a, err := engine.Analyze(bazi.Request{BirthDate: flags.date, BirthTime: flags.time})
			if err != nil {
				return err
			}
			rec, err := engine.Daily(a, flags.target, now())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.format, rec)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.date, "date", "", "Birth date YYYY-MM-DD (required)")
	f.StringVar(&flags.time, "time", "", "Birth time HH or HH:MM")
	f.StringVar(&flags.target, "target", "", "Day to check, YYYY-MM-DD")
	f.StringVar(&flags.model, "model", "rich", "Analysis model: rich or simple")
	f.StringVarP(&flags.format, "format", "f", formatJSON, "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
