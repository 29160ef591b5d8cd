package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bazi-fengshui/bazi"
)

// batchFile is the YAML input of the batch command
type batchFile struct {
	Requests []bazi.Request `yaml:"requests"`
}

type batchFlags struct {
	file     string
	parallel int
	model    string
	format   string
}

func newBatchCmd() *cobra.Command {
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every birth date listed in a YAML file",
		Example: `  bazi batch --file people.yaml --parallel 4

  # people.yaml
  requests:
    - birthDate: "1990-01-15"
      birthTime: "14:00"
      directional: true`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reqs, err := loadBatch(flags.file)
			if err != nil {
				return err
			}
			engine, err := newEngine(flags.model)
			if err != nil {
				return err
			}
			results, err := bazi.AnalyzeBatch(cmd.Context(), engine, reqs, flags.parallel)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), flags.format, results); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d requests failed\n", failed, len(results))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.file, "file", "", "YAML file with a requests list (required)")
	f.IntVar(&flags.parallel, "parallel", runtime.NumCPU(), "Maximum concurrent analyses")
	f.StringVar(&flags.model, "model", "rich", "Analysis model: rich or simple")
	f.StringVarP(&flags.format, "format", "f", formatJSON, "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadBatch(path string) ([]bazi.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	if len(bf.Requests) == 0 {
		return nil, fmt.Errorf("batch file %s has no requests", path)
	}
	return bf.Requests, nil
}
