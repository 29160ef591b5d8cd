package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bazi",
		Short: "BaZi four pillars readings and Feng Shui directions",
		Long:  "bazi computes the four pillars chart of a birth date, the day master's\nstrength, lucky colors and favorable directions.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	root.AddCommand(newChartCmd())
	root.AddCommand(newDailyCmd())
	root.AddCommand(newBatchCmd())
	root.Version = version
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
