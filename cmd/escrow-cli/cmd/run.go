package cmd

import (
	"fmt"
	"io"

	"escrow-core/internal/campaign"
	"escrow-core/internal/scenario"

	"github.com/spf13/cobra"
)

var verbose bool

// runCmd 执行场景文件
var runCmd = &cobra.Command{
	Use:   "run <file...>",
	Short: "执行一个或多个场景文件",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			if err := runFile(out, path); err != nil {
				fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "PASS %s\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
		}
		return nil
	},
}

func runFile(out io.Writer, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	report, err := scenario.Run(sc)
	if verbose && report != nil {
		printReport(out, report)
	}
	return err
}

func printReport(out io.Writer, report *scenario.Report) {
	fmt.Fprintf(out, "scenario %q\n", report.Name)
	for _, s := range report.Steps {
		line := fmt.Sprintf("  #%-3d %-8s", s.Index, s.Action)
		switch {
		case s.Err != nil:
			line += " -> " + campaign.ErrorName(s.Err)
		case s.Settlement != nil:
			line += fmt.Sprintf(" -> %s %s to %s", s.Settlement.Kind, s.Settlement.Amount, s.Settlement.To.Hex())
		}
		fmt.Fprintln(out, line)
	}
}

func init() {
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "打印每一步的结果")
	rootCmd.AddCommand(runCmd)
}
