/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sempr/psutil-go/internal/client"
	"github.com/sempr/psutil-go/internal/judge"
	"github.com/sempr/psutil-go/internal/report"
	"github.com/sempr/psutil-go/internal/sandbox"
	"github.com/sempr/psutil-go/pkg/constants"
	"github.com/sempr/psutil-go/pkg/models"
	"github.com/spf13/cobra"
)

var evalArgs models.EvalArgs

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <solution> <data_dir>",
	Short: "Run a solution against every test case of a directory",
	Long: `Run a solution against every input/output pair found under data_dir.

Inputs are files whose names contain --in, outputs are files whose names
contain --out. Both lists are sorted and paired by position. Each case runs
with a CPU time limit of ceil(--time) seconds, a wall clock limit of --time
seconds, an optional address space limit and a single process.`,
	Args: cobra.ExactArgs(2),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg := appConfig.Eval
	flags := cmd.Flags()
	if !flags.Changed("in") {
		evalArgs.In = cfg.In
	}
	if !flags.Changed("out") {
		evalArgs.Out = cfg.Out
	}
	if !flags.Changed("time") {
		evalArgs.Time = cfg.Time
	}
	if !flags.Changed("memory") {
		evalArgs.Memory = cfg.Memory
	}
	if !flags.Changed("loose") {
		evalArgs.Loose = cfg.Loose
	}

	if evalArgs.Memory > constants.MaxMemoryMB {
		return fmt.Errorf("provide memory in (MB), at most %d", constants.MaxMemoryMB)
	}
	if evalArgs.Time <= 0 {
		return fmt.Errorf("time limit must be positive, got %v", evalArgs.Time)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate limit helper: %w", err)
	}
	runner := judge.NewRunner(sandbox.New(exe))
	runner.Logger = slog.Default()

	var reporter client.Reporter = report.NewTerminal()
	if evalArgs.JSON {
		reporter = report.NewJSON()
	}

	ev := client.NewEvaluator(runner, client.NewResolver(appConfig.Launchers()), reporter)
	_, err = ev.Evaluate(cmd.Context(), client.EvalOptions{
		Solution:  args[0],
		DataDir:   args[1],
		InFilter:  evalArgs.In,
		OutFilter: evalArgs.Out,
		Limit:     sandbox.Limitation{TimeSec: evalArgs.Time, MemoryMB: evalArgs.Memory},
		IgnoreCR:  evalArgs.Loose,
	})
	return err
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalArgs.In, "in", constants.DefaultInputFilter, "substring of input file names")
	evalCmd.Flags().StringVar(&evalArgs.Out, "out", constants.DefaultOutputFilter, "substring of output file names")
	evalCmd.Flags().Float64VarP(&evalArgs.Time, "time", "t", constants.DefaultTimeLimit, "time limit in seconds")
	evalCmd.Flags().Uint64VarP(&evalArgs.Memory, "memory", "m", 0, "memory limit in MB, 0 for none")
	evalCmd.Flags().BoolVar(&evalArgs.Loose, "loose", false, "ignore carriage returns when comparing")
	evalCmd.Flags().BoolVar(&evalArgs.JSON, "json", false, "print a JSON summary instead of text")
}
