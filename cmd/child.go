/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/sempr/psutil-go/internal/sandbox"
	"github.com/spf13/cobra"
)

// childCmd represents the limit-exec command. The evaluator re-executes this
// binary with it so limits are applied between fork and exec.
var childCmd = &cobra.Command{
	Use:                sandbox.HelperCommand + " [--time SEC] [--memory MB] -- program [args...]",
	Short:              "Apply resource limits and exec a program",
	Hidden:             true,
	DisableFlagParsing: true,
	// no config or logging: stdout belongs to the program
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(sandbox.ChildMain(args))
	},
}

func init() {
	rootCmd.AddCommand(childCmd)
}
