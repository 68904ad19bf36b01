/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sempr/psutil-go/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	appConfig = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "psutil",
	Short: "Problem setting utilities",
	Long: `psutil evaluates a solution against a directory of test data under
CPU time, memory and process limits, runs validators over input files and
normalizes line endings of data files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path(cfgFile)
		cfg, err := config.Load(path, cfgFile != "")
		if err != nil {
			return err
		}
		appConfig = cfg

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		Init(level)
		slog.Debug("config loaded", "path", path)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $PSUTIL_CONFIG or <config dir>/psutil/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
