/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"sort"

	"github.com/sempr/psutil-go/internal/report"
	"github.com/sempr/psutil-go/pkg/models"
	"github.com/sempr/psutil-go/pkg/rawtext"
	"github.com/spf13/cobra"
)

var sanitizeArgs models.SanitizeArgs

// sanitizeCmd represents the sanitize command
var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [path]",
	Short: "Convert data files to LF line endings",
	Long: `Check every file under path (default ".") with one of the --ext
extensions. Files must be printable ASCII; CRLF and CR line endings are
converted to LF and a final newline is added. Nothing is written unless
--confirmed is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		if !cmd.Flags().Changed("ext") {
			sanitizeArgs.Exts = appConfig.Sanitize.Ext
		}

		exts := rawtext.NewExtSet(sanitizeArgs.Exts...)
		term := report.NewTerminal()
		list := exts.ToSlice()
		sort.Strings(list)
		fmt.Fprintf(term.Out, "   Exts: %v\n", list)

		stats, err := rawtext.Sanitize(root, rawtext.Options{
			Exts:      exts,
			Confirmed: sanitizeArgs.Confirmed,
			Report:    term.SanitizeFile,
		})
		if err != nil {
			return err
		}
		term.FinishSanitize(stats, sanitizeArgs.Confirmed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)

	sanitizeCmd.Flags().StringSliceVar(&sanitizeArgs.Exts, "ext", []string{"txt", "in", "out"}, "file extensions to check")
	sanitizeCmd.Flags().BoolVar(&sanitizeArgs.Confirmed, "confirmed", false, "rewrite files instead of only reporting")
}
