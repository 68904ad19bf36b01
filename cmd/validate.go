/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/sempr/psutil-go/internal/client"
	"github.com/sempr/psutil-go/internal/report"
	"github.com/sempr/psutil-go/pkg/models"
	"github.com/spf13/cobra"
)

var validateArgs models.ValidateArgs

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <validator> <path>...",
	Short: "Feed input files to a validator",
	Long: `Run the validator once per file with the file on stdin. Directories are
walked recursively. Only files whose name matches --filter are validated; a
non-zero exit of the validator counts as an error.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("filter") {
			validateArgs.Filter = appConfig.Validate.Filter
		}

		var reporter client.Reporter = report.NewTerminal()
		if validateArgs.JSON {
			reporter = report.NewJSON()
		}

		v := client.NewValidator(client.NewResolver(appConfig.Launchers()), reporter)
		_, err := v.Validate(cmd.Context(), client.ValidateOptions{
			Validator: args[0],
			Paths:     args[1:],
			Filter:    validateArgs.Filter,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateArgs.Filter, "filter", "f", ".*", "regex matched against file names")
	validateCmd.Flags().BoolVar(&validateArgs.JSON, "json", false, "print a JSON summary instead of text")
}
