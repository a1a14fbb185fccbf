package cmd

import (
	"github.com/spf13/cobra"

	"github.com/breakerb0y/aaropa-calamares/internal/domain"
)

var applyCheckFlags []string
var applyUncheckFlags []string
var applySetFlags map[string]string
var applyDryRunFlag bool

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [files...]",
		Short: "Select options without a terminal and store them",
		Long:  applyLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			load, err := loadArgs(args)
			if err != nil {
				return err
			}

			return workflow.Apply(cmd.Context(), domain.ApplyArgs{
				LoadArgs: load,
				Check:    applyCheckFlags,
				Uncheck:  applyUncheckFlags,
				Set:      applySetFlags,
				DryRun:   applyDryRunFlag,
			})
		},
	}

	configureApplyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func configureApplyFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&applyCheckFlags, "check", "c", nil, "check the group or option with this name (can be repeated)")
	cmd.Flags().StringArrayVarP(&applyUncheckFlags, "uncheck", "u", nil, "uncheck the group or option with this name (can be repeated)")
	cmd.Flags().StringToStringVar(&applySetFlags, "set", nil, "set the input of an editable option as name=value (can be repeated)")
	cmd.Flags().BoolVarP(&applyDryRunFlag, "dry-run", "n", false, "print the storage change instead of saving it")
}
