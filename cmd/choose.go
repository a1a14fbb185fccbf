package cmd

import (
	"github.com/spf13/cobra"

	"github.com/breakerb0y/aaropa-calamares/internal/domain"
)

// chooseCmd represents the choose command.
var chooseCmd = newChooseCmd()

func newChooseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "choose [files...]",
		Short: "Pick options interactively and store them",
		Long:  chooseLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			load, err := loadArgs(args)
			if err != nil {
				return err
			}

			return workflow.Choose(cmd.Context(), domain.ChooseArgs{LoadArgs: load})
		},
	}
}

func init() {
	rootCmd.AddCommand(chooseCmd)
}
