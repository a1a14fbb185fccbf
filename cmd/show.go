package cmd

import (
	"github.com/spf13/cobra"

	"github.com/breakerb0y/aaropa-calamares/internal/domain"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [files...]",
		Short: "Print the options tree and its default selection",
		Long:  showLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			load, err := loadArgs(args)
			if err != nil {
				return err
			}

			return workflow.Show(cmd.Context(), domain.ShowArgs{LoadArgs: load})
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
