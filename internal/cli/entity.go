package cli

import (
	"github.com/spf13/cobra"
)

var entityJSON bool

var entityCmd = &cobra.Command{
	Use:   "entity <id>",
	Short: "Show one recommended place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ready(); err != nil {
			return err
		}
		e, err := concierge.Entity(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if entityJSON {
			return writeJSON(cmd.OutOrStdout(), e)
		}
		renderEntity(cmd.OutOrStdout(), e)
		return nil
	},
}

func init() {
	entityCmd.Flags().BoolVar(&entityJSON, "json", false, "output the entity as JSON")
	rootCmd.AddCommand(entityCmd)
}
