package cli

import (
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-concierge/internal/app/client"
)

var preloadForce bool

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Warm the session cache with the default lists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ready(); err != nil {
			return err
		}
		rep := client.NewPreloader(concierge, log).PreloadAll(cmd.Context(), preloadForce)
		for _, d := range rep.Loaded {
			printf(cmd, "loaded %s\n", d)
		}
		for _, d := range rep.Failed {
			printf(cmd, "failed %s\n", d)
		}
		return nil
	},
}

func init() {
	preloadCmd.Flags().BoolVar(&preloadForce, "force", false, "refetch lists that are already cached")
	rootCmd.AddCommand(preloadCmd)
}
