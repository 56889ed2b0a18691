package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-concierge/internal/app/client"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

func newRecommendCmd(d models.Domain, use, short string) *cobra.Command {
	var (
		asJSON  bool
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   use + " [query]",
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ready(); err != nil {
				return err
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				query = client.DefaultQuery(d)
			}

			fetch := concierge.Recommendations
			if refresh {
				fetch = concierge.Refresh
			}
			res, err := fetch(cmd.Context(), d, query)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printf(cmd, "%s\n\n", res.DisplayText)
			renderEntities(cmd.OutOrStdout(), res.Entities)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the session cache")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		newRecommendCmd(models.DomainDining, "dining", "Get restaurant recommendations"),
		newRecommendCmd(models.DomainAttractions, "attractions", "Get nearby attractions"),
	)
}
