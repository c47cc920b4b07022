package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"prepquiz-service/internal/config"
)

// NewDailyCmd prints the current daily challenge, creating it if needed.
func NewDailyCmd(configPath *string) *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print today's daily challenge as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer rt.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if statusOnly {
				return enc.Encode(rt.daily.GetDailyStatus(cmd.Context()))
			}
			today, err := rt.daily.GetDailyToday(cmd.Context())
			if err != nil {
				return err
			}
			return enc.Encode(today)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "print only the completion status")
	return cmd
}
