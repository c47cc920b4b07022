package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"prepquiz-service/internal/config"
)

// NewAttemptsCmd prints the newest entries of the attempt history.
func NewAttemptsCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Print recent quiz attempts as JSON",
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

			attempts, err := rt.attempts.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(attempts)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of attempts to print")
	return cmd
}
