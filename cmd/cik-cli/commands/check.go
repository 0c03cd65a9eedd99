package commands

import (
	"log/slog"

	"vybory-backend/lib/scrapers/cik"
	"vybory-backend/lib/serviceutil"
	"vybory-backend/services/elections"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks that the portal is reachable, without scraping anything.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		client := cik.NewClient(cik.ClientOptions{
			Timeout:    cfg.Timeout(),
			RetryCount: cfg.RetryCount,
		})
		svc := elections.NewService(elections.ServiceOptions{
			Client: client,
		})

		err := svc.CheckReachable(cmd.Context())
		if err != nil {
			serviceutil.Fatal("portal unreachable", err)
		}
		slog.Info("portal reachable")
	},
}
