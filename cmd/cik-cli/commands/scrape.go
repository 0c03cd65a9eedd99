package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vybory-backend/cmd/cik-cli/utils"
	"vybory-backend/lib/restyutil"
	"vybory-backend/lib/scrapers/cik"
	"vybory-backend/lib/serviceutil"
	"vybory-backend/lib/telemetry"
	"vybory-backend/services/elections"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeAll *bool

func init() {
	scrapeAll = scrapeCmd.Flags().Bool("all", false, "Scrape every known election.")
	rootCmd.AddCommand(scrapeCmd)
}

func selectTargets(args []string, all bool) ([]elections.Election, error) {
	keys := args
	if all {
		keys = elections.Keys()
	} else if len(keys) == 0 {
		keys = elections.DefaultKeys()
	}

	var targets []elections.Election
	var invalid []string
	for _, key := range keys {
		el, ok := elections.Lookup(key)
		if !ok {
			invalid = append(invalid, key)
			continue
		}
		targets = append(targets, el)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf(
			"unknown election keys: %s (available: %s)",
			strings.Join(invalid, ", "),
			strings.Join(elections.Keys(), ", "),
		)
	}
	return targets, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [election keys...] [--all]",
	Short: "Scrapes election results and merges them into the collection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// key validation is a usage error, it must fail before any
		// network activity begins
		targets, err := selectTargets(args, *scrapeAll)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		cfg := readConfig()
		ctx := cmd.Context()

		resolver := loadResolver(cfg)
		slog.Info("region reference loaded", "entries", resolver.RefCount())

		client := cik.NewClient(cik.ClientOptions{
			Timeout:    cfg.Timeout(),
			RetryCount: cfg.RetryCount,
		})
		if cfg.RestyDumpDir != "" {
			client.SetInstrumentOutput(restyutil.NewFilesystemOutput(cfg.RestyDumpDir))
		}

		svc := elections.NewService(elections.ServiceOptions{
			Client:      client,
			Resolver:    resolver,
			Delay:       cfg.Delay(),
			ArtifactDir: cfg.ArtifactDir,
			Debug:       restyutil.NewFilesystemOutput(cfg.DebugDir),
		})

		slog.Info("checking portal connectivity")
		if err := svc.CheckReachable(ctx); err != nil {
			serviceutil.Fatal("portal unreachable", err)
		}

		telemetry.InstrumentPerfStats(ctx)

		t1 := time.Now()
		scraped, statuses := svc.ScrapeAll(ctx, targets)
		t2 := time.Now()

		t := utils.NewTable()
		t.AppendHeader(table.Row{"election", "status", "candidates", "regions"})
		for _, st := range statuses {
			status := "ok"
			if st.Err != nil {
				status = st.Err.Error()
			}
			t.AppendRow(table.Row{st.Key, status, st.Candidates, st.Regions})
		}
		t.Render()

		slog.Info(
			"batch finished",
			"succeeded", len(scraped),
			"requested", len(targets),
			"seconds", t2.Sub(t1).Seconds(),
		)

		if len(scraped) > 0 {
			err := svc.UpdateCollection(ctx, cfg.OutFile, scraped)
			if err != nil {
				serviceutil.Fatal("failed to update collection", err)
			}
		}
		return nil
	},
}
