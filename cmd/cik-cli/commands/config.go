package commands

import (
	"os"
	"time"

	"vybory-backend/lib/configutil"
	"vybory-backend/lib/regions"
	"vybory-backend/lib/serviceutil"
)

type Config struct {
	// reference table of (key, canonical_name) pairs
	RegionsCsv string `json:"regions_csv"`
	// the merged collection of every election
	OutFile string `json:"out_file"`
	// one artifact per scraped election
	ArtifactDir string `json:"artifact_dir"`
	// documents that failed the sanity check land here
	DebugDir string `json:"debug_dir"`
	// raw request/response dumps when debug logging is on, empty disables
	RestyDumpDir string `json:"resty_dump_dir"`
	DelayMs      int    `json:"delay_ms"`
	TimeoutSec   int    `json:"timeout_sec"`
	RetryCount   int    `json:"retry_count"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	if cfg.RegionsCsv == "" {
		cfg.RegionsCsv = "vybory_regions_key.csv"
	}
	if cfg.OutFile == "" {
		cfg.OutFile = "data/president_regions.json"
	}
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = "data/scraped"
	}
	if cfg.DebugDir == "" {
		cfg.DebugDir = "data/scraped/debug"
	}
	if cfg.DelayMs == 0 {
		cfg.DelayMs = 1500
	}
	if cfg.TimeoutSec == 0 {
		cfg.TimeoutSec = 20
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 2
	}
	return cfg
}

func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// loadResolver builds the region resolver from the reference table. A
// missing table is not fatal, resolution falls back to the manual
// override table alone with reduced coverage.
func loadResolver(c Config) *regions.Resolver {
	refs, err := regions.LoadReference(c.RegionsCsv)
	if err != nil {
		refs = nil
	}
	return regions.NewResolver(refs)
}
