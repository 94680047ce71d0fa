package scrape

import (
	"time"

	"hr-alerter/internal/config"
	"hr-alerter/internal/scrape/nofluff"
	"hr-alerter/internal/scrape/pracuj"
	"hr-alerter/internal/scrape/types"
	"hr-alerter/internal/scrape/util"
)

// Source is one enabled board plus what to ask it for.
type Source struct {
	Fetcher  types.Fetcher
	Keywords []string
	MaxPages int
	Timeout  time.Duration
}

// Sources builds the enabled boards from cfg. Both share one limiter so
// pacing is per host across the run.
func Sources(cfg config.Config) []Source {
	limiter := util.NewHostLimiter(cfg.Sources.RequestsPerSecond, cfg.Sources.Burst)
	timeout := time.Duration(cfg.Sources.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	var out []Source
	if cfg.Sources.NoFluff.Enabled {
		out = append(out, Source{
			Fetcher:  nofluff.New(nofluff.Config{}, limiter),
			Keywords: cfg.Filters.HRTitleKeywords,
			MaxPages: 1,
			Timeout:  timeout,
		})
	}
	if cfg.Sources.Pracuj.Enabled {
		out = append(out, Source{
			Fetcher:  pracuj.New(pracuj.Config{Browser: cfg.Sources.Pracuj.UseBrowser}, limiter),
			Keywords: cfg.Sources.Pracuj.Keywords,
			MaxPages: cfg.Sources.Pracuj.MaxPages,
			Timeout:  timeout,
		})
	}
	return out
}
