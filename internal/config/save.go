package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Sources.Pracuj.Enabled && cfg.Sources.Pracuj.MaxPages < 1 {
		errs = append(errs, "sources.pracuj.max_pages must be >= 1")
	}
	if cfg.Sources.RequestsPerSecond <= 0 {
		errs = append(errs, "sources.requests_per_second must be > 0")
	}
	if cfg.Scoring.CandidateWindowDays < 1 {
		errs = append(errs, "scoring.candidate_window_days must be >= 1")
	}
	if cfg.Scoring.CandidateMinPostings < 1 {
		errs = append(errs, "scoring.candidate_min_postings must be >= 1")
	}
	if cfg.SMTP.Port < 0 || cfg.SMTP.Port > 65535 {
		errs = append(errs, "smtp.port must be 0..65535")
	}

	checkTerms := func(name string, terms []string) {
		for i, t := range terms {
			if strings.TrimSpace(t) == "" {
				errs = append(errs, fmt.Sprintf("%s[%d] cannot be empty", name, i))
			}
		}
	}
	checkTerms("scoring.keywords.target_titles", cfg.Scoring.Keywords.TargetTitles)
	checkTerms("scoring.keywords.wellbeing", cfg.Scoring.Keywords.Wellbeing)
	checkTerms("scoring.keywords.eap", cfg.Scoring.Keywords.EAP)
	checkTerms("scoring.keywords.culture", cfg.Scoring.Keywords.Culture)

	if cfg.Schedule.Enabled {
		for name, spec := range map[string]string{"schedule.daily": cfg.Schedule.Daily, "schedule.weekly": cfg.Schedule.Weekly} {
			if spec == "" {
				continue
			}
			if _, err := cronParser.Parse(spec); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
