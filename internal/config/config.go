package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"hr-alerter/internal/rank"
)

type Config struct {
	App struct {
		DataDir   string `yaml:"data_dir"`
		DBPath    string `yaml:"db_path"`
		Port      int    `yaml:"port"`
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"app"`

	Sources struct {
		NoFluff struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"nofluff"`
		Pracuj struct {
			Enabled    bool     `yaml:"enabled"`
			Keywords   []string `yaml:"keywords"`
			MaxPages   int      `yaml:"max_pages"`
			UseBrowser bool     `yaml:"use_browser"`
		} `yaml:"pracuj"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
	} `yaml:"sources"`

	Filters struct {
		// HRTitleKeywords extend the built-in NoFluffJobs title filter.
		HRTitleKeywords []string `yaml:"hr_title_keywords"`
		LocationsBlock  []string `yaml:"locations_block"`
		TitleBlock      []string `yaml:"title_block"`
	} `yaml:"filters"`

	Scoring struct {
		CandidateWindowDays  int           `yaml:"candidate_window_days"`
		CandidateMinPostings int           `yaml:"candidate_min_postings"`
		Keywords             rank.Keywords `yaml:"keywords"`
	} `yaml:"scoring"`

	Report struct {
		Recipient     string `yaml:"recipient"`
		SubjectSuffix string `yaml:"subject_suffix"`
	} `yaml:"report"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
	} `yaml:"smtp"`

	Schedule struct {
		Enabled bool   `yaml:"enabled"`
		Daily   string `yaml:"daily"`
		Weekly  string `yaml:"weekly"`
	} `yaml:"schedule"`
}

// Default is the configuration used when no file sets a value.
func Default() Config {
	var c Config
	c.App.DataDir = DefaultDataDir()
	c.App.Port = 8765
	c.App.LogLevel = "info"
	c.App.LogFormat = "pretty"

	c.Sources.NoFluff.Enabled = true
	c.Sources.Pracuj.Enabled = true
	c.Sources.Pracuj.Keywords = []string{"HR"}
	c.Sources.Pracuj.MaxPages = 1
	c.Sources.RequestsPerSecond = 0.5
	c.Sources.Burst = 1
	c.Sources.TimeoutSeconds = 300

	c.Scoring.CandidateWindowDays = 30
	c.Scoring.CandidateMinPostings = 2
	c.Scoring.Keywords = rank.DefaultKeywords()

	c.Report.SubjectSuffix = "Polish Job Market Alerter"

	c.SMTP.Host = "smtp.gmail.com"
	c.SMTP.Port = 465

	c.Schedule.Daily = "0 7 * * *"
	c.Schedule.Weekly = "0 8 * * 1"
	return c
}

// Load reads path on top of Default, so a partial file keeps the
// defaults for everything it leaves out.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
