package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "HR_ALERTER"

// Env holds the HR_ALERTER_* overrides (DataDir -> HR_ALERTER_DATA_DIR).
// No envconfig tags: a tag also makes the bare name (PORT) a fallback.
type Env struct {
	DB             string
	DataDir        string `split_words:"true"`
	LogLevel       string `split_words:"true"`
	RecipientEmail string `split_words:"true"`
	Port           int
}

// MailEnv holds the unprefixed SMTP variables.
type MailEnv struct {
	Email     string `envconfig:"SMTP_EMAIL"`
	Password  string `envconfig:"SMTP_PASSWORD"`
	Host      string `envconfig:"SMTP_HOST"`
	Port      int    `envconfig:"SMTP_PORT"`
	Recipient string `envconfig:"RECIPIENT_EMAIL"`
}

// LoadDotEnv loads path (".env" when empty) if it exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func LoadEnv() (Env, MailEnv, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return Env{}, MailEnv{}, err
	}
	var m MailEnv
	if err := envconfig.Process("", &m); err != nil {
		return Env{}, MailEnv{}, err
	}
	return e, m, nil
}

// ApplyEnv overlays non-empty environment values onto cfg.
func ApplyEnv(cfg *Config, e Env, m MailEnv) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}

	set(&cfg.App.DBPath, e.DB)
	set(&cfg.App.DataDir, e.DataDir)
	set(&cfg.App.LogLevel, e.LogLevel)
	if e.Port > 0 {
		cfg.App.Port = e.Port
	}

	set(&cfg.SMTP.Username, m.Email)
	set(&cfg.SMTP.Host, m.Host)
	if m.Port > 0 {
		cfg.SMTP.Port = m.Port
	}
	set(&cfg.Report.Recipient, m.Recipient)
	set(&cfg.Report.Recipient, e.RecipientEmail)
}
