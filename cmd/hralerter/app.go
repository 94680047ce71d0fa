package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hr-alerter/internal/config"
	"hr-alerter/internal/events"
	"hr-alerter/internal/logging"
	"hr-alerter/internal/pipeline"
	"hr-alerter/internal/report"
	"hr-alerter/internal/secrets"
	"hr-alerter/internal/store"
)

// defaultConfigPath is copied into the data dir on first run.
const defaultConfigPath = "config/config.yml"

type app struct {
	flags struct {
		db        string
		config    string
		dataDir   string
		envFile   string
		logLevel  string
		logFormat string
	}

	cfgPath string
	cfgVal  atomic.Value // config.Config
	mail    config.MailEnv
	db      *store.DB
}

// init resolves configuration in order: defaults, config file,
// environment, flags.
func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.flags.envFile); err != nil {
		return fmt.Errorf("load %s: %w", a.flags.envFile, err)
	}
	env, mail, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	a.mail = mail

	dataDir := firstNonEmpty(a.flags.dataDir, env.DataDir, config.DefaultDataDir())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	a.cfgPath = a.flags.config
	if a.cfgPath == "" {
		if a.cfgPath, err = config.EnsureUserConfig(dataDir, defaultConfigPath); err != nil {
			return fmt.Errorf("config bootstrap failed: %w", err)
		}
	}

	cfg, err := a.loadConfig(env)
	if err != nil {
		return err
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = dataDir
	}

	logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat, cmd.ErrOrStderr())

	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Warn().Str("config", a.cfgPath).Msg(w)
	}
	if !vr.OK() {
		return fmt.Errorf("invalid config %s: %s", a.cfgPath, strings.Join(vr.Errors, "; "))
	}
	a.cfgVal.Store(cfg)
	return nil
}

func (a *app) loadConfig(env config.Env) (config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", a.cfgPath, err)
	}
	config.ApplyEnv(&cfg, env, a.mail)

	if a.flags.dataDir != "" {
		cfg.App.DataDir = a.flags.dataDir
	}
	if a.flags.db != "" {
		cfg.App.DBPath = a.flags.db
	}
	if a.flags.logLevel != "" {
		cfg.App.LogLevel = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		cfg.App.LogFormat = a.flags.logFormat
	}
	return cfg, nil
}

// reload re-reads the config file, keeping env and flag overrides.
func (a *app) reload() (config.Config, error) {
	env, _, err := config.LoadEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := a.loadConfig(env)
	if err != nil {
		return cfg, err
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = a.cfg().App.DataDir
	}
	cfg, _ = config.NormalizeAndValidate(cfg)
	return cfg, nil
}

func (a *app) cfg() config.Config {
	return a.cfgVal.Load().(config.Config)
}

func (a *app) store() (*store.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	path := a.cfg().DBPath()
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	log.Debug().Str("db", path).Msg("database opened")
	a.db = db
	return db, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

// mailer builds the SMTP sender. Missing credentials are reported when
// sending, so a report can still be composed and stored.
func (a *app) mailer() *report.Mailer {
	cfg := a.cfg()
	pw, err := secrets.SMTPPassword(a.mail.Password, cfg.SMTP.Username)
	if err != nil && !errors.Is(err, secrets.ErrPasswordNotFound) {
		log.Warn().Err(err).Msg("keychain lookup failed")
	}
	return report.NewMailer(report.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: pw,
	})
}

func (a *app) runner(pub events.Publisher) (*pipeline.Runner, error) {
	db, err := a.store()
	if err != nil {
		return nil, err
	}
	return &pipeline.Runner{
		DB:       db,
		Config:   a.cfg,
		Events:   pub,
		Sender:   a.mailer(),
		LockPath: filepath.Join(a.cfg().App.DataDir, "hr_alerter.lock"),
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
