package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// DefaultDataDir is ~/.hr-alerter, or ./.hr-alerter without a home dir.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".hr-alerter"
	}
	return filepath.Join(home, ".hr-alerter")
}

// DBPath resolves the database file: app.db_path when set, else
// hr_alerter.db inside the data dir.
func (c Config) DBPath() string {
	if c.App.DBPath != "" {
		return c.App.DBPath
	}
	dir := c.App.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(dir, "hr_alerter.db")
}

// EnsureUserConfig makes sure dataDir/config.yml exists, copying
// defaultPath there, or writing Default() when defaultPath is empty or
// missing. It returns the user config path.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		if defaultPath == "" || errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.App.DataDir = dataDir
			return userPath, SaveAtomic(userPath, cfg)
		}
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}
