package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "hr-alerter"
)

var ErrPasswordNotFound = errors.New("SMTP password not found (set SMTP_PASSWORD or store it in the keychain)")

// SMTPPassword prefers an explicit value (from SMTP_PASSWORD) and falls
// back to the keychain entry for username.
func SMTPPassword(fromEnv, username string) (string, error) {
	if fromEnv != "" {
		return fromEnv, nil
	}
	if strings.TrimSpace(username) != "" {
		pw, err := keyring.Get(KeyringService, SMTPKeyringAccount(username))
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", ErrPasswordNotFound
}

func SetSMTPPassword(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("smtp username is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, SMTPKeyringAccount(username), password)
}

func DeleteSMTPPassword(username string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("smtp username is empty")
	}
	return keyring.Delete(KeyringService, SMTPKeyringAccount(username))
}

func SMTPKeyringAccount(username string) string {
	return "hr-alerter:smtp:" + strings.ToLower(strings.TrimSpace(username))
}
