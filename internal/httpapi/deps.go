package httpapi

import (
	"sync/atomic"
	"time"

	"hr-alerter/internal/config"
	"hr-alerter/internal/events"
	"hr-alerter/internal/pipeline"
	"hr-alerter/internal/store"
)

type Deps struct {
	DB *store.DB

	Hub *events.Hub

	Runner *pipeline.Runner

	// stores config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// SetSMTPPassword stores the mail password for username. Defaults to
	// the OS keychain.
	SetSMTPPassword func(username, password string) error

	// ShutdownToken guards POST /shutdown; empty disables the route.
	ShutdownToken string
	Shutdown      func()

	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
