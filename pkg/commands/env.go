package commands

import (
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/logging"
	"tableflip.dev/jview/pkg/store"
)

// env is what every command needs from the configuration.
type env struct {
	cfg    store.Config
	bridge store.Bridge
	log    *logging.Logger
}

func loadEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Config{
		Level:       cfg.LogLevel(),
		Development: cfg.LogDevelopment(),
	})
	if err != nil {
		return nil, err
	}
	bridge, err := store.Select(cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, bridge: bridge, log: log}, nil
}

func (e *env) handoff(opener handoff.Opener) *handoff.Service {
	return &handoff.Service{
		Bridge:  e.bridge,
		Opener:  opener,
		BaseURL: e.cfg.ViewerBase(),
		Log:     e.log,
	}
}
