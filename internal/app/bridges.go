package app

import (
	"fmt"

	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/filebridge"
	"github.com/vk/calcnote/internal/hostbridge"
	"github.com/vk/calcnote/internal/inmemorybridge"
)

type bridgeFactory func(cfg *Config) (bridge.Bridge, error)

// bridgeFactories is the definitive list of storage backends compiled into
// the binary, keyed by the -store value.
var bridgeFactories = map[string]bridgeFactory{
	"memory": func(*Config) (bridge.Bridge, error) {
		return inmemorybridge.New(nil), nil
	},
	"file": func(cfg *Config) (bridge.Bridge, error) {
		return filebridge.New(cfg.StorePath), nil
	},
	"host": func(cfg *Config) (bridge.Bridge, error) {
		return hostbridge.New(hostbridge.Options{
			URL:       cfg.HostURL,
			Namespace: cfg.HostNamespace,
			WidgetID:  cfg.WidgetID,
		})
	},
}

func newBridge(cfg *Config) (bridge.Bridge, error) {
	factory, ok := bridgeFactories[cfg.Store]
	if !ok {
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	return factory(cfg)
}
