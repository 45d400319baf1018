package host

import (
	"io"
	"log/slog"

	"github.com/casper-native/erc20-host/domain/ports"
	adapter "github.com/casper-native/erc20-host/infrastructure/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*executorConfig)

type executorConfig struct {
	config      Config
	logger      *slog.Logger
	store       ports.GlobalStore
	random      io.Reader
	entryPoints *EntryPointRegistry
	adapterOpts []adapter.AdapterOption
}

func defaultExecutorConfig() executorConfig {
	return executorConfig{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
}

// WithConfig sets the host configuration. It is validated by NewExecutor.
func WithConfig(cfg Config) Option {
	return func(c *executorConfig) {
		c.config = cfg
	}
}

// WithLogger sets the logger for the executor and its host.
func WithLogger(logger *slog.Logger) Option {
	return func(c *executorConfig) {
		c.logger = logger
	}
}

// WithStore sets the global value store. Defaults to a fresh memstore.
func WithStore(store ports.GlobalStore) Option {
	return func(c *executorConfig) {
		c.store = store
	}
}

// WithRandomSource sets the source of reference addresses.
func WithRandomSource(r io.Reader) Option {
	return func(c *executorConfig) {
		c.random = r
	}
}

// WithEntryPoints configures the executor with an entry point registry.
func WithEntryPoints(registry *EntryPointRegistry) Option {
	return func(c *executorConfig) {
		c.entryPoints = registry
	}
}

// WithAdapterOptions configures the wazero import module used by LoadContract.
func WithAdapterOptions(opts ...adapter.AdapterOption) Option {
	return func(c *executorConfig) {
		c.adapterOpts = append(c.adapterOpts, opts...)
	}
}
