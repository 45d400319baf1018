package hostfuncs

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
)

// hostConfig accumulates options during Host construction.
type hostConfig struct {
	random            io.Reader
	logger            *slog.Logger
	maxHostBufferSize int
	blocktime         uint64
	caller            [entities.AddrLength]byte
	phase             entities.Phase
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		random:            rand.Reader,
		logger:            slog.Default(),
		maxHostBufferSize: DefaultMaxHostBufferSize,
		phase:             entities.PhaseSession,
	}
}

// Option configures a Host.
type Option func(*hostConfig)

// WithRandomSource sets the source of URef addresses. Defaults to crypto/rand.
// Tests may supply a deterministic reader.
func WithRandomSource(r io.Reader) Option {
	return func(c *hostConfig) {
		c.random = r
	}
}

// WithLogger sets the logger used for host traces and contract print output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *hostConfig) {
		c.logger = logger
	}
}

// WithMaxHostBufferSize caps the size of a pending host buffer value.
func WithMaxHostBufferSize(size int) Option {
	return func(c *hostConfig) {
		c.maxHostBufferSize = size
	}
}

// WithBlocktime sets the block time (milliseconds since epoch) reported to contracts.
func WithBlocktime(ms uint64) Option {
	return func(c *hostConfig) {
		c.blocktime = ms
	}
}

// WithCaller sets the account hash reported by get_caller.
func WithCaller(accountHash [entities.AddrLength]byte) Option {
	return func(c *hostConfig) {
		c.caller = accountHash
	}
}

// WithPhase sets the execution phase reported by get_phase.
func WithPhase(phase entities.Phase) Option {
	return func(c *hostConfig) {
		c.phase = phase
	}
}

// Host is the emulated host environment. It owns the global value store, the
// named-key directory, the argument slot and the host buffer, and is passed
// explicitly to whatever runs contract code.
//
// Host is not safe for concurrent use: invocations must run one at a time.
type Host struct {
	cfg       hostConfig
	logger    *slog.Logger
	store     ports.GlobalStore
	namedKeys *entities.NamedKeys
	args      *entities.RuntimeArgs
	buffer    *HostBuffer
	granted   map[[entities.AddrLength]byte]entities.AccessRights
	state     entities.InvocationState
}

var _ ports.HostABI = (*Host)(nil)

// NewHost creates a Host backed by store.
func NewHost(store ports.GlobalStore, opts ...Option) *Host {
	cfg := defaultHostConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Host{
		cfg:     cfg,
		logger:  cfg.logger,
		store:   store,
		buffer:  NewHostBuffer(cfg.maxHostBufferSize),
		granted: make(map[[entities.AddrLength]byte]entities.AccessRights),
	}
}

// Store returns the global value store.
func (h *Host) Store() ports.GlobalStore {
	return h.store
}

// State returns the invocation state.
func (h *Host) State() entities.InvocationState {
	return h.state
}

// BindArgs installs the runtime arguments for the next invocation.
// A nil args binds an empty argument set.
func (h *Host) BindArgs(args *entities.RuntimeArgs) {
	if args == nil {
		args = entities.NewRuntimeArgs()
	}
	h.args = args
	h.state = entities.StateArgsBound
}

// Begin marks the start of contract execution. Arguments must be bound.
func (h *Host) Begin() error {
	if h.state != entities.StateArgsBound {
		return fmt.Errorf("cannot begin invocation in state %s", h.state)
	}
	h.state = entities.StateExecuting
	return nil
}

// Complete ends a successful invocation and discards per-invocation state.
// Store and directory mutations are kept.
func (h *Host) Complete() {
	h.endInvocation(entities.StateCompleted)
}

// MarkReverted ends a reverted invocation and discards per-invocation state.
func (h *Host) MarkReverted() {
	h.endInvocation(entities.StateReverted)
}

func (h *Host) endInvocation(final entities.InvocationState) {
	h.args = nil
	h.buffer.Reset()
	h.state = final
}

// ResetInvocation clears the argument slot and the host buffer.
func (h *Host) ResetInvocation() {
	h.args = nil
	h.buffer.Reset()
	h.state = entities.StateNoArgsEstablished
}

// Reset additionally clears the global value store and the named-key directory.
func (h *Host) Reset() {
	h.ResetInvocation()
	h.store.Reset()
	h.namedKeys = nil
	h.granted = make(map[[entities.AddrLength]byte]entities.AccessRights)
}

// directory returns the named-key directory, creating it on first use.
func (h *Host) directory() *entities.NamedKeys {
	if h.namedKeys == nil {
		h.namedKeys = entities.NewNamedKeys()
	}
	return h.namedKeys
}

// NamedKeys returns the named-key directory.
func (h *Host) NamedKeys() *entities.NamedKeys {
	return h.directory()
}

// writeHostBuffer parks a result for a later ReadHostBuffer.
func (h *Host) writeHostBuffer(p []byte) (int, error) {
	if err := h.buffer.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// HostBufferSize returns the size of the pending host buffer value.
func (h *Host) HostBufferSize() int {
	return h.buffer.Len()
}

// ReadHostBuffer consumes the pending host buffer value into dest.
func (h *Host) ReadHostBuffer(dest []byte) (int, error) {
	return h.buffer.Read(dest)
}

// requireName halts on names that are empty or not valid UTF-8.
func requireName(op, name string) {
	if name == "" || !utf8.ValidString(name) {
		errors.Fatal(op, fmt.Errorf("%w: %q", errors.ErrInvalidName, name))
	}
}
