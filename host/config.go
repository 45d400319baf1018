package host

import (
	"encoding/hex"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/hostfuncs"
)

var validate = validator.New()

// Config holds the environment reported to contracts and the host's limits.
type Config struct {
	// Caller is the hex-encoded account hash returned by get_caller.
	Caller string `json:"caller" validate:"omitempty,hexadecimal,len=64"`

	// Blocktime is the block time in milliseconds since the Unix epoch.
	Blocktime uint64 `json:"blocktime"`

	// MaxHostBufferSize caps a single value parked in the host buffer.
	MaxHostBufferSize int `json:"max_host_buffer_size" validate:"gte=64,lte=67108864"`
}

// DefaultConfig returns a Config with an all-zero caller and the default
// host buffer limit.
func DefaultConfig() Config {
	return Config{
		MaxHostBufferSize: hostfuncs.DefaultMaxHostBufferSize,
	}
}

// Validate checks c against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var field string
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		return &errors.ConfigError{Field: field, Err: err}
	}
	return nil
}

// CallerHash decodes Caller. An empty Caller yields the zero hash.
func (c Config) CallerHash() ([entities.AddrLength]byte, error) {
	var hash [entities.AddrLength]byte
	if c.Caller == "" {
		return hash, nil
	}
	raw, err := hex.DecodeString(c.Caller)
	if err != nil || len(raw) != entities.AddrLength {
		return hash, &errors.ConfigError{Field: "Caller", Err: fmt.Errorf("caller must be %d hex-encoded bytes", entities.AddrLength)}
	}
	copy(hash[:], raw)
	return hash, nil
}

// hostOptions converts c into hostfuncs options.
func (c Config) hostOptions() ([]hostfuncs.Option, error) {
	caller, err := c.CallerHash()
	if err != nil {
		return nil, err
	}
	return []hostfuncs.Option{
		hostfuncs.WithCaller(caller),
		hostfuncs.WithBlocktime(c.Blocktime),
		hostfuncs.WithMaxHostBufferSize(c.MaxHostBufferSize),
	}, nil
}
