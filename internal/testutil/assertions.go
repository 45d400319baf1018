// Package testutil provides common test helpers for the host emulation packages.
package testutil

import (
	"encoding/binary"
	"encoding/json"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// AssertCLValueEqual compares type and encoded bytes of two values.
func AssertCLValueEqual(t *testing.T, expected, actual entities.CLValue, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected.Type().String(), actual.Type().String(), msgAndArgs...)
	assert.Equal(t, expected.Bytes(), actual.Bytes(), msgAndArgs...)
}

// RequireReturned asserts that a call returned a value equal to expected.
func RequireReturned(t *testing.T, expected any, actual *entities.CLValue, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, actual, "expected a returned value")
	AssertCLValueEqual(t, entities.MustCLValue(expected), *actual)
}

// RequireRevert asserts that err is a revert carrying code.
func RequireRevert(t *testing.T, err error, code errors.ApiError, msgAndArgs ...interface{}) {
	t.Helper()
	var rev *errors.RevertError
	require.True(t, stdErrors.As(err, &rev), "expected a revert, got %v", err)
	require.Equal(t, code, rev.Code, msgAndArgs...)
}

// RequireFatal runs f and asserts that it halts with a FatalError wrapping target.
func RequireFatal(t *testing.T, target error, f func()) {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		f()
	}()
	require.NotNil(t, recovered, "expected a fatal error")
	fatal, ok := recovered.(*errors.FatalError)
	require.True(t, ok, "expected *errors.FatalError, got %T: %v", recovered, recovered)
	if target != nil {
		require.ErrorIs(t, fatal, target)
	}
}

// SequentialReader yields a distinct 32-byte block per read of an address.
// Blocks are derived from a counter so runs are reproducible.
type SequentialReader struct {
	next uint64
}

// NewSequentialReader creates a reader whose first block encodes start.
func NewSequentialReader(start uint64) *SequentialReader {
	return &SequentialReader{next: start}
}

func (r *SequentialReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	for off := 0; off+8 <= len(p); off += entities.AddrLength {
		binary.BigEndian.PutUint64(p[off:], r.next)
		r.next++
	}
	return len(p), nil
}

// ConstantReader always yields the same byte, so every address collides.
type ConstantReader byte

func (r ConstantReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}
