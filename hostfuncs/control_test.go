package hostfuncs

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/internal/testutil"
)

func TestRet(t *testing.T) {
	h := executing(t, nil)
	defer func() {
		sig, ok := recover().(*ReturnSignal)
		require.True(t, ok)
		testutil.AssertCLValueEqual(t, entities.MustCLValue("Name"), sig.Value)
	}()
	h.Ret(entities.MustCLValue("Name"))
}

func TestRevert(t *testing.T) {
	h := executing(t, nil)
	defer func() {
		rev, ok := recover().(*errors.RevertError)
		require.True(t, ok)
		assert.Equal(t, errors.User(0xFFFE), rev.Code)
	}()
	h.Revert(errors.User(0xFFFE))
}

func TestEnvironment(t *testing.T) {
	caller := [32]byte{0xaa, 0xbb}
	h := executing(t, nil, WithCaller(caller), WithBlocktime(1_700_000_000_000), WithPhase(entities.PhasePayment))

	assert.Equal(t, uint64(1_700_000_000_000), h.GetBlocktime())
	assert.Equal(t, entities.PhasePayment, h.GetPhase())
	assert.Equal(t, entities.AccountKey(caller), h.Caller())

	size, err := h.GetCaller()
	require.NoError(t, err)
	v := readBuffer(t, h, size)
	var raw []byte
	require.NoError(t, v.Into(&raw))
	assert.Equal(t, caller[:], raw)

	assert.Equal(t, blake2b.Sum256([]byte("abc")), h.Blake2b([]byte("abc")))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	h := executing(t, nil, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	h.Print("hello from contract")
	assert.Contains(t, buf.String(), "hello from contract")
	assert.Contains(t, buf.String(), "source=contract")
}

func TestNotEmulated(t *testing.T) {
	h := executing(t, nil)
	testutil.RequireFatal(t, errors.ErrNotEmulated, func() { h.NotEmulated("casper_transfer_to_account") })

	names := make(map[string]bool)
	for _, fn := range UnsupportedFunctions {
		assert.False(t, names[fn.Name], "duplicate %s", fn.Name)
		names[fn.Name] = true
		assert.Positive(t, fn.Params)
	}
	assert.True(t, names["casper_call_contract"])
}
