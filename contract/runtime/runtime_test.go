package runtime_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casper-native/erc20-host/contract/runtime"
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/hostfuncs"
	"github.com/casper-native/erc20-host/infrastructure/memstore"
	"github.com/casper-native/erc20-host/internal/testutil"
)

var caller = [entities.AddrLength]byte{0xca, 0x11}

func executing(t *testing.T, args ...entities.NamedArg) *hostfuncs.Host {
	t.Helper()
	h := hostfuncs.NewHost(memstore.New(),
		hostfuncs.WithRandomSource(testutil.NewSequentialReader(1)),
		hostfuncs.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		hostfuncs.WithCaller(caller),
	)
	h.BindArgs(entities.NewRuntimeArgs(args...))
	require.NoError(t, h.Begin())
	return h
}

// requireReverts runs f and asserts it reverts with code.
func requireReverts(t *testing.T, code errors.ApiError, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		rev, ok := r.(*errors.RevertError)
		require.Truef(t, ok, "expected revert, got %v", r)
		assert.Equal(t, code, rev.Code)
	}()
	f()
}

func TestGetNamedArg(t *testing.T) {
	h := executing(t,
		entities.Arg("name", "token"),
		entities.Arg("amount", uint256.NewInt(42)),
		entities.Arg("owner", entities.AccountKey(caller)),
	)

	assert.Equal(t, "token", runtime.GetNamedArg[string](h, "name"))
	assert.Equal(t, uint64(42), runtime.GetNamedArg[*uint256.Int](h, "amount").Uint64())
	assert.Equal(t, entities.AccountKey(caller), runtime.GetNamedArg[entities.Key](h, "owner"))

	requireReverts(t, errors.ErrMissingArgument, func() {
		runtime.GetNamedArg[string](h, "absent")
	})
	requireReverts(t, errors.ErrInvalidArgument, func() {
		runtime.GetNamedArg[uint8](h, "name")
	})
}

func TestRetAndRevert(t *testing.T) {
	h := executing(t)

	assert.PanicsWithValue(t, &hostfuncs.ReturnSignal{Value: entities.MustCLValue("done")}, func() {
		runtime.Ret(h, "done")
	})
	requireReverts(t, errors.User(7), func() {
		runtime.Revert(h, errors.User(7))
	})
	requireReverts(t, errors.ErrCLTypeMismatch, func() {
		runtime.Ret(h, struct{ A int }{})
	})
}

func TestUnwrapOrRevert(t *testing.T) {
	h := executing(t)

	assert.Equal(t, 3, runtime.UnwrapOrRevert(h, 3, nil))
	requireReverts(t, errors.ErrValueNotFound, func() {
		runtime.UnwrapOrRevert(h, 0, errors.ErrValueNotFound)
	})
	assert.Equal(t, "x", runtime.UnwrapOrRevertWith(h, "x", true, errors.ErrMissingKey))
	requireReverts(t, errors.ErrMissingKey, func() {
		runtime.UnwrapOrRevertWith(h, "x", false, errors.ErrMissingKey)
	})
}

func TestStorage(t *testing.T) {
	h := executing(t)

	uref := runtime.NewURef(h, uint64(10))
	got, ok, err := runtime.Read[uint64](h, uref.Key())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(10), got)

	runtime.Add(h, uref, uint64(5))
	assert.Equal(t, uint64(15), runtime.ReadOrRevert[uint64](h, uref.Key()))

	runtime.Write(h, uref, uint64(1))
	assert.Equal(t, uint64(1), runtime.ReadOrRevert[uint64](h, uref.Key()))

	_, _, err = runtime.Read[string](h, uref.Key())
	assert.Error(t, err, "stored type differs from requested")

	missing := entities.HashKey([entities.AddrLength]byte{0xee})
	_, ok, err = runtime.Read[uint64](h, missing)
	require.NoError(t, err)
	assert.False(t, ok)
	requireReverts(t, errors.ErrValueNotFound, func() {
		runtime.ReadOrRevert[uint64](h, missing)
	})

	requireReverts(t, errors.ErrCLTypeMismatch, func() {
		runtime.Add(h, uref, "text")
	})
}

func TestStorage_Rights(t *testing.T) {
	h := executing(t)

	uref := runtime.NewURef(h, "value")
	readOnly := entities.NewURef(uref.Addr(), entities.AccessRead)

	requireReverts(t, errors.ErrNoAccessRights, func() {
		runtime.Write(h, readOnly, "other")
	})
	assert.Equal(t, "value", runtime.ReadOrRevert[string](h, readOnly.Key()))
}

func TestNamedKeys(t *testing.T) {
	h := executing(t)

	_, ok := runtime.GetKey(h, "counter")
	assert.False(t, ok)

	uref := runtime.NewURef(h, uint32(0))
	runtime.PutKey(h, "counter", uref.Key())
	runtime.PutKey(h, "account", entities.AccountKey(caller))
	assert.True(t, runtime.HasKey(h, "counter"))

	key, ok := runtime.GetKey(h, "counter")
	require.True(t, ok)
	assert.Equal(t, uref.Key(), key)
	assert.Equal(t, uref, runtime.URefFromKey(h, "counter"))

	requireReverts(t, errors.ErrMissingKey, func() {
		runtime.URefFromKey(h, "absent")
	})
	requireReverts(t, errors.ErrUnexpectedKeyVariant, func() {
		runtime.URefFromKey(h, "account")
	})

	keys := runtime.ListNamedKeys(h)
	assert.Equal(t, []string{"counter", "account"}, keys.Names())

	runtime.RemoveKey(h, "counter")
	assert.False(t, runtime.HasKey(h, "counter"))
	runtime.RemoveKey(h, "account")
	assert.Equal(t, 0, runtime.ListNamedKeys(h).Len())
}

func TestDictionary(t *testing.T) {
	h := executing(t)

	seed, err := runtime.NewDictionary(h, "balances")
	require.NoError(t, err)
	assert.True(t, runtime.HasKey(h, "balances"))
	assert.True(t, h.IsValidURef(seed))

	_, err = runtime.NewDictionary(h, "balances")
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = runtime.NewDictionary(h, "")
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, ok, err := runtime.DictionaryGet[*uint256.Int](h, seed, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	runtime.DictionaryPut(h, seed, "alice", uint256.NewInt(100))
	v, ok, err := runtime.DictionaryGet[*uint256.Int](h, seed, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(100), v.Uint64())

	requireReverts(t, errors.ErrDictionaryItemKeyExceedsLength, func() {
		runtime.DictionaryPut(h, seed, longKey(), uint256.NewInt(1))
	})
}

func longKey() string {
	b := make([]byte, hostfuncs.DictionaryItemKeyMaxLength+1)
	for i := range b {
		b[i] = 'k'
	}
	return string(b)
}

func TestGetCaller(t *testing.T) {
	h := executing(t)
	assert.Equal(t, entities.AccountKey(caller), runtime.GetCaller(h))
	assert.Equal(t, 0, h.HostBufferSize(), "caller bytes consumed")
}

func TestItemKeyFromBytes(t *testing.T) {
	assert.Equal(t, "AQID", runtime.ItemKeyFromBytes([]byte{1, 2, 3}))
	assert.Empty(t, runtime.ItemKeyFromBytes(nil))
}
