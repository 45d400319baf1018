package wazero

import (
	"bytes"
	"context"
	"encoding/binary"
	stdErrors "errors"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/crypto/blake2b"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/hostfuncs"
	"github.com/casper-native/erc20-host/infrastructure/memstore"
	"github.com/casper-native/erc20-host/internal/testutil"
	"github.com/casper-native/erc20-host/wireformat"
)

// fakeMemory is a flat linear memory for driving imports without a guest.
type fakeMemory struct {
	buf []byte
}

func newFakeMemory(size int) *fakeMemory {
	return &fakeMemory{buf: make([]byte, size)}
}

func (m *fakeMemory) inBounds(offset, n uint32) bool {
	return uint64(offset)+uint64(n) <= uint64(len(m.buf))
}

func (m *fakeMemory) Read(offset, n uint32) ([]byte, bool) {
	if !m.inBounds(offset, n) {
		return nil, false
	}
	return m.buf[offset : offset+n], true
}

func (m *fakeMemory) Write(offset uint32, v []byte) bool {
	if !m.inBounds(offset, uint32(len(v))) {
		return false
	}
	copy(m.buf[offset:], v)
	return true
}

func (m *fakeMemory) WriteByte(offset uint32, v byte) bool { //nolint:stdmethods // mirrors api.Memory
	return m.Write(offset, []byte{v})
}

func (m *fakeMemory) WriteUint32Le(offset, v uint32) bool {
	return m.Write(offset, binary.LittleEndian.AppendUint32(nil, v))
}

func (m *fakeMemory) WriteUint64Le(offset uint32, v uint64) bool {
	return m.Write(offset, binary.LittleEndian.AppendUint64(nil, v))
}

// put copies p into memory at offset and returns (offset, len).
func (m *fakeMemory) put(offset uint32, p []byte) (uint32, uint32) {
	copy(m.buf[offset:], p)
	return offset, uint32(len(p))
}

func (m *fakeMemory) u32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(m.buf[offset:])
}

func encodedString(s string) []byte {
	enc := wireformat.NewEncoder(len(s) + 4)
	enc.String(s)
	return enc.Bytes()
}

type fixture struct {
	host    *hostfuncs.Host
	mem     *fakeMemory
	imports map[string]importFunc
}

func newFixture(t *testing.T, args *entities.RuntimeArgs) *fixture {
	t.Helper()
	h := hostfuncs.NewHost(memstore.New(),
		hostfuncs.WithRandomSource(testutil.NewSequentialReader(1)),
		hostfuncs.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		hostfuncs.WithBlocktime(42),
	)
	h.BindArgs(args)
	require.NoError(t, h.Begin())

	im := &imports{host: h}
	table := make(map[string]importFunc)
	for _, f := range im.table() {
		table[f.name] = f
	}
	return &fixture{host: h, mem: newFakeMemory(4096), imports: table}
}

func (f *fixture) call(t *testing.T, name string, a ...uint32) int32 {
	t.Helper()
	fn, ok := f.imports[name]
	require.True(t, ok, "no import %s", name)
	require.Len(t, a, fn.params, "arity of %s", name)
	return fn.fn(guest{mem: f.mem, op: name, maxRequestSize: 1024}, a)
}

func TestImportTable(t *testing.T) {
	f := newFixture(t, nil)
	assert.Len(t, f.imports, 23+len(hostfuncs.UnsupportedFunctions))

	assert.Equal(t, 3, f.imports["casper_get_named_arg_size"].params)
	assert.True(t, f.imports["casper_has_key"].hasResult)
	assert.False(t, f.imports["casper_put_key"].hasResult)
	assert.Equal(t, 7, f.imports["casper_call_contract"].params)
}

func TestImports_NamedArgs(t *testing.T) {
	f := newFixture(t, entities.NewRuntimeArgs(entities.Arg("decimals", uint8(100))))

	namePtr, nameLen := f.mem.put(0, []byte("decimals"))
	require.Equal(t, int32(0), f.call(t, "casper_get_named_arg_size", namePtr, nameLen, 100))
	assert.Equal(t, uint32(1), f.mem.u32(100))

	require.Equal(t, int32(0), f.call(t, "casper_get_named_arg", namePtr, nameLen, 200, 1))
	assert.Equal(t, byte(100), f.mem.buf[200])

	assert.Equal(t, int32(errors.ErrBufferTooSmall), f.call(t, "casper_get_named_arg", namePtr, nameLen, 200, 0))

	missingPtr, missingLen := f.mem.put(16, []byte("symbol"))
	assert.Equal(t, int32(errors.ErrMissingArgument), f.call(t, "casper_get_named_arg_size", missingPtr, missingLen, 100))
}

// allocatedDuring reports the bytes the Go heap handed out while f ran.
func allocatedDuring(f func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	f()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestImports_GuestSizedOutputs(t *testing.T) {
	f := newFixture(t, entities.NewRuntimeArgs(entities.Arg("name", "Name")))
	namePtr, nameLen := f.mem.put(0, []byte("name"))

	t.Run("named arg larger than the request limit", func(t *testing.T) {
		allocated := allocatedDuring(func() {
			testutil.RequireFatal(t, errors.ErrOutOfMemory, func() {
				f.call(t, "casper_get_named_arg", namePtr, nameLen, 100, 1<<30)
			})
		})
		assert.Less(t, allocated, uint64(1<<20))
	})

	t.Run("named arg destination too long", func(t *testing.T) {
		f.mem.buf[100] = 0xAA
		assert.Equal(t, int32(errors.ErrInvalidArgument), f.call(t, "casper_get_named_arg", namePtr, nameLen, 100, 1000))
		assert.Equal(t, byte(0xAA), f.mem.buf[100], "nothing copied")
	})

	t.Run("named arg destination too short", func(t *testing.T) {
		assert.Equal(t, int32(errors.ErrBufferTooSmall), f.call(t, "casper_get_named_arg", namePtr, nameLen, 100, 4))
	})

	t.Run("named arg exact size", func(t *testing.T) {
		require.Equal(t, int32(0), f.call(t, "casper_get_named_arg", namePtr, nameLen, 100, 8))
		assert.Equal(t, encodedString("Name"), f.mem.buf[100:108])
	})

	t.Run("host buffer larger than the request limit", func(t *testing.T) {
		require.Equal(t, int32(0), f.call(t, "casper_get_caller", 200))
		allocated := allocatedDuring(func() {
			testutil.RequireFatal(t, errors.ErrOutOfMemory, func() {
				f.call(t, "casper_read_host_buffer", 300, 1<<30, 204)
			})
		})
		assert.Less(t, allocated, uint64(1<<20))
		assert.True(t, f.host.HostBufferSize() > 0, "pending value kept")
	})

	t.Run("host buffer destination longer than the value", func(t *testing.T) {
		pending := f.host.HostBufferSize()
		require.Equal(t, int32(0), f.call(t, "casper_read_host_buffer", 300, 1000, 204))
		assert.Equal(t, uint32(pending), f.mem.u32(204))
		assert.Equal(t, 0, f.host.HostBufferSize())
	})
}

func TestImports_NamedKeys(t *testing.T) {
	f := newFixture(t, nil)
	key := entities.HashKey([32]byte{9})

	namePtr, nameLen := f.mem.put(0, encodedString("balances"))
	keyPtr, keyLen := f.mem.put(64, key.Bytes())

	assert.Equal(t, int32(errors.ErrMissingKey), f.call(t, "casper_has_key", namePtr, nameLen))
	assert.Equal(t, int32(errors.ErrMissingKey), f.call(t, "casper_get_key", namePtr, nameLen, 128, 40, 200))

	f.call(t, "casper_put_key", namePtr, nameLen, keyPtr, keyLen)
	assert.Equal(t, int32(0), f.call(t, "casper_has_key", namePtr, nameLen))

	require.Equal(t, int32(0), f.call(t, "casper_get_key", namePtr, nameLen, 128, 40, 200))
	size := f.mem.u32(200)
	require.Equal(t, keyLen, size)
	assert.Equal(t, key.Bytes(), f.mem.buf[128:128+size])

	assert.Equal(t, int32(errors.ErrBufferTooSmall), f.call(t, "casper_get_key", namePtr, nameLen, 128, 4, 200))

	require.Equal(t, int32(0), f.call(t, "casper_load_named_keys", 300, 304))
	assert.Equal(t, uint32(1), f.mem.u32(300))
	assert.Equal(t, uint32(f.host.HostBufferSize()), f.mem.u32(304))

	f.call(t, "casper_remove_key", namePtr, nameLen)
	assert.False(t, f.host.HasKey("balances"))
}

func TestImports_URefStorage(t *testing.T) {
	f := newFixture(t, nil)

	valuePtr, valueLen := f.mem.put(0, entities.MustCLValue(uint64(7)).Bytes())
	f.call(t, "casper_new_uref", 300, valuePtr, valueLen)
	uref, err := entities.URefFromBytes(f.mem.buf[300 : 300+entities.URefSerializedLength])
	require.NoError(t, err)

	urefPtr, urefLen := f.mem.put(400, uref.Bytes())
	assert.Equal(t, int32(1), f.call(t, "casper_is_valid_uref", urefPtr, urefLen))

	keyPtr, keyLen := f.mem.put(500, uref.Key().Bytes())
	deltaPtr, deltaLen := f.mem.put(600, entities.MustCLValue(uint64(3)).Bytes())
	f.call(t, "casper_add", keyPtr, keyLen, deltaPtr, deltaLen)

	require.Equal(t, int32(0), f.call(t, "casper_read_value", keyPtr, keyLen, 700))
	size := f.mem.u32(700)
	require.Equal(t, int32(0), f.call(t, "casper_read_host_buffer", 800, size, 704))
	assert.Equal(t, size, f.mem.u32(704))

	got, err := entities.CLValueFromBytes(f.mem.buf[800 : 800+size])
	require.NoError(t, err)
	testutil.AssertCLValueEqual(t, entities.MustCLValue(uint64(10)), got)

	t.Run("void write without rights reverts", func(t *testing.T) {
		readOnly, readOnlyLen := f.mem.put(900, uref.WithRights(entities.AccessRead).Key().Bytes())
		defer func() {
			rev, ok := recover().(*errors.RevertError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrNoAccessRights, rev.Code)
		}()
		f.call(t, "casper_write", readOnly, readOnlyLen, deltaPtr, deltaLen)
	})

	t.Run("forged uref is invalid", func(t *testing.T) {
		forged, forgedLen := f.mem.put(1000, entities.NewURef([32]byte{0xfe}, entities.AccessRead).Bytes())
		assert.Equal(t, int32(0), f.call(t, "casper_is_valid_uref", forged, forgedLen))
	})
}

func TestImports_Dictionary(t *testing.T) {
	f := newFixture(t, nil)

	require.Equal(t, int32(0), f.call(t, "casper_new_dictionary", 0))
	size := f.mem.u32(0)
	require.Equal(t, uint32(entities.URefSerializedLength), size)
	require.Equal(t, int32(0), f.call(t, "casper_read_host_buffer", 100, size, 4))

	seedPtr, seedLen := uint32(100), size
	itemPtr, itemLen := f.mem.put(200, []byte("alice"))
	valuePtr, valueLen := f.mem.put(300, entities.MustCLValue("balance").Bytes())

	require.Equal(t, int32(0), f.call(t, "casper_dictionary_put", seedPtr, seedLen, itemPtr, itemLen, valuePtr, valueLen))
	require.Equal(t, int32(0), f.call(t, "casper_dictionary_get", seedPtr, seedLen, itemPtr, itemLen, 400))
	assert.Equal(t, valueLen, f.mem.u32(400))

	otherPtr, otherLen := f.mem.put(500, []byte("bob"))
	assert.Equal(t, int32(errors.ErrValueNotFound), f.call(t, "casper_dictionary_get", seedPtr, seedLen, otherPtr, otherLen, 400))
}

func TestImports_Environment(t *testing.T) {
	f := newFixture(t, nil)

	f.call(t, "casper_get_blocktime", 0)
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(f.mem.buf[0:]))

	f.call(t, "casper_get_phase", 8)
	assert.Equal(t, byte(entities.PhaseSession), f.mem.buf[8])

	dataPtr, dataLen := f.mem.put(16, []byte("abc"))
	require.Equal(t, int32(0), f.call(t, "casper_blake2b", dataPtr, dataLen, 64, 32))
	digest := blake2b.Sum256([]byte("abc"))
	assert.Equal(t, digest[:], f.mem.buf[64:96])
	assert.Equal(t, int32(errors.ErrBufferTooSmall), f.call(t, "casper_blake2b", dataPtr, dataLen, 64, 16))

	require.Equal(t, int32(0), f.call(t, "casper_get_caller", 128))
	assert.Equal(t, uint32(f.host.HostBufferSize()), f.mem.u32(128))
}

func TestImports_Halts(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("out of bounds", func(t *testing.T) {
		testutil.RequireFatal(t, errOutOfBounds, func() {
			f.call(t, "casper_get_named_arg_size", 4090, 100, 0)
		})
	})

	t.Run("request too large", func(t *testing.T) {
		testutil.RequireFatal(t, errors.ErrOutOfMemory, func() {
			f.call(t, "casper_print", 0, 2048)
		})
	})

	t.Run("malformed key", func(t *testing.T) {
		keyPtr, keyLen := f.mem.put(0, []byte{7, 7})
		valuePtr, valueLen := f.mem.put(16, entities.Unit.Bytes())
		testutil.RequireFatal(t, wireformat.ErrFormatting, func() {
			f.call(t, "casper_write", keyPtr, keyLen, valuePtr, valueLen)
		})
	})

	t.Run("unsupported function", func(t *testing.T) {
		testutil.RequireFatal(t, errors.ErrNotEmulated, func() {
			f.call(t, "casper_get_main_purse", 0)
		})
	})
}

func TestImports_ControlFlow(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("ret", func(t *testing.T) {
		valuePtr, valueLen := f.mem.put(0, entities.MustCLValue("Name").Bytes())
		defer func() {
			sig, ok := recover().(*hostfuncs.ReturnSignal)
			require.True(t, ok)
			testutil.AssertCLValueEqual(t, entities.MustCLValue("Name"), sig.Value)
		}()
		f.call(t, "casper_ret", valuePtr, valueLen)
	})

	t.Run("revert", func(t *testing.T) {
		defer func() {
			rev, ok := recover().(*errors.RevertError)
			require.True(t, ok)
			assert.Equal(t, errors.User(0xFFFF), rev.Code)
		}()
		f.call(t, "casper_revert", uint32(errors.User(0xFFFF)))
	})
}

func TestRegisterWithRuntime(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx) //nolint:errcheck

	f := newFixture(t, nil)
	require.NoError(t, RegisterWithRuntime(ctx, rt, f.host,
		WithTraceCalls(true),
		WithCustomHandler(CustomHandler{
			Name:        "custom_noop",
			Handler:     func(context.Context, api.Module, []uint64) {},
			ParamTypes:  []api.ValueType{},
			ResultTypes: []api.ValueType{},
		}),
	))

	mod := rt.Module(DefaultModuleName)
	require.NotNil(t, mod)
	defs := mod.ExportedFunctionDefinitions()
	assert.Contains(t, defs, "casper_new_uref")
	assert.Contains(t, defs, "casper_transfer_to_account")
	assert.Contains(t, defs, "custom_noop")
	assert.Len(t, defs["casper_dictionary_put"].ParamTypes(), 6)

	_, err := mod.ExportedFunction("casper_revert").Call(ctx, api.EncodeU32(uint32(errors.User(3))))
	var rev *errors.RevertError
	require.True(t, stdErrors.As(err, &rev), "got %v", err)
	assert.Equal(t, errors.User(3), rev.Code)
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	assert.Equal(t, "env", cfg.ModuleName)
	assert.Equal(t, uint32(DefaultMaxRequestSize), cfg.MaxRequestSize)

	WithModuleName("casper")(&cfg)
	WithMaxRequestSize(2048)(&cfg)
	WithTraceCalls(true)(&cfg)
	assert.Equal(t, "casper", cfg.ModuleName)
	assert.Equal(t, uint32(2048), cfg.MaxRequestSize)
	assert.True(t, cfg.TraceCalls)
}

func TestContractName(t *testing.T) {
	ctx := WithContractName(context.Background(), "erc20")
	name, ok := ContractNameFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "erc20", name)

	_, ok = ContractNameFromContext(context.Background())
	assert.False(t, ok)
}
