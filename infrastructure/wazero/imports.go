package wazero

import (
	"unicode/utf8"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
	"github.com/casper-native/erc20-host/hostfuncs"
	"github.com/casper-native/erc20-host/wireformat"
)

// Host is the host surface served to guests.
type Host interface {
	ports.HostABI
	NotEmulated(name string)
}

// importFunc is one casper_* import. Every parameter is an i32; fn returns
// the i32 result, which is dropped for functions without one.
type importFunc struct {
	name      string
	params    int
	hasResult bool
	fn        func(g guest, a []uint32) int32
}

type imports struct {
	host Host
}

func status(err error) int32 {
	return errors.StatusFromError(err)
}

// decodeOrFatal decodes a guest-supplied value. Malformed input halts the run.
func decodeOrFatal[T any](op string, p []byte, decode func([]byte) (T, error)) T {
	v, err := decode(p)
	if err != nil {
		errors.Fatal(op, &errors.WireFormatError{Err: err, Operation: "decode", Type: op})
	}
	return v
}

// rawName interprets p as UTF-8 text.
func rawName(op string, p []byte) string {
	if !utf8.Valid(p) {
		errors.Fatal(op, errors.ErrInvalidName)
	}
	return string(p)
}

// encodedName decodes a length-prefixed string.
func encodedName(op string, p []byte) string {
	return decodeOrFatal(op, p, func(b []byte) (string, error) {
		dec := wireformat.NewDecoder(b)
		s, err := dec.String()
		if err != nil {
			return "", err
		}
		return s, dec.Finish()
	})
}

// abortOnError reverts the invocation for failures of void functions, which
// have no status to report them through.
func (im *imports) abortOnError(err error) {
	if err != nil {
		im.host.Revert(errors.AsApiError(err))
	}
}

func (im *imports) table() []importFunc {
	funcs := []importFunc{
		{"casper_get_named_arg_size", 3, true, im.getNamedArgSize},
		{"casper_get_named_arg", 4, true, im.getNamedArg},
		{"casper_has_key", 2, true, im.hasKey},
		{"casper_put_key", 4, false, im.putKey},
		{"casper_get_key", 5, true, im.getKey},
		{"casper_remove_key", 2, false, im.removeKey},
		{"casper_load_named_keys", 2, true, im.loadNamedKeys},
		{"casper_new_uref", 3, false, im.newURef},
		{"casper_read_value", 3, true, im.readValue},
		{"casper_write", 4, false, im.write},
		{"casper_add", 4, false, im.add},
		{"casper_is_valid_uref", 2, true, im.isValidURef},
		{"casper_new_dictionary", 1, true, im.newDictionary},
		{"casper_dictionary_get", 5, true, im.dictionaryGet},
		{"casper_dictionary_put", 6, true, im.dictionaryPut},
		{"casper_read_host_buffer", 3, true, im.readHostBuffer},
		{"casper_get_caller", 1, true, im.getCaller},
		{"casper_get_blocktime", 1, false, im.getBlocktime},
		{"casper_get_phase", 1, false, im.getPhase},
		{"casper_blake2b", 4, true, im.blake2b},
		{"casper_print", 2, false, im.print},
		{"casper_ret", 2, false, im.ret},
		{"casper_revert", 1, false, im.revert},
	}
	for _, u := range hostfuncs.UnsupportedFunctions {
		name := u.Name
		funcs = append(funcs, importFunc{name, u.Params, u.HasResult, func(guest, []uint32) int32 {
			im.host.NotEmulated(name)
			return 0
		}})
	}
	return funcs
}

func (im *imports) getNamedArgSize(g guest, a []uint32) int32 {
	name := rawName(g.op, g.read(a[0], a[1]))
	size, err := im.host.GetNamedArgSize(name)
	if err != nil {
		return status(err)
	}
	g.writeSize(a[2], size)
	return 0
}

func (im *imports) getNamedArg(g guest, a []uint32) int32 {
	name := rawName(g.op, g.read(a[0], a[1]))
	g.checkSize(a[3])
	size, err := im.host.GetNamedArgSize(name)
	if err != nil {
		return status(err)
	}
	switch {
	case int(a[3]) < size:
		return status(errors.ErrBufferTooSmall)
	case int(a[3]) > size:
		return status(errors.ErrInvalidArgument)
	}
	dest := make([]byte, size)
	if err := im.host.GetNamedArg(name, dest); err != nil {
		return status(err)
	}
	g.write(a[2], dest)
	return 0
}

func (im *imports) hasKey(g guest, a []uint32) int32 {
	name := encodedName(g.op, g.read(a[0], a[1]))
	if !im.host.HasKey(name) {
		return status(errors.ErrMissingKey)
	}
	return 0
}

func (im *imports) putKey(g guest, a []uint32) int32 {
	name := encodedName(g.op, g.read(a[0], a[1]))
	key := decodeOrFatal(g.op, g.read(a[2], a[3]), entities.KeyFromBytes)
	im.host.PutKey(name, key)
	return 0
}

func (im *imports) getKey(g guest, a []uint32) int32 {
	name := encodedName(g.op, g.read(a[0], a[1]))
	key, err := im.host.GetKey(name)
	if err != nil {
		return status(err)
	}
	encoded := key.Bytes()
	if uint32(len(encoded)) > a[3] { //nolint:gosec // G115: a key encodes to at most 34 bytes
		return status(errors.ErrBufferTooSmall)
	}
	g.write(a[2], encoded)
	g.writeSize(a[4], len(encoded))
	return 0
}

func (im *imports) removeKey(g guest, a []uint32) int32 {
	im.host.RemoveKey(encodedName(g.op, g.read(a[0], a[1])))
	return 0
}

func (im *imports) loadNamedKeys(g guest, a []uint32) int32 {
	count, size, err := im.host.LoadNamedKeys()
	if err != nil {
		return status(err)
	}
	g.writeSize(a[0], count)
	g.writeSize(a[1], size)
	return 0
}

func (im *imports) newURef(g guest, a []uint32) int32 {
	value := decodeOrFatal(g.op, g.read(a[1], a[2]), entities.CLValueFromBytes)
	uref := im.host.NewURef(value)
	g.write(a[0], uref.Bytes())
	return 0
}

func (im *imports) readValue(g guest, a []uint32) int32 {
	key, err := entities.KeyFromBytes(g.read(a[0], a[1]))
	if err != nil {
		return status(err)
	}
	size, err := im.host.ReadValue(key)
	if err != nil {
		return status(err)
	}
	g.writeSize(a[2], size)
	return 0
}

func (im *imports) write(g guest, a []uint32) int32 {
	key := decodeOrFatal(g.op, g.read(a[0], a[1]), entities.KeyFromBytes)
	value := decodeOrFatal(g.op, g.read(a[2], a[3]), entities.CLValueFromBytes)
	im.abortOnError(im.host.Write(key, value))
	return 0
}

func (im *imports) add(g guest, a []uint32) int32 {
	key := decodeOrFatal(g.op, g.read(a[0], a[1]), entities.KeyFromBytes)
	value := decodeOrFatal(g.op, g.read(a[2], a[3]), entities.CLValueFromBytes)
	im.abortOnError(im.host.Add(key, value))
	return 0
}

func (im *imports) isValidURef(g guest, a []uint32) int32 {
	uref, err := entities.URefFromBytes(g.read(a[0], a[1]))
	if err != nil || !im.host.IsValidURef(uref) {
		return 0
	}
	return 1
}

func (im *imports) newDictionary(g guest, a []uint32) int32 {
	size, err := im.host.NewDictionary()
	if err != nil {
		return status(err)
	}
	g.writeSize(a[0], size)
	return 0
}

func (im *imports) dictionaryGet(g guest, a []uint32) int32 {
	seed, err := entities.URefFromBytes(g.read(a[0], a[1]))
	if err != nil {
		return status(err)
	}
	itemKey := rawName(g.op, g.read(a[2], a[3]))
	size, err := im.host.DictionaryGet(seed, itemKey)
	if err != nil {
		return status(err)
	}
	g.writeSize(a[4], size)
	return 0
}

func (im *imports) dictionaryPut(g guest, a []uint32) int32 {
	seed, err := entities.URefFromBytes(g.read(a[0], a[1]))
	if err != nil {
		return status(err)
	}
	itemKey := rawName(g.op, g.read(a[2], a[3]))
	value, err := entities.CLValueFromBytes(g.read(a[4], a[5]))
	if err != nil {
		return status(err)
	}
	return status(im.host.DictionaryPut(seed, itemKey, value))
}

func (im *imports) readHostBuffer(g guest, a []uint32) int32 {
	g.checkSize(a[1])
	dest := make([]byte, min(int(a[1]), im.host.HostBufferSize()))
	n, err := im.host.ReadHostBuffer(dest)
	if err != nil {
		return status(err)
	}
	g.write(a[0], dest[:n])
	g.writeSize(a[2], n)
	return 0
}

func (im *imports) getCaller(g guest, a []uint32) int32 {
	size, err := im.host.GetCaller()
	if err != nil {
		return status(err)
	}
	g.writeSize(a[0], size)
	return 0
}

func (im *imports) getBlocktime(g guest, a []uint32) int32 {
	g.writeU64(a[0], im.host.GetBlocktime())
	return 0
}

func (im *imports) getPhase(g guest, a []uint32) int32 {
	g.writeU8(a[0], uint8(im.host.GetPhase()))
	return 0
}

func (im *imports) blake2b(g guest, a []uint32) int32 {
	digest := im.host.Blake2b(g.read(a[0], a[1]))
	if a[3] < uint32(len(digest)) {
		return status(errors.ErrBufferTooSmall)
	}
	g.write(a[2], digest[:])
	return 0
}

func (im *imports) print(g guest, a []uint32) int32 {
	im.host.Print(string(g.read(a[0], a[1])))
	return 0
}

func (im *imports) ret(g guest, a []uint32) int32 {
	im.host.Ret(decodeOrFatal(g.op, g.read(a[0], a[1]), entities.CLValueFromBytes))
	return 0
}

func (im *imports) revert(_ guest, a []uint32) int32 {
	im.host.Revert(errors.ApiError(a[0]))
	return 0
}
