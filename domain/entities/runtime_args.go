package entities

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/casper-native/erc20-host/wireformat"
)

// NamedArg is a single runtime argument.
type NamedArg struct {
	Name  string
	Value CLValue
}

// Arg builds a NamedArg from a Go value. It panics if the value has no CLType
// mapping, which makes it suitable for argument literals.
func Arg(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: MustCLValue(value)}
}

// RuntimeArgs is the insertion-ordered set of named arguments bound to one invocation.
type RuntimeArgs struct {
	args *orderedmap.OrderedMap[string, CLValue]
}

// NewRuntimeArgs creates RuntimeArgs holding args in order. A repeated name keeps
// its first position and takes the last value.
func NewRuntimeArgs(args ...NamedArg) *RuntimeArgs {
	ra := &RuntimeArgs{args: orderedmap.New[string, CLValue]()}
	for _, a := range args {
		ra.Set(a.Name, a.Value)
	}
	return ra
}

// Set binds name to value.
func (a *RuntimeArgs) Set(name string, value CLValue) {
	a.args.Set(name, value)
}

// Insert converts value with CLValueFrom and binds it to name.
func (a *RuntimeArgs) Insert(name string, value any) error {
	v, err := CLValueFrom(value)
	if err != nil {
		return fmt.Errorf("argument %q: %w", name, err)
	}
	a.Set(name, v)
	return nil
}

// Get returns the value bound to name.
func (a *RuntimeArgs) Get(name string) (CLValue, bool) {
	return a.args.Get(name)
}

// Len returns the number of arguments.
func (a *RuntimeArgs) Len() int {
	return a.args.Len()
}

// Names returns argument names in insertion order.
func (a *RuntimeArgs) Names() []string {
	names := make([]string, 0, a.args.Len())
	for pair := a.args.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Bytes encodes the arguments as a u32 count followed by (name, value) pairs.
func (a *RuntimeArgs) Bytes() []byte {
	enc := wireformat.NewEncoder(64)
	enc.U32(uint32(a.args.Len())) //nolint:gosec // G115: bounded by memory
	for pair := a.args.Oldest(); pair != nil; pair = pair.Next() {
		enc.String(pair.Key)
		pair.Value.Encode(enc)
	}
	return enc.Bytes()
}

// RuntimeArgsFromBytes decodes the encoding produced by Bytes.
func RuntimeArgsFromBytes(p []byte) (*RuntimeArgs, error) {
	dec := wireformat.NewDecoder(p)
	n, err := dec.U32()
	if err != nil {
		return nil, err
	}
	ra := NewRuntimeArgs()
	for i := uint32(0); i < n; i++ {
		name, err := dec.String()
		if err != nil {
			return nil, err
		}
		v, err := DecodeCLValue(dec)
		if err != nil {
			return nil, err
		}
		ra.Set(name, v)
	}
	return ra, dec.Finish()
}
