package entities

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedKeys(t *testing.T) {
	nk := NewNamedKeys()
	assert.Equal(t, 0, nk.Len())
	assert.False(t, nk.Has("name"))

	nk.Put("name", AccountKey(addr(1)))
	nk.Put("symbol", HashKey(addr(2)))
	nk.Put("name", AccountKey(addr(3)))

	assert.Equal(t, []string{"name", "symbol"}, nk.Names())
	got, ok := nk.Get("name")
	require.True(t, ok)
	assert.Equal(t, AccountKey(addr(3)), got)

	decoded, err := NamedKeysFromBytes(nk.Bytes())
	require.NoError(t, err)
	assert.Equal(t, nk.Names(), decoded.Names())

	nk.Remove("name")
	nk.Remove("absent")
	assert.Equal(t, []string{"symbol"}, nk.Names())
}

func TestRuntimeArgs(t *testing.T) {
	args := NewRuntimeArgs(
		Arg("name", "Name"),
		Arg("decimals", uint8(100)),
		Arg("total_supply", uint256.NewInt(1_000_000)),
	)
	assert.Equal(t, 3, args.Len())
	assert.Equal(t, []string{"name", "decimals", "total_supply"}, args.Names())

	v, ok := args.Get("decimals")
	require.True(t, ok)
	assert.Equal(t, 1, v.InnerLen())

	require.Error(t, args.Insert("bad", 1.5))

	decoded, err := RuntimeArgsFromBytes(args.Bytes())
	require.NoError(t, err)
	assert.Equal(t, args.Names(), decoded.Names())
	for _, name := range args.Names() {
		want, _ := args.Get(name)
		got, ok := decoded.Get(name)
		require.True(t, ok)
		assert.True(t, want.Equal(got), name)
	}
}
