package hostfuncs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/internal/testutil"
)

func TestNewURef_DistinctAddresses(t *testing.T) {
	h := executing(t, nil)

	seen := make(map[[entities.AddrLength]byte]bool)
	for i := 0; i < 50; i++ {
		u := h.NewURef(entities.MustCLValue(uint64(i)))
		require.False(t, seen[u.Addr()], "address reused at %d", i)
		seen[u.Addr()] = true

		assert.Equal(t, entities.AccessReadAddWrite, u.Rights())
		assert.True(t, h.IsValidURef(u))
	}
	assert.Equal(t, 50, h.Store().Len())
}

func TestNewURef_StoresValue(t *testing.T) {
	h := executing(t, nil)
	u := h.NewURef(entities.MustCLValue("Symbol"))

	got, err := h.Store().Read(u.Key())
	require.NoError(t, err)
	testutil.AssertCLValueEqual(t, entities.MustCLValue("Symbol"), got)
}

func TestNewURef_CollidingSourceHalts(t *testing.T) {
	h := executing(t, nil, WithRandomSource(testutil.ConstantReader(7)))
	h.NewURef(entities.Unit)

	testutil.RequireFatal(t, nil, func() { h.NewURef(entities.Unit) })
}

func TestIsValidURef(t *testing.T) {
	h := executing(t, nil)
	u := h.NewURef(entities.Unit)

	assert.True(t, h.IsValidURef(u.WithRights(entities.AccessRead)), "attenuated rights are valid")
	assert.False(t, h.IsValidURef(entities.NewURef([32]byte{0xee}, entities.AccessRead)), "forged address")

	h2 := executing(t, nil)
	readOnly := h2.NewURef(entities.Unit).WithRights(entities.AccessRead)
	h2.granted[readOnly.Addr()] = entities.AccessRead
	assert.False(t, h2.IsValidURef(readOnly.WithRights(entities.AccessReadWrite)), "escalated rights")
}
