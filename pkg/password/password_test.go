package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndMatch(t *testing.T) {
	hashed, err := Hash("pw1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", hashed)
	assert.True(t, Matches(hashed, "pw1"))
	assert.False(t, Matches(hashed, "pw2"))
	assert.False(t, Matches("plaintext", "plaintext"))
}

func TestHashOutOfRangeCostFallsBack(t *testing.T) {
	hashed, err := Hash("pw1", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBurnMatchesConfiguredCost(t *testing.T) {
	assert.NotPanics(t, func() { Burn("anything", bcrypt.MinCost) })

	cost, err := bcrypt.Cost(dummyHash(bcrypt.MinCost))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	cost, err = bcrypt.Cost(dummyHash(bcrypt.MinCost + 1))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	assert.Same(t, &dummyHash(bcrypt.MinCost)[0], &dummyHash(bcrypt.MinCost)[0])
}
