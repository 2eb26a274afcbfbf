package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashIsSaltedAndVerifies(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("adminpass")
	require.NoError(t, err)
	second, err := h.Hash("adminpass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.NotEqual(t, "adminpass", first)
	assert.True(t, h.Verify("adminpass", first))
	assert.True(t, h.Verify("adminpass", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("editorpass")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		plain string
		hash  string
		want  bool
	}{
		{name: "matching password", plain: "editorpass", hash: hash, want: true},
		{name: "wrong password", plain: "adminpass", hash: hash, want: false},
		{name: "empty hash", plain: "editorpass", hash: "", want: false},
		{name: "malformed hash", plain: "editorpass", hash: "not-a-bcrypt-hash", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, h.Verify(tc.plain, tc.hash))
		})
	}
}

func TestNewBcryptHasher_OutOfRangeCostUsesDefault(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}
