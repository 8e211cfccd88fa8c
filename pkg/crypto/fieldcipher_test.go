package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := NewFieldCipher(testKey(t))
	require.NoError(t, err)
	return c
}

func TestNewFieldCipher(t *testing.T) {
	t.Run("empty key yields disabled cipher", func(t *testing.T) {
		c, err := NewFieldCipher("")
		require.NoError(t, err)
		assert.False(t, c.Enabled())
	})

	t.Run("rejects short key", func(t *testing.T) {
		_, err := NewFieldCipher(base64.StdEncoding.EncodeToString([]byte("too-short")))
		assert.Error(t, err)
	})

	t.Run("rejects garbage key", func(t *testing.T) {
		_, err := NewFieldCipher("not base64 at all!!!")
		assert.Error(t, err)
	})
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	plain := "2 extra pillows and a late checkout"
	sealed, err := c.EncryptValue(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	opened, err := c.DecryptValue(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestEncryptValueNondeterministic(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.EncryptValue("same input")
	require.NoError(t, err)
	b, err := c.EncryptValue("same input")
	require.NoError(t, err)

	// Fresh nonce each call, so ciphertexts differ.
	assert.NotEqual(t, a, b)
}

func TestIsEncrypted(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.EncryptValue("secret")
	require.NoError(t, err)

	assert.True(t, c.IsEncrypted(sealed))
	assert.False(t, c.IsEncrypted("secret"))
	assert.False(t, c.IsEncrypted(""))
	assert.False(t, c.IsEncrypted("bm90IGEgdmFsaWQgY2lwaGVydGV4dA=="))
}

func TestEncryptFieldsIdempotent(t *testing.T) {
	c := newTestCipher(t)

	phone := "+62-812-0000-1111"
	require.NoError(t, c.EncryptFields(&phone))
	sealed := phone

	// A second pass must not wrap ciphertext in another layer.
	require.NoError(t, c.EncryptFields(&phone))
	assert.Equal(t, sealed, phone)

	c.DecryptFields(&phone)
	assert.Equal(t, "+62-812-0000-1111", phone)
}

func TestEncryptFieldsSkipsNilAndEmpty(t *testing.T) {
	c := newTestCipher(t)

	empty := ""
	require.NoError(t, c.EncryptFields(nil, &empty))
	assert.Equal(t, "", empty)
}

func TestDecryptFieldsFailOpen(t *testing.T) {
	c := newTestCipher(t)

	// Legacy plaintext row: decryption fails, value stays as stored.
	legacy := "plain address from before encryption"
	c.DecryptFields(&legacy)
	assert.Equal(t, "plain address from before encryption", legacy)

	corrupted := "!!!not even base64!!!"
	c.DecryptFields(&corrupted)
	assert.Equal(t, "!!!not even base64!!!", corrupted)
}

func TestDecryptWithWrongKey(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	sealed, err := c1.EncryptValue("secret")
	require.NoError(t, err)

	_, err = c2.DecryptValue(sealed)
	assert.Error(t, err)

	// Fail-open on the bulk path keeps the stored value.
	value := sealed
	c2.DecryptFields(&value)
	assert.Equal(t, sealed, value)
}

func TestDisabledCipher(t *testing.T) {
	c, err := NewFieldCipher("")
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	// Writes of non-empty sensitive values fail loudly.
	phone := "+62-812-0000-1111"
	assert.ErrorIs(t, c.EncryptFields(&phone), ErrNoKey)
	assert.Equal(t, "+62-812-0000-1111", phone)

	// Empty and nil fields have nothing to protect.
	empty := ""
	require.NoError(t, c.EncryptFields(&empty, nil))

	// Reads keep stored values as they are.
	c.DecryptFields(&phone)
	assert.Equal(t, "+62-812-0000-1111", phone)

	_, err = c.EncryptValue("x")
	assert.ErrorIs(t, err, ErrNoKey)
}
