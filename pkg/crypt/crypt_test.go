package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/pkg/crypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	out, err := crypt.Encrypt("hola almacén")
	require.NoError(t, err)
	assert.NotEqual(t, "hola almacén", out)

	back, err := crypt.Decrypt(out)
	require.NoError(t, err)
	assert.Equal(t, "hola almacén", back)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	out, err := crypt.Encrypt("payload")
	require.NoError(t, err)

	tampered := out[:len(out)-2] + "zz"
	_, err = crypt.Decrypt(tampered)
	assert.Error(t, err)
}

func TestEncryptJSONRoundTrip(t *testing.T) {
	in := map[string]interface{}{"user_id": float64(7), "nombre": "Ana"}

	enc, err := crypt.EncryptJSON(in)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, crypt.DecryptJSON(enc, &out))
	assert.Equal(t, in, out)
}

func TestHashIsDeterministic(t *testing.T) {
	assert.Equal(t, crypt.Hash("abc"), crypt.Hash("abc"))
	assert.NotEqual(t, crypt.Hash("abc"), crypt.Hash("abd"))
}
