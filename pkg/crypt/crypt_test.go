package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/supermart/pkg/crypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := crypt.Encrypt("hello world")
	require.NoError(t, err)
	assert.NotEqual(t, "hello world", enc)

	dec, err := crypt.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "hello world", dec)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, err := crypt.Encrypt("same input")
	require.NoError(t, err)
	b, err := crypt.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per encryption")
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	enc, err := crypt.Encrypt("payload")
	require.NoError(t, err)

	flip := byte('A')
	if enc[len(enc)-1] == 'A' {
		flip = 'B'
	}
	tampered := enc[:len(enc)-1] + string(flip)
	_, err = crypt.Decrypt(tampered)
	assert.Error(t, err)

	_, err = crypt.Decrypt("garbage")
	assert.Error(t, err)
}

func TestEncryptJSONRoundTrip(t *testing.T) {
	type payload struct {
		Nonce string `json:"nonce"`
		N     int    `json:"n"`
	}

	enc, err := crypt.EncryptJSON(payload{Nonce: "abc", N: 7})
	require.NoError(t, err)

	var out payload
	require.NoError(t, crypt.DecryptJSON(enc, &out))
	assert.Equal(t, payload{Nonce: "abc", N: 7}, out)
}
