package kraken

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// testSecret is the base64 encoding of the bytes 0x00 through 0x1f.
	testSecret = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="

	testPath  = "/0/private/Balance"
	testNonce = "1616492376594"
	testBody  = "nonce=1616492376594"

	testSignature = "GPbZTmbO/Va8fwTjsl8l3BQCXkE5h76PFpULWt+91/7gtoU/kPbAfpc2j2YzEfXVxqaL/nLaFdc7L5KV1PJFZA=="
)

func TestSignKnownVector(t *testing.T) {
	signature, err := Sign(testSecret, testPath, testNonce, []byte(testBody))

	require.NoError(t, err)
	assert.Equal(t, testSignature, signature)
}

func TestSignDocumentedAddOrderVector(t *testing.T) {
	// NOTE ~> This is the worked example published in Kraken's REST API authentication guide.
	secret := "kQH5HW/8p1uGOVjbgWA7FunAmGO8lsSUXNsu3eow76sz84Q18fWxnyRzBHCd3pd5nE9qa99HAZtuZuj6F1huXg=="
	body := "nonce=1616492376594&ordertype=limit&pair=XBTUSD&price=37500&type=buy&volume=1.25"

	signature, err := Sign(secret, "/0/private/AddOrder", "1616492376594", []byte(body))

	require.NoError(t, err)
	assert.Equal(t, "4/dpxb3iT4tp/ZCVEwSnEsLxx0bqyhLpdfOpc6fn7OR8+UClSV5n9E6aSS8MPtnRfp32bAb0nmbRn6H8ndwLUQ==", signature)
}

func TestSignIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		signature, err := Sign(testSecret, testPath, testNonce, []byte(testBody))

		require.NoError(t, err)
		assert.Equal(t, testSignature, signature)
	}
}

func TestSignDecodesToSixtyFourBytes(t *testing.T) {
	for _, body := range []string{"", testBody, "nonce=1&pair=XBTUSD&volume=1"} {
		signature, err := Sign(testSecret, testPath, testNonce, []byte(body))
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(signature)
		require.NoError(t, err)
		assert.Len(t, raw, 64)
	}
}

func TestSignIsTamperSensitive(t *testing.T) {
	flip := func(s string, i int) string {
		b := []byte(s)
		b[i] ^= 0x01

		return string(b)
	}

	for i := range testBody {
		signature, err := Sign(testSecret, testPath, testNonce, []byte(flip(testBody, i)))
		require.NoError(t, err)
		assert.NotEqual(t, testSignature, signature, "flipping body byte %d did not change the signature", i)
	}

	for i := range testPath {
		signature, err := Sign(testSecret, flip(testPath, i), testNonce, []byte(testBody))
		require.NoError(t, err)
		assert.NotEqual(t, testSignature, signature, "flipping path byte %d did not change the signature", i)
	}

	for i := range testNonce {
		signature, err := Sign(testSecret, testPath, flip(testNonce, i), []byte(testBody))
		require.NoError(t, err)
		assert.NotEqual(t, testSignature, signature, "flipping nonce byte %d did not change the signature", i)
	}
}

func TestSignBindsPathSeparatelyFromBody(t *testing.T) {
	// NOTE ~> Moving the same body to another endpoint must not replay.
	balance, err := Sign(testSecret, "/0/private/Balance", testNonce, []byte(testBody))
	require.NoError(t, err)

	orders, err := Sign(testSecret, "/0/private/OpenOrders", testNonce, []byte(testBody))
	require.NoError(t, err)

	assert.NotEqual(t, balance, orders)
}

func TestSignRejectsUnusableSecrets(t *testing.T) {
	for _, secret := range []string{"", "not base64!", "AAECAwQ"} {
		_, err := Sign(secret, testPath, testNonce, []byte(testBody))

		var configErr *ConfigError
		assert.ErrorAs(t, err, &configErr, "secret %q", secret)
	}
}

func TestVerify(t *testing.T) {
	ok, err := Verify(testSecret, testPath, testNonce, []byte(testBody), testSignature)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(testSecret, testPath, testNonce, []byte(testBody+"&x=1"), testSignature)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Verify(testSecret, testPath, testNonce, []byte(testBody), "%%%")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Verify("", testPath, testNonce, []byte(testBody), testSignature)
	assert.Error(t, err)
}
