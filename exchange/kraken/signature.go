package kraken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
)

//
// Sign computes the value of the API-Sign header for a private request:
//
//   base64(HMAC-SHA512(base64decode(secret), path + SHA256(nonce + body)))
//
// The nonce must be the same value that appears in the body, and the body must be byte-identical to
// what will be transmitted.
//
func Sign(secret string, path string, nonce string, body []byte) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	//
	// Hash the nonce followed directly by the body.
	//
	inner := sha256.New()
	inner.Write([]byte(nonce))
	inner.Write(body)

	//
	// Authenticate the path followed directly by the raw 32-byte digest.
	//
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(path))
	mac.Write(inner.Sum(nil))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

//
// Verify recomputes the signature for the provided inputs and compares it against the provided one
// in constant time. A signature that is not valid base64 simply does not verify.
//
func Verify(secret string, path string, nonce string, body []byte, signature string) (bool, error) {
	expected, err := Sign(secret, path, nonce, body)
	if err != nil {
		return false, err
	}

	given, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, nil
	}

	want, _ := base64.StdEncoding.DecodeString(expected)

	return hmac.Equal(want, given), nil
}

func decodeSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, newConfigError(nil, "API secret is empty")
	}

	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, newConfigError(err, "API secret is not valid base64")
	}

	if len(key) == 0 {
		return nil, newConfigError(nil, "API secret decodes to zero bytes")
	}

	return key, nil
}
