// Package payload implements the encrypted and signed JSON envelopes the
// registry exchanges with Sources and POS instruments. Payloads are JSON
// objects encrypted with AES-256-GCM under a per-payload session key, which
// is wrapped with the recipient's RSA public key (OAEP). Signatures are
// RSA-PSS over the JSON encoding.
package payload

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// SessionKeyLength is the required length in bytes of symmetric session keys.
const SessionKeyLength = 32

var (
	ErrMalformedPayload  = errors.New("payload: malformed base64 payload")
	ErrInvalidSessionKey = fmt.Errorf("payload: session key must be exactly %d bytes", SessionKeyLength)
	ErrBadSignature      = errors.New("payload: signature verification failed")
)

// envelope is the wire form of an encrypted payload. JSON base64-encodes the
// byte fields, and the whole envelope is base64-encoded again for transport.
type envelope struct {
	Key   []byte `json:"key"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// SignedPayload carries a base64 JSON payload and its detached signature.
type SignedPayload struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// ValidateSessionKey rejects session keys that are not exactly
// SessionKeyLength bytes.
func ValidateSessionKey(key []byte) error {
	if len(key) != SessionKeyLength {
		return ErrInvalidSessionKey
	}
	return nil
}

// Encrypt JSON-encodes value and seals it for the holder of key.
func Encrypt[T any](value T, key *rsa.PublicKey) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("payload: encode plaintext: %w", err)
	}

	sessionKey := make([]byte, SessionKeyLength)
	if _, err := rand.Read(sessionKey); err != nil {
		return "", fmt.Errorf("payload: generate session key: %w", err)
	}

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, key, sessionKey, nil)
	if err != nil {
		return "", fmt.Errorf("payload: wrap session key: %w", err)
	}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return "", fmt.Errorf("payload: init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("payload: init gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("payload: generate nonce: %w", err)
	}

	env := envelope{
		Key:   wrappedKey,
		Nonce: nonce,
		Data:  gcm.Seal(nil, nonce, plaintext, nil),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("payload: encode envelope: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decrypt opens a payload produced by Encrypt and JSON-decodes it into T.
func Decrypt[T any](payload string, key *rsa.PrivateKey) (T, error) {
	var value T

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return value, ErrMalformedPayload
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return value, fmt.Errorf("payload: decode envelope: %w", err)
	}

	sessionKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, key, env.Key, nil)
	if err != nil {
		return value, fmt.Errorf("payload: unwrap session key: %w", err)
	}
	if err := ValidateSessionKey(sessionKey); err != nil {
		return value, err
	}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return value, fmt.Errorf("payload: init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return value, fmt.Errorf("payload: init gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Data, nil)
	if err != nil {
		return value, fmt.Errorf("payload: open payload: %w", err)
	}

	if err := json.Unmarshal(plaintext, &value); err != nil {
		return value, fmt.Errorf("payload: decode plaintext: %w", err)
	}
	return value, nil
}

// Sign JSON-encodes value and signs it with key.
func Sign[T any](value T, key *rsa.PrivateKey) (SignedPayload, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return SignedPayload{}, fmt.Errorf("payload: encode plaintext: %w", err)
	}

	digest := sha256.Sum256(plaintext)
	sig, err := rsa.SignPSS(rand.Reader, key, crypto.SHA256, digest[:], nil)
	if err != nil {
		return SignedPayload{}, fmt.Errorf("payload: sign: %w", err)
	}

	return SignedPayload{
		Payload:   base64.StdEncoding.EncodeToString(plaintext),
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// Verify checks the signature of a signed payload against key and decodes
// the payload into T.
func Verify[T any](sp SignedPayload, key *rsa.PublicKey) (T, error) {
	var value T

	plaintext, err := base64.StdEncoding.DecodeString(sp.Payload)
	if err != nil {
		return value, ErrMalformedPayload
	}
	sig, err := base64.StdEncoding.DecodeString(sp.Signature)
	if err != nil {
		return value, ErrMalformedPayload
	}

	digest := sha256.Sum256(plaintext)
	if err := rsa.VerifyPSS(key, crypto.SHA256, digest[:], sig, nil); err != nil {
		return value, ErrBadSignature
	}

	if err := json.Unmarshal(plaintext, &value); err != nil {
		return value, fmt.Errorf("payload: decode plaintext: %w", err)
	}
	return value, nil
}
