package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"math/big"

	"github.com/google/uuid"
)

// Random generates OTCs, passwords and voucher secrets. The source defaults
// to crypto/rand.Reader, which is safe to share across concurrent requests;
// tests may inject a deterministic reader.
type Random struct {
	src io.Reader
}

func NewRandom() *Random {
	return &Random{src: rand.Reader}
}

func NewRandomFromReader(src io.Reader) *Random {
	return &Random{src: src}
}

// UUID returns a random identifier, used for OTCs and voucher IDs.
func (r *Random) UUID() (uuid.UUID, error) {
	return uuid.NewRandomFromReader(r.src)
}

// Password returns a human-typable password drawn from a lowercase
// letter/digit alphabet without lookalike characters.
func (r *Random) Password(length int) (string, error) {
	const alphabet = "abcdefghijkmnpqrstuvwxyz23456789"
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(r.src, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// Secret returns length random bytes encoded as standard base64.
func (r *Random) Secret(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(r.src, b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
