package cookie

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	keySize         = 32
)

type keyPair struct {
	enc []byte
	mac []byte
}

func deriveKeys(secret string) (keyPair, error) {
	enc, err := derive(secret, "superlists-cookie-enc-v1")
	if err != nil {
		return keyPair{}, err
	}
	mac, err := derive(secret, "superlists-cookie-mac-v1")
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{enc: enc, mac: mac}, nil
}

func derive(secret, info string) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, err
	}
	return key, nil
}
