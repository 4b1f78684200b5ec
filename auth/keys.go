package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Keys are the secrets derived from SESSION_SECRET.
type Keys struct {
	CookieHash  []byte
	CookieBlock []byte
	JWT         []byte
}

// DeriveKeys expands one master secret into independent keys, so the cookie
// signature, cookie encryption and JWT signature never share key material.
func DeriveKeys(secret string) (Keys, error) {
	derive := func(info string, size int) ([]byte, error) {
		key := make([]byte, size)
		r := hkdf.New(sha256.New, []byte(secret), nil, []byte("ghagga-dashboard/"+info))
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("derive %s key: %w", info, err)
		}
		return key, nil
	}

	var (
		k   Keys
		err error
	)
	if k.CookieHash, err = derive("cookie-hash", 64); err != nil {
		return Keys{}, err
	}
	if k.CookieBlock, err = derive("cookie-block", 32); err != nil {
		return Keys{}, err
	}
	if k.JWT, err = derive("jwt", 32); err != nil {
		return Keys{}, err
	}
	return k, nil
}
