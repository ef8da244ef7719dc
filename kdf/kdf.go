package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/wippyai/async-bridge/errors"
)

const hashOutputSize = sha256.Size

// KDF derives secrets with HKDF-SHA256, versioned by protocol message
// version. Version 3 is RFC 5869; version 2 is the legacy variant whose
// expand counter starts at zero. The two produce different output for
// identical inputs, so the version is fixed at construction.
type KDF struct {
	iterationStartOffset byte
}

// New returns the KDF for a protocol message version.
// Versions other than 2 and 3 are rejected.
func New(messageVersion uint32) (KDF, error) {
	switch messageVersion {
	case 2:
		return KDF{iterationStartOffset: 0}, nil
	case 3:
		return KDF{iterationStartOffset: 1}, nil
	default:
		return KDF{}, errors.InvalidInput(errors.PhaseCreate,
			fmt.Sprintf("unrecognized message version <%d>", messageVersion))
	}
}

// DeriveSecrets derives outLen bytes with a zero salt.
func (k KDF) DeriveSecrets(inputKeyMaterial, info []byte, outLen int) ([]byte, error) {
	return k.DeriveSaltedSecrets(inputKeyMaterial, make([]byte, hashOutputSize), info, outLen)
}

// DeriveSaltedSecrets derives outLen bytes of keying material.
func (k KDF) DeriveSaltedSecrets(inputKeyMaterial, salt, info []byte, outLen int) ([]byte, error) {
	if outLen <= 0 || outLen > 255*hashOutputSize {
		return nil, errors.InvalidInput(errors.PhaseRun,
			fmt.Sprintf("output length %d out of range", outLen))
	}

	if k.iterationStartOffset == 1 {
		out := make([]byte, outLen)
		if _, err := io.ReadFull(hkdf.New(sha256.New, inputKeyMaterial, salt, info), out); err != nil {
			return nil, errors.New(errors.PhaseRun, errors.KindInvalidInput).
				Detail("hkdf expand").
				Cause(err).
				Build()
		}
		return out, nil
	}

	prk := extract(salt, inputKeyMaterial)
	return k.expand(prk, info, outLen), nil
}

func extract(salt, inputKeyMaterial []byte) []byte {
	mac := hmac.New(sha256.New, salt)
	mac.Write(inputKeyMaterial)
	return mac.Sum(nil)
}

// expand is the legacy v2 expansion: block counter starts at the
// version offset instead of 1.
func (k KDF) expand(prk, info []byte, outLen int) []byte {
	iterations := (outLen + hashOutputSize - 1) / hashOutputSize
	result := make([]byte, 0, iterations*hashOutputSize)
	mac := hmac.New(sha256.New, prk)

	for i := 0; i < iterations; i++ {
		if len(result) >= hashOutputSize {
			mac.Write(result[len(result)-hashOutputSize:])
		}
		mac.Write(info)
		mac.Write([]byte{byte(i) + k.iterationStartOffset})
		result = mac.Sum(result)
		mac.Reset()
	}

	return result[:outLen]
}
