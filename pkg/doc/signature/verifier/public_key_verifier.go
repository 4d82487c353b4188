/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifier implements cryptographic verification of linked-data
// signatures against resolved public keys.
package verifier

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/api"
)

// SignatureVerifier makes signature verification of a certain algorithm.
type SignatureVerifier interface {
	// Verify will verify a signature.
	Verify(pubKey *api.PublicKey, msg, signature []byte) error
}

// PublicKeyVerifier makes signature verification using the public key
// based on one or several signature algorithms.
type PublicKeyVerifier struct {
	verifiers []SignatureVerifier
}

// NewPublicKeyVerifier creates a new PublicKeyVerifier based on the given signature algorithms.
func NewPublicKeyVerifier(verifiers ...SignatureVerifier) *PublicKeyVerifier {
	return &PublicKeyVerifier{verifiers: verifiers}
}

// Verify verifies the signature, trying each configured algorithm.
func (pkv *PublicKeyVerifier) Verify(pubKey *api.PublicKey, msg, signature []byte) error {
	if len(pkv.verifiers) == 0 {
		return errors.New("no signature verifiers configured")
	}

	var lastErr error

	for _, v := range pkv.verifiers {
		lastErr = v.Verify(pubKey, msg, signature)
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}

// RSASHA256Verifier verifies an RSA PKCS#1 v1.5 signature over the SHA-256
// digest of the message, taking the public key from its PEM encoding.
type RSASHA256Verifier struct{}

// NewRSASHA256Verifier creates a new RSASHA256Verifier.
func NewRSASHA256Verifier() *RSASHA256Verifier {
	return &RSASHA256Verifier{}
}

// Verify verifies the signature. Both a crypto-level mismatch and a malformed
// key surface as an error; the caller decides how to record it.
func (v *RSASHA256Verifier) Verify(pubKey *api.PublicKey, msg, signature []byte) error {
	key, err := parseRSAPublicKeyPEM(pubKey.PEM)
	if err != nil {
		return err
	}

	digest := sha256.Sum256(msg)

	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature); err != nil {
		return fmt.Errorf("rsa: invalid signature: %w", err)
	}

	return nil
}

func parseRSAPublicKeyPEM(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("public key not found in PEM")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// some issuers still publish PKCS#1 keys
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, fmt.Errorf("parse public key PEM: %w", err)
		}

		return pkcs1Key, nil
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type %T", key)
	}

	return rsaKey, nil
}
