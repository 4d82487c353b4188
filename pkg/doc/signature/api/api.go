/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package api

import (
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/processor"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/proof"
)

// SignatureSuite encapsulates signature suite methods required for signature verification.
type SignatureSuite interface {

	// GetCanonicalDocument will return normalized/canonical version of the document
	GetCanonicalDocument(doc map[string]interface{}, opts ...processor.Opts) ([]byte, error)

	// BuildSignedData assembles the exact byte sequence that was signed from
	// the signature options and the canonical payload
	BuildSignedData(signature *proof.Signature, normalized []byte) ([]byte, error)

	// Verify will verify signature against public key
	Verify(pubKey *PublicKey, signedData []byte, signature []byte) error

	// Accept registers this signature suite with the given signature type
	Accept(signatureType string) bool
}

// PublicKey contains a result of public key resolution.
type PublicKey struct {
	ID      string
	Owner   string
	PEM     []byte
	Revoked bool
}
