/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package suite

import (
	"errors"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/api"
)

// SignatureSuite defines general signature suite structure.
type SignatureSuite struct {
	Verifier verifier
}

type verifier interface {
	// Verify will verify a signature.
	Verify(pubKeyValue *api.PublicKey, doc, signature []byte) error
}

// Opt is the SignatureSuite option.
type Opt func(opts *SignatureSuite)

// WithVerifier defines a verifier for the Signature Suite.
func WithVerifier(v verifier) Opt {
	return func(opts *SignatureSuite) {
		opts.Verifier = v
	}
}

// InitSuiteOptions initializes signature suite with options.
func InitSuiteOptions(suite *SignatureSuite, opts ...Opt) *SignatureSuite {
	for _, opt := range opts {
		opt(suite)
	}

	return suite
}

// Verify will verify a signature.
func (s *SignatureSuite) Verify(pubKeyValue *api.PublicKey, doc, signature []byte) error {
	if s.Verifier == nil {
		return ErrVerifierNotDefined
	}

	return s.Verifier.Verify(pubKeyValue, doc, signature)
}

// ErrVerifierNotDefined is returned when Verify() is called but verifier option is not defined.
var ErrVerifierNotDefined = errors.New("verifier is not defined")
