/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package credential

import "fmt"

// Error map keys. Each key names the pipeline stage that produced the error.
const (
	// ErrorKeyData is set when the credential cannot be resolved or framed,
	// or carries no usable signature block. Fatal for the whole run.
	ErrorKeyData = "data"

	// ErrorKeyPublicKey is set when the signer's public key cannot be
	// resolved or framed. The pipeline continues in degraded mode.
	ErrorKeyPublicKey = "publicKey"

	// ErrorKeyPublicKeyOwner is set when the key owner's identity cannot be
	// resolved or matched against any known identity shape.
	ErrorKeyPublicKeyOwner = "publicKeyOwner"

	// ErrorKeyNormalization is set when canonicalization of the claims
	// payload fails. Fatal for the rest of the run.
	ErrorKeyNormalization = "normalization"

	// ErrorKeySignature is set when the signature cannot be verified: a
	// missing or undecodable signature value, or a cryptographic mismatch.
	ErrorKeySignature = "signature"

	// ErrorKeyCompact is set when final compaction of the verified data
	// fails. Cosmetic; never affects the verified flag.
	ErrorKeyCompact = "compact"
)

// FramingError indicates that no object in a document matched the requested shape.
type FramingError struct {
	Shape string
	Err   error
}

func (e *FramingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no object matching shape %q", e.Shape)
	}

	return fmt.Sprintf("frame %q: %s", e.Shape, e.Err)
}

func (e *FramingError) Unwrap() error {
	return e.Err
}

// NormalizationError indicates that canonicalization of a document failed.
type NormalizationError struct {
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize document: %s", e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// SignatureVerificationError indicates a crypto failure or signature mismatch.
type SignatureVerificationError struct {
	Err error
}

func (e *SignatureVerificationError) Error() string {
	return fmt.Sprintf("verify signature: %s", e.Err)
}

func (e *SignatureVerificationError) Unwrap() error {
	return e.Err
}

// CompactionError indicates that compacting the verified data failed.
type CompactionError struct {
	Err error
}

func (e *CompactionError) Error() string {
	return fmt.Sprintf("compact verified data: %s", e.Err)
}

func (e *CompactionError) Unwrap() error {
	return e.Err
}
