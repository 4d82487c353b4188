/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"time"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/api"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/proof"
)

// Check names, in the order the checks run.
const (
	// CheckSigned is true when a signature sub-object was present.
	CheckSigned = "signed"

	// CheckPublicKeyAccessible is true when the public key document was resolved.
	CheckPublicKeyAccessible = "publicKeyAccessible"

	// CheckPublicKeyOwner is true when the identity's public key list contains the key.
	CheckPublicKeyOwner = "publicKeyOwner"

	// CheckKnownSignatureType is true when the signature type matched a known suite.
	CheckKnownSignatureType = "knownSignatureType"

	// CheckPublicKeyNotRevoked is true when the key document lacks a revocation marker.
	CheckPublicKeyNotRevoked = "publicKeyNotRevoked"

	// CheckSignatureVerified is true when cryptographic verification succeeded.
	CheckSignatureVerified = "signatureVerified"

	// CheckNotExpired is true when the claims payload has no expiration, or it
	// lies in the future.
	CheckNotExpired = "notExpired"

	// CheckVerified is the aggregate: signed is true and no attempted check failed.
	CheckVerified = "verified"
)

// Check is a single named boolean trust check. A check that does not appear in
// a Result was never attempted; absence is distinct from false.
type Check struct {
	Name   string
	Passed bool
}

// Parameters is the run-scoped bundle assembled for one verification call.
// It is owned exclusively by that call and may be incomplete when stages failed.
type Parameters struct {
	// Data is the claims payload: the framed credential with the signature detached.
	Data map[string]interface{}

	// Signature is the extracted signature block.
	Signature *proof.Signature

	// PublicKey is the resolved signer's key.
	PublicKey *api.PublicKey

	// Identity is the framed document describing the key's owner.
	Identity map[string]interface{}

	// Normalized is the canonical form of the claims payload.
	Normalized []byte

	// SignedData is the full byte sequence that the signature covers.
	SignedData []byte

	// HasExpiration reports whether the claims payload carries an expires value.
	HasExpiration bool

	// Expiration is the parsed expires value, when present.
	Expiration time.Time

	// VerifiedData is the claims payload compacted back to minimal form.
	VerifiedData map[string]interface{}
}

// Result is the outcome of a verification run. It is always produced, even on
// partial failure; the pipeline never raises past its own boundary.
type Result struct {
	// Params is the parameter bundle, possibly incomplete.
	Params *Parameters

	// Checks are the attempted checks, in execution order, with the aggregate
	// "verified" check appended last.
	Checks []Check

	// Errors maps a pipeline stage key (ErrorKey*) to the failure it recorded.
	Errors map[string]error

	// Verified is true iff the credential was signed and no attempted check failed.
	Verified bool
}

// Tests returns the checks as a name to value mapping, including "verified".
func (r *Result) Tests() map[string]bool {
	tests := make(map[string]bool, len(r.Checks))

	for _, c := range r.Checks {
		tests[c.Name] = c.Passed
	}

	return tests
}

// Check returns the value of a named check and whether it was attempted.
func (r *Result) Check(name string) (passed, attempted bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Passed, true
		}
	}

	return false, false
}
