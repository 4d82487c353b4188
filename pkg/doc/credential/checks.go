/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package credential

import "errors"

// runChecks computes the ordered trust checks from the assembled parameters.
// A check appears in the list only when its precondition was reached; if no
// signature was present, the list short-circuits to a single signed=false entry.
func (v *Verifier) runChecks(params *Parameters, errs map[string]error) []Check {
	if params.Signature == nil {
		return []Check{{Name: CheckSigned, Passed: false}}
	}

	checks := []Check{{Name: CheckSigned, Passed: true}}

	checks = append(checks, Check{
		Name:   CheckPublicKeyAccessible,
		Passed: params.PublicKey != nil,
	})

	if params.Identity != nil && params.PublicKey != nil {
		checks = append(checks, Check{
			Name:   CheckPublicKeyOwner,
			Passed: ownsKey(params.Identity, params.PublicKey.ID),
		})
	}

	s := v.suiteFor(params.Signature.Type)

	checks = append(checks, Check{
		Name:   CheckKnownSignatureType,
		Passed: s != nil,
	})

	if params.PublicKey != nil {
		checks = append(checks, Check{
			Name:   CheckPublicKeyNotRevoked,
			Passed: !params.PublicKey.Revoked,
		})
	}

	// signature verification runs only when the type is known and both the
	// key and the canonical signed data were obtained
	if s != nil && params.PublicKey != nil && len(params.SignedData) > 0 {
		var verifyErr error

		if len(params.Signature.SignatureValue) == 0 {
			verifyErr = errors.New("signature value is not defined")
		} else {
			verifyErr = s.Verify(params.PublicKey, params.SignedData, params.Signature.SignatureValue)
		}

		if verifyErr != nil {
			errs[ErrorKeySignature] = &SignatureVerificationError{Err: verifyErr}
		}

		checks = append(checks, Check{
			Name:   CheckSignatureVerified,
			Passed: verifyErr == nil,
		})
	}

	if params.Data != nil {
		checks = append(checks, Check{
			Name:   CheckNotExpired,
			Passed: !params.HasExpiration || params.Expiration.After(v.now()),
		})
	}

	return checks
}

// foldVerified derives the aggregate flag: signed is true and no attempted
// check failed. The verified check itself is never part of the fold's input.
func foldVerified(checks []Check) bool {
	signed := false

	for _, c := range checks {
		if c.Name == CheckSigned {
			signed = c.Passed
		}

		if !c.Passed {
			return false
		}
	}

	return signed
}

// ownsKey reports whether the identity's publicKey relation contains the key
// id, in either bare string or embedded object form.
func ownsKey(identity map[string]interface{}, keyID string) bool {
	if keyID == "" {
		return false
	}

	for _, entry := range relationValues(identity, "publicKey") {
		if refID(entry) == keyID {
			return true
		}
	}

	return false
}

// relationValues returns all values of a named relation of a document.
func relationValues(doc map[string]interface{}, relation string) []interface{} {
	entry, ok := doc[relation]
	if !ok {
		return nil
	}

	if list, ok := entry.([]interface{}); ok {
		return list
	}

	return []interface{}{entry}
}
