/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"errors"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/util/maphelpers"
)

const jsonldSignature = "signature"

// GetSignature extracts the signature block from an LD object. It errors only
// when the block is absent or not an object; a present block always yields a
// Signature, unusable fields included.
func GetSignature(jsonLdObject map[string]interface{}) (*Signature, error) {
	entry, ok := jsonLdObject[jsonldSignature]
	if !ok {
		return nil, ErrSignatureNotFound
	}

	emap, ok := entry.(map[string]interface{})
	if !ok {
		return nil, errors.New("expecting signature to be map[string]interface{}")
	}

	return NewSignature(emap), nil
}

// GetCopyWithoutSignature gets a copy of an LD object with the signature detached.
func GetCopyWithoutSignature(jsonLdObject map[string]interface{}) map[string]interface{} {
	if jsonLdObject == nil {
		return nil
	}

	return maphelpers.CopyMapWithoutKey(jsonLdObject, jsonldSignature)
}
