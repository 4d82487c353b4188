/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

// Package proof holds the model of a linked-data signature block and helpers
// for extracting it from a JSON-LD object.
package proof

import (
	"encoding/base64"
	"errors"

	"github.com/hyperledger/aries-framework-go/component/log"

	aftime "github.com/digitalbazaar/opencred-verifier/pkg/doc/util/time"
)

var logger = log.New("opencred-verifier/proof")

const (
	// jsonldType is key for signature type.
	jsonldType = "type"
	// jsonldCreator is key for the signer's public key reference.
	jsonldCreator = "creator"
	// jsonldCreated is key for time the signature was created.
	jsonldCreated = "created"
	// jsonldDomain is key for domain name.
	jsonldDomain = "domain"
	// jsonldNonce is key for nonce.
	jsonldNonce = "nonce"
	// jsonldSignatureValue is key for the encoded signature.
	jsonldSignatureValue = "signatureValue"
)

const (
	// SignatureTypeGraphSignature2012 is a legacy graph signature type.
	SignatureTypeGraphSignature2012 = "GraphSignature2012"

	// SignatureTypeLinkedDataSignature2015 is the 2015 linked-data signature type.
	SignatureTypeLinkedDataSignature2015 = "LinkedDataSignature2015"
)

// ErrSignatureNotFound is returned when a document carries no signature block.
var ErrSignatureNotFound = errors.New("signature not found")

// Signature is a cryptographic signature block of a linked-data document.
// It is immutable once extracted. Nonce and Domain are pointers so that an
// entry that is present but empty stays distinct from an absent one; Created
// and SignatureValue are unset when the block carries no usable value.
type Signature struct {
	Type           string
	Creator        string
	Created        *aftime.TimeWrapper
	Nonce          *string
	Domain         *string
	SignatureValue []byte
}

// NewSignature creates a Signature from a JSON-LD signature object. Extraction
// is tolerant: an unparsable created or signature value leaves the field unset,
// so the failure surfaces in signature verification rather than here.
func NewSignature(emap map[string]interface{}) *Signature {
	var created *aftime.TimeWrapper

	if createdStr := stringEntry(emap[jsonldCreated]); createdStr != "" {
		tm, err := aftime.ParseTimeWrapper(createdStr)
		if err != nil {
			logger.Debugf("unparsable created %q: %s", createdStr, err)
		} else {
			created = tm
		}
	}

	var signatureValue []byte

	if encoded := stringEntry(emap[jsonldSignatureValue]); encoded != "" {
		value, err := decodeBase64(encoded)
		if err != nil {
			logger.Debugf("undecodable signature value: %s", err)
		} else {
			signatureValue = value
		}
	}

	return &Signature{
		Type:           stringEntry(emap[jsonldType]),
		Creator:        stringEntry(emap[jsonldCreator]),
		Created:        created,
		Nonce:          stringEntryPtr(emap, jsonldNonce),
		Domain:         stringEntryPtr(emap, jsonldDomain),
		SignatureValue: signatureValue,
	}
}

func decodeBase64(s string) ([]byte, error) {
	allEncodings := []*base64.Encoding{
		base64.StdEncoding, base64.RawURLEncoding, base64.RawStdEncoding,
	}

	for _, encoding := range allEncodings {
		value, err := encoding.DecodeString(s)
		if err == nil {
			return value, nil
		}
	}

	return nil, errors.New("unsupported encoding")
}

func stringEntry(entry interface{}) string {
	switch e := entry.(type) {
	case string:
		return e
	case map[string]interface{}:
		// framed literals may stay in expanded object form
		if v, ok := e["@value"].(string); ok {
			return v
		}
	}

	return ""
}

// stringEntryPtr keeps a present-but-empty entry distinct from an absent or
// null one.
func stringEntryPtr(emap map[string]interface{}, key string) *string {
	entry, ok := emap[key]
	if !ok || entry == nil {
		return nil
	}

	v := stringEntry(entry)

	return &v
}
