/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

// Package graphsignature2012 implements the legacy GraphSignature2012 signature
// suite. It uses the URGNA2012 RDF graph canonicalization algorithm and signs
// the concatenation of nonce (when present), creation timestamp and canonical
// payload, with no separators.
package graphsignature2012

import (
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/processor"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/proof"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite"
)

// Suite implements the GraphSignature2012 signature suite.
type Suite struct {
	suite.SignatureSuite
	jsonldProcessor *processor.Processor
}

// SignatureType is the signature type handled by this suite.
const SignatureType = proof.SignatureTypeGraphSignature2012

// New an instance of the GraphSignature2012 signature suite.
func New(opts ...suite.Opt) *Suite {
	s := &Suite{jsonldProcessor: processor.NewProcessor(processor.AlgorithmURGNA2012)}

	suite.InitSuiteOptions(&s.SignatureSuite, opts...)

	return s
}

// GetCanonicalDocument will return a normalized version of the document.
// GraphSignature2012 uses the URGNA2012 graph normalization algorithm.
func (s *Suite) GetCanonicalDocument(doc map[string]interface{}, opts ...processor.Opts) ([]byte, error) {
	return s.jsonldProcessor.GetCanonicalDocument(doc, opts...)
}

// BuildSignedData assembles the signed byte sequence: nonce (when present),
// then the created timestamp literal (when present), then the canonical
// payload. Presence is what counts; an empty nonce contributes no bytes but a
// missing created changes the sequence, so verification fails downstream.
func (s *Suite) BuildSignedData(signature *proof.Signature, normalized []byte) ([]byte, error) {
	var signedData []byte

	if signature.Nonce != nil {
		signedData = append(signedData, []byte(*signature.Nonce)...)
	}

	if signature.Created != nil {
		signedData = append(signedData, []byte(signature.Created.FormatToString())...)
	}

	signedData = append(signedData, normalized...)

	return signedData, nil
}

// Accept will accept only the GraphSignature2012 signature type.
func (s *Suite) Accept(t string) bool {
	return t == SignatureType
}
