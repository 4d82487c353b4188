/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

// Package linkeddatasignature2015 implements the LinkedDataSignature2015
// signature suite. It uses the URDNA2015 RDF dataset canonicalization
// algorithm and signs a header block followed by the canonical payload.
package linkeddatasignature2015

import (
	"bytes"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/processor"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/proof"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite"
)

// Suite implements the LinkedDataSignature2015 signature suite.
type Suite struct {
	suite.SignatureSuite
	jsonldProcessor *processor.Processor
}

// SignatureType is the signature type handled by this suite.
const SignatureType = proof.SignatureTypeLinkedDataSignature2015

const (
	headerCreated = "http://purl.org/dc/terms/created"
	headerDomain  = "https://w3id.org/security#domain"
	headerNonce   = "https://w3id.org/security#nonce"
)

// New an instance of the LinkedDataSignature2015 signature suite.
func New(opts ...suite.Opt) *Suite {
	s := &Suite{jsonldProcessor: processor.NewProcessor(processor.AlgorithmURDNA2015)}

	suite.InitSuiteOptions(&s.SignatureSuite, opts...)

	return s
}

// GetCanonicalDocument will return a normalized version of the document.
// LinkedDataSignature2015 uses the URDNA2015 dataset normalization algorithm.
func (s *Suite) GetCanonicalDocument(doc map[string]interface{}, opts ...processor.Opts) ([]byte, error) {
	return s.jsonldProcessor.GetCanonicalDocument(doc, opts...)
}

// BuildSignedData assembles the signed byte sequence: one "<uri>: <value>\n"
// line per present header, in fixed lexicographic header order, followed by
// the canonical payload. Header order is part of the signed contract, and a
// header that is present but empty still contributes its line.
func (s *Suite) BuildSignedData(signature *proof.Signature, normalized []byte) ([]byte, error) {
	var buf bytes.Buffer

	if signature.Created != nil {
		writeHeader(&buf, headerCreated, signature.Created.FormatToString())
	}

	if signature.Domain != nil {
		writeHeader(&buf, headerDomain, *signature.Domain)
	}

	if signature.Nonce != nil {
		writeHeader(&buf, headerNonce, *signature.Nonce)
	}

	buf.Write(normalized)

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, uri, value string) {
	buf.WriteString(uri)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\n")
}

// Accept will accept only the LinkedDataSignature2015 signature type.
func (s *Suite) Accept(t string) bool {
	return t == SignatureType
}
