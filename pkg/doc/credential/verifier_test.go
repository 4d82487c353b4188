/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"testing"

	jsonld "github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/require"

	ldcontext "github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/context"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/documentloader"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/processor"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/resolver"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/api"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/proof"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite/graphsignature2012"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite/linkeddatasignature2015"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/util/maphelpers"
	aftime "github.com/digitalbazaar/opencred-verifier/pkg/doc/util/time"
)

const (
	credentialURL = "https://example.com/credentials/1"
	keyURL        = "https://example.com/i/alice/keys/1"
	identityURL   = "https://example.com/i/alice"

	testCreated = "2017-06-18T21:19:10Z"
)

type testFixture struct {
	privKey *rsa.PrivateKey
	pemStr  string
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: keyBytes})

	return &testFixture{privKey: privKey, pemStr: string(pemBytes)}
}

func newCredential() map[string]interface{} {
	return map[string]interface{}{
		"@context": []interface{}{
			"https://w3id.org/identity/v1",
			"https://w3id.org/security/v1",
		},
		"id":   credentialURL,
		"name": "Alice Example",
	}
}

func (f *testFixture) keyDoc() map[string]interface{} {
	return map[string]interface{}{
		"@context":     "https://w3id.org/security/v1",
		"id":           keyURL,
		"type":         "CryptographicKey",
		"owner":        identityURL,
		"publicKeyPem": f.pemStr,
	}
}

func identityDoc(keys ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"@context":  "https://w3id.org/identity/v1",
		"id":        identityURL,
		"type":      "Identity",
		"publicKey": keys,
	}
}

func newLoader(t *testing.T, docs map[string]interface{}) *documentloader.Loader {
	t.Helper()

	var extra []ldcontext.Document

	for url, doc := range docs {
		content, err := json.Marshal(doc)
		require.NoError(t, err)

		extra = append(extra, ldcontext.Document{URL: url, Content: content})
	}

	return documentloader.New(documentloader.WithExtraDocuments(extra...))
}

type signatureOptions struct {
	sigType string
	nonce   string
	domain  string
}

// signCredential produces a signed copy of cred the way an issuer would:
// canonicalize the claims, build the suite's signed byte sequence, sign its
// SHA-256 digest with RSA and attach the signature block.
func signCredential(t *testing.T, cred map[string]interface{}, opts signatureOptions,
	privKey *rsa.PrivateKey, loader jsonld.DocumentLoader) map[string]interface{} {
	t.Helper()

	var s api.SignatureSuite

	switch opts.sigType {
	case proof.SignatureTypeLinkedDataSignature2015:
		s = linkeddatasignature2015.New()
	default:
		s = graphsignature2012.New()
	}

	canonical, err := s.GetCanonicalDocument(maphelpers.CopyMap(cred),
		processor.WithDocumentLoader(loader))
	require.NoError(t, err)

	created, err := aftime.ParseTimeWrapper(testCreated)
	require.NoError(t, err)

	sig := &proof.Signature{
		Type:    opts.sigType,
		Creator: keyURL,
		Created: created,
	}

	if opts.nonce != "" {
		sig.Nonce = &opts.nonce
	}

	if opts.domain != "" {
		sig.Domain = &opts.domain
	}

	signedData, err := s.BuildSignedData(sig, canonical)
	require.NoError(t, err)

	digest := sha256.Sum256(signedData)

	signature, err := rsa.SignPKCS1v15(rand.Reader, privKey, crypto.SHA256, digest[:])
	require.NoError(t, err)

	block := map[string]interface{}{
		"type":           opts.sigType,
		"creator":        keyURL,
		"created":        testCreated,
		"signatureValue": base64.StdEncoding.EncodeToString(signature),
	}

	if opts.nonce != "" {
		block["nonce"] = opts.nonce
	}

	if opts.domain != "" {
		block["domain"] = opts.domain
	}

	signed := maphelpers.CopyMap(cred)
	signed["signature"] = block

	return signed
}

func requireCheck(t *testing.T, r *Result, name string, want bool) {
	t.Helper()

	passed, attempted := r.Check(name)
	require.True(t, attempted, "check %q was not attempted", name)
	require.Equal(t, want, passed, "check %q", name)
}

func requireCheckAbsent(t *testing.T, r *Result, name string) {
	t.Helper()

	_, attempted := r.Check(name)
	require.False(t, attempted, "check %q should not have been attempted", name)
}

func TestVerifyCredentialGraphSignature2012(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012, nonce: "598c63d6"},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.Empty(t, r.Errors)
	require.True(t, r.Verified)

	for _, name := range []string{
		CheckSigned, CheckPublicKeyAccessible, CheckPublicKeyOwner,
		CheckKnownSignatureType, CheckPublicKeyNotRevoked,
		CheckSignatureVerified, CheckNotExpired, CheckVerified,
	} {
		requireCheck(t, r, name, true)
	}

	require.NotNil(t, r.Params.VerifiedData)
	require.NotContains(t, r.Params.VerifiedData, "signature")
}

func TestVerifyCredentialLinkedDataSignature2015(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{
			sigType: proof.SignatureTypeLinkedDataSignature2015,
			nonce:   "598c63d6",
			domain:  "example.com",
		},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.Empty(t, r.Errors)
	require.True(t, r.Verified)
	requireCheck(t, r, CheckSignatureVerified, true)
}

func TestVerifyCredentialByReference(t *testing.T) {
	f := newFixture(t)

	// the credential is only known to the loader once signed, so sign against
	// a bootstrap loader carrying the key and identity documents
	bootstrap := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, bootstrap)

	loader := newLoader(t, map[string]interface{}{
		credentialURL: signed,
		keyURL:        f.keyDoc(),
		identityURL:   identityDoc(keyURL),
	})

	r := New(WithDocumentLoader(loader)).VerifyCredential(credentialURL)

	require.Empty(t, r.Errors)
	require.True(t, r.Verified)
}

func TestVerifyCredentialTamperedSignature(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	block := signed["signature"].(map[string]interface{})

	raw, err := base64.StdEncoding.DecodeString(block["signatureValue"].(string))
	require.NoError(t, err)

	raw[0] ^= 0xff
	block["signatureValue"] = base64.StdEncoding.EncodeToString(raw)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckSignatureVerified, false)

	var sigErr *SignatureVerificationError
	require.ErrorAs(t, r.Errors[ErrorKeySignature], &sigErr)
}

func TestVerifyCredentialSignatureMissingValue(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	delete(signed["signature"].(map[string]interface{}), "signatureValue")

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	// the block was present, so the credential counts as signed even though
	// nothing can be verified
	require.False(t, r.Verified)
	requireCheck(t, r, CheckSigned, true)
	requireCheck(t, r, CheckPublicKeyAccessible, true)
	requireCheck(t, r, CheckSignatureVerified, false)
	require.Contains(t, r.Errors[ErrorKeySignature].Error(), "signature value is not defined")
}

func TestVerifyCredentialSignatureUnparsableCreated(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	signed["signature"].(map[string]interface{})["created"] = "not a timestamp"

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckSigned, true)
	requireCheck(t, r, CheckKnownSignatureType, true)
	requireCheck(t, r, CheckSignatureVerified, false)

	var sigErr *SignatureVerificationError
	require.ErrorAs(t, r.Errors[ErrorKeySignature], &sigErr)
}

func TestVerifyCredentialMissingSignature(t *testing.T) {
	loader := newLoader(t, nil)

	r := New(WithDocumentLoader(loader)).VerifyCredential(newCredential())

	require.False(t, r.Verified)
	require.Len(t, r.Checks, 2)
	requireCheck(t, r, CheckSigned, false)
	requireCheck(t, r, CheckVerified, false)

	var frameErr *FramingError
	require.ErrorAs(t, r.Errors[ErrorKeyData], &frameErr)

	// nothing beyond the credential itself is touched
	require.NotContains(t, r.Errors, ErrorKeyPublicKey)
	require.NotContains(t, r.Errors, ErrorKeyPublicKeyOwner)
}

func TestVerifyCredentialRevokedKey(t *testing.T) {
	f := newFixture(t)

	keyDoc := f.keyDoc()
	keyDoc["revoked"] = "2015-01-01T00:00:00Z"

	loader := newLoader(t, map[string]interface{}{
		keyURL:      keyDoc,
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckPublicKeyNotRevoked, false)
	requireCheck(t, r, CheckSignatureVerified, true)
}

func TestVerifyCredentialExpired(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	cred := newCredential()
	cred["expires"] = "2012-01-01T00:00:00Z"

	signed := signCredential(t, cred,
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckNotExpired, false)
	requireCheck(t, r, CheckSignatureVerified, true)
}

func TestVerifyCredentialFutureExpiration(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	cred := newCredential()
	cred["expires"] = "2100-01-01T00:00:00Z"

	signed := signCredential(t, cred,
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.True(t, r.Verified)
	requireCheck(t, r, CheckNotExpired, true)
}

func TestVerifyCredentialUnknownSignatureType(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	signed["signature"].(map[string]interface{})["type"] = "FancySignature2020"

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckSigned, true)
	requireCheck(t, r, CheckKnownSignatureType, false)
	requireCheckAbsent(t, r, CheckSignatureVerified)

	// normalization still ran, with the default algorithm
	require.NotEmpty(t, r.Params.Normalized)
	require.Empty(t, r.Params.SignedData)
}

func TestVerifyCredentialUnownedKey(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc("https://example.com/i/alice/keys/2"),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckPublicKeyOwner, false)
	requireCheck(t, r, CheckSignatureVerified, true)
}

func TestVerifyCredentialInaccessibleKey(t *testing.T) {
	f := newFixture(t)

	signingLoader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, signingLoader)

	// the verifying side cannot reach the key document
	loader := newLoader(t, nil)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckPublicKeyAccessible, false)
	requireCheck(t, r, CheckKnownSignatureType, true)
	requireCheckAbsent(t, r, CheckPublicKeyOwner)
	requireCheckAbsent(t, r, CheckPublicKeyNotRevoked)
	requireCheckAbsent(t, r, CheckSignatureVerified)

	var resErr *resolver.ResolutionError
	require.ErrorAs(t, r.Errors[ErrorKeyPublicKey], &resErr)
}

func TestVerifyCredentialBadgeIdentity(t *testing.T) {
	f := newFixture(t)

	badgeIdentity := map[string]interface{}{
		"@context":  "https://w3id.org/openbadges/v1",
		"id":        identityURL,
		"type":      "Issuer",
		"publicKey": keyURL,
	}

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: badgeIdentity,
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.True(t, r.Verified)
	requireCheck(t, r, CheckPublicKeyOwner, true)
}

func TestVerifyCredentialIdempotent(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	v := New(WithDocumentLoader(loader))

	first := v.VerifyCredential(maphelpers.CopyMap(signed))
	second := v.VerifyCredential(maphelpers.CopyMap(signed))

	require.Equal(t, first.Tests(), second.Tests())
	require.Equal(t, first.Verified, second.Verified)
}

func TestVerifyCredentialLocalFramingFastPath(t *testing.T) {
	f := newFixture(t)

	bootstrap := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, bootstrap)

	loader := newLoader(t, map[string]interface{}{
		credentialURL: signed,
		keyURL:        f.keyDoc(),
		identityURL:   identityDoc(keyURL),
	})

	v := New(
		WithDocumentLoader(loader),
		WithDisabledLocalFraming("https://example.com/"),
	)

	r := v.VerifyCredential(credentialURL)

	require.Empty(t, r.Errors)
	require.True(t, r.Verified)
}

func TestVerifyCredentialUnsupportedReference(t *testing.T) {
	r := New(WithDocumentLoader(newLoader(t, nil))).VerifyCredential(42)

	require.False(t, r.Verified)
	requireCheck(t, r, CheckSigned, false)

	var resErr *resolver.ResolutionError
	require.ErrorAs(t, r.Errors[ErrorKeyData], &resErr)
}

func TestVerifiedDataKeepsClaims(t *testing.T) {
	f := newFixture(t)

	loader := newLoader(t, map[string]interface{}{
		keyURL:      f.keyDoc(),
		identityURL: identityDoc(keyURL),
	})

	signed := signCredential(t, newCredential(),
		signatureOptions{sigType: proof.SignatureTypeGraphSignature2012},
		f.privKey, loader)

	r := New(WithDocumentLoader(loader)).VerifyCredential(signed)

	require.True(t, r.Verified)
	require.Equal(t, credentialURL, r.Params.VerifiedData["id"])
	require.Contains(t, r.Params.VerifiedData, "http://schema.org/name")
	require.NotContains(t, r.Params.VerifiedData, "signature")
}
