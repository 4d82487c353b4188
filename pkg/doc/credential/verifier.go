/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

// Package credential implements best-effort verification of signed linked-data
// credentials. A verification run resolves the signer's public key and
// identity, reconstructs the signed byte sequence, verifies the signature and
// evaluates ownership, revocation and expiration checks. The run always
// produces a Result; failures are captured inside it, never raised.
package credential

import (
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/piprate/json-gold/ld"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/documentloader"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/processor"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/resolver"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/api"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite/graphsignature2012"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/suite/linkeddatasignature2015"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/verifier"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/util/maphelpers"
)

var logger = log.New("opencred-verifier/credential")

// Verifier verifies signed linked-data credentials. A Verifier is safe for
// concurrent use: all per-run state lives in the Parameters bundle.
type Verifier struct {
	loader              ld.DocumentLoader
	resolver            *resolver.DocumentResolver
	suites              []api.SignatureSuite
	jsonldProcessor     *processor.Processor
	disableLocalFraming bool
	localBaseURI        string
	now                 func() time.Time
}

// Opt is a Verifier option.
type Opt func(*Verifier)

// WithDocumentLoader sets the loader used for every URL-referenced fetch
// (credential, public key, identity, contexts).
func WithDocumentLoader(loader ld.DocumentLoader) Opt {
	return func(v *Verifier) {
		v.loader = loader
	}
}

// WithSuites replaces the default signature suites.
func WithSuites(suites ...api.SignatureSuite) Opt {
	return func(v *Verifier) {
		v.suites = suites
	}
}

// WithDisabledLocalFraming skips framing for documents referenced under the
// given base URI, trusting them to be in the expected shape already. An
// optimization for trusted local data, not a correctness requirement.
func WithDisabledLocalFraming(baseURI string) Opt {
	return func(v *Verifier) {
		v.disableLocalFraming = true
		v.localBaseURI = baseURI
	}
}

// New returns a credential verifier. Without options it uses the embedded
// context loader and the GraphSignature2012 and LinkedDataSignature2015 suites
// backed by RSA-SHA256 verification.
func New(opts ...Opt) *Verifier {
	v := &Verifier{
		jsonldProcessor: processor.Default(),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.loader == nil {
		v.loader = documentloader.New()
	}

	if len(v.suites) == 0 {
		pkVerifier := verifier.NewPublicKeyVerifier(verifier.NewRSASHA256Verifier())

		v.suites = []api.SignatureSuite{
			graphsignature2012.New(suite.WithVerifier(pkVerifier)),
			linkeddatasignature2015.New(suite.WithVerifier(pkVerifier)),
		}
	}

	v.resolver = resolver.New(v.loader)

	return v
}

// VerifyCredential verifies the credential behind ref, which is either an
// inline JSON-LD document or a URL string. It never returns an error: callers
// must inspect the result's Verified flag and Errors map.
func (v *Verifier) VerifyCredential(ref interface{}) *Result {
	params, errs := v.assembleParams(ref)

	checks := v.runChecks(params, errs)

	verified := foldVerified(checks)
	checks = append(checks, Check{Name: CheckVerified, Passed: verified})

	// finalization is cosmetic, not a trust decision: the aggregate is folded
	// before compaction runs
	v.finalize(params, errs)

	return &Result{
		Params:   params,
		Checks:   checks,
		Errors:   errs,
		Verified: verified,
	}
}

// finalize compacts the claims payload back to minimal form for return to the
// caller. Failure is recorded under the compact key and ignored otherwise.
func (v *Verifier) finalize(params *Parameters, errs map[string]error) {
	if params.Data == nil {
		return
	}

	compacted, err := v.jsonldProcessor.Compact(maphelpers.CopyMap(params.Data), nil,
		processor.WithDocumentLoader(v.loader))
	if err != nil {
		errs[ErrorKeyCompact] = &CompactionError{Err: err}
		return
	}

	params.VerifiedData = compacted
}

// suiteFor returns the signature suite accepting the given type, or nil when
// the type is unknown.
func (v *Verifier) suiteFor(signatureType string) api.SignatureSuite {
	for _, s := range v.suites {
		if s.Accept(signatureType) {
			return s
		}
	}

	return nil
}
