/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/processor"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/api"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/signature/proof"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/util/maphelpers"
	aftime "github.com/digitalbazaar/opencred-verifier/pkg/doc/util/time"
)

const jsonldExpires = "expires"

// assembleParams resolves and frames the credential, the signer's public key
// and the key owner's identity, then canonicalizes the claims payload.
//
// Credential framing and normalization failures are fatal and return
// immediately; public key and identity failures degrade the run but do not
// abort it. The returned bundle is never nil.
func (v *Verifier) assembleParams(ref interface{}) (*Parameters, map[string]error) {
	params := &Parameters{}
	errs := make(map[string]error)

	framed, err := v.frameCredential(ref)
	if err != nil {
		errs[ErrorKeyData] = err
		return params, errs
	}

	signature, err := proof.GetSignature(framed)
	if err != nil {
		// absent (or not an object at all) means no verification context; a
		// present block with unusable fields still proceeds
		errs[ErrorKeyData] = err
		return params, errs
	}

	params.Signature = signature
	params.Data = proof.GetCopyWithoutSignature(framed)

	v.extractExpiration(params)

	v.resolvePublicKey(params, errs)

	if params.PublicKey != nil {
		v.resolveIdentity(params, errs)
	}

	if err := v.normalize(params); err != nil {
		errs[ErrorKeyNormalization] = err
		return params, errs
	}

	return params, errs
}

// frameCredential resolves the credential reference and extracts its signature
// block by framing against the security context.
func (v *Verifier) frameCredential(ref interface{}) (map[string]interface{}, error) {
	doc, err := v.resolver.Resolve(ref)
	if err != nil {
		return nil, err
	}

	return v.frameDocument(ref, doc, credentialFrame(), "signature")
}

// resolvePublicKey fetches and frames the public key document referenced by
// the signature's creator. Failures are recorded under the publicKey key and
// the pipeline continues in degraded mode.
func (v *Verifier) resolvePublicKey(params *Parameters, errs map[string]error) {
	creator := params.Signature.Creator
	if creator == "" {
		errs[ErrorKeyPublicKey] = &FramingError{Shape: "public key", Err: fmt.Errorf("signature has no creator")}
		return
	}

	doc, err := v.resolver.Resolve(creator)
	if err != nil {
		errs[ErrorKeyPublicKey] = err

		logger.Debugf("public key resolution failed, continuing in degraded mode: %s", err)

		return
	}

	framed, err := v.frameDocument(creator, doc, publicKeyFrame(), "publicKeyPem")
	if err != nil {
		errs[ErrorKeyPublicKey] = err
		return
	}

	publicKey, err := decodePublicKey(framed)
	if err != nil {
		errs[ErrorKeyPublicKey] = err
		return
	}

	params.PublicKey = publicKey
}

// resolveIdentity fetches the identity at the key's owner reference and frames
// it against the known identity shapes, first match wins. Failures are
// recorded under the publicKeyOwner key and do not abort the run.
func (v *Verifier) resolveIdentity(params *Parameters, errs map[string]error) {
	owner := params.PublicKey.Owner
	if owner == "" {
		errs[ErrorKeyPublicKeyOwner] = &FramingError{Shape: "identity", Err: fmt.Errorf("public key has no owner")}
		return
	}

	doc, err := v.resolver.Resolve(owner)
	if err != nil {
		errs[ErrorKeyPublicKeyOwner] = err
		return
	}

	var failures []string

	for _, candidate := range identityFrames() {
		framed, err := v.frameDocument(owner, doc, candidate.frame(), "id")
		if err == nil {
			params.Identity = framed
			return
		}

		failures = append(failures, fmt.Sprintf("%s: %s", candidate.name, err))
	}

	errs[ErrorKeyPublicKeyOwner] = &FramingError{
		Shape: "identity",
		Err:   fmt.Errorf("no identity shape matched: %s", strings.Join(failures, "; ")),
	}
}

// normalize canonicalizes the claims payload with the algorithm selected by
// the signature type; unknown types fall back to the default algorithm. When
// the type is known, the full signed byte sequence is assembled as well.
func (v *Verifier) normalize(params *Parameters) error {
	var (
		normalized []byte
		err        error
	)

	s := v.suiteFor(params.Signature.Type)

	doc := maphelpers.CopyMap(params.Data)

	if s != nil {
		normalized, err = s.GetCanonicalDocument(doc, processor.WithDocumentLoader(v.loader))
	} else {
		normalized, err = v.jsonldProcessor.GetCanonicalDocument(doc, processor.WithDocumentLoader(v.loader))
	}

	if err != nil {
		return &NormalizationError{Err: err}
	}

	params.Normalized = normalized

	if s != nil {
		signedData, err := s.BuildSignedData(params.Signature, normalized)
		if err != nil {
			return &NormalizationError{Err: err}
		}

		params.SignedData = signedData
	}

	return nil
}

// extractExpiration pulls the optional expires value out of the claims payload.
// A malformed expires is treated as present but already expired.
func (v *Verifier) extractExpiration(params *Parameters) {
	entry, ok := params.Data[jsonldExpires]
	if !ok {
		return
	}

	params.HasExpiration = true

	expires := stringEntry(entry)

	tm, err := aftime.ParseTimeWrapper(expires)
	if err != nil {
		logger.Debugf("unparsable expiration %q: %s", expires, err)
		return
	}

	params.Expiration = tm.Time
}

// frameDocument frames doc against the given shape. When local framing is
// disabled for a base URI and the reference lives under it, the document is
// trusted to be in the expected shape already.
func (v *Verifier) frameDocument(ref interface{}, doc, frame map[string]interface{},
	requiredKey string) (map[string]interface{}, error) {
	if v.skipFraming(ref) {
		return doc, nil
	}

	shape := fmt.Sprintf("%v", frame["type"])
	if shape == "<nil>" {
		shape = requiredKey
	}

	framed, err := v.jsonldProcessor.Frame(maphelpers.CopyMap(doc), frame,
		processor.WithDocumentLoader(v.loader))
	if err != nil {
		return nil, &FramingError{Shape: shape, Err: err}
	}

	// json-gold reports "no match" as an empty framed document
	if _, ok := framed[requiredKey]; !ok {
		return nil, &FramingError{Shape: shape}
	}

	return framed, nil
}

func (v *Verifier) skipFraming(ref interface{}) bool {
	if !v.disableLocalFraming || v.localBaseURI == "" {
		return false
	}

	url, ok := ref.(string)

	return ok && strings.HasPrefix(url, v.localBaseURI)
}

// publicKeyDoc is the framed shape of a public key document.
type publicKeyDoc struct {
	ID      string      `mapstructure:"id"`
	Owner   interface{} `mapstructure:"owner"`
	PEM     string      `mapstructure:"publicKeyPem"`
	Revoked interface{} `mapstructure:"revoked"`
}

func decodePublicKey(framed map[string]interface{}) (*api.PublicKey, error) {
	var doc publicKeyDoc

	if err := mapstructure.Decode(framed, &doc); err != nil {
		return nil, &FramingError{Shape: "public key", Err: err}
	}

	return &api.PublicKey{
		ID:      doc.ID,
		Owner:   refID(doc.Owner),
		PEM:     []byte(doc.PEM),
		Revoked: doc.Revoked != nil,
	}, nil
}

// refID extracts the id of a node reference that is either a bare string or
// an object with an id.
func refID(entry interface{}) string {
	switch e := entry.(type) {
	case string:
		return e
	case map[string]interface{}:
		if id, ok := e["id"].(string); ok {
			return id
		}

		if id, ok := e["@id"].(string); ok {
			return id
		}
	}

	return ""
}

func stringEntry(entry interface{}) string {
	switch e := entry.(type) {
	case string:
		return e
	case map[string]interface{}:
		if v, ok := e["@value"].(string); ok {
			return v
		}
	}

	return ""
}
