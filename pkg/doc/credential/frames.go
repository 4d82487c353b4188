/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package credential

// Context URLs of the shapes this verifier understands.
const (
	// SecurityContextURL is the security vocabulary context.
	SecurityContextURL = "https://w3id.org/security/v1"

	// IdentityContextURL is the generic identity context.
	IdentityContextURL = "https://w3id.org/identity/v1"

	// BadgeContextURL is the legacy open badges context.
	BadgeContextURL = "https://w3id.org/openbadges/v1"
)

// Frames are built fresh on every use: framing mutates the frame document when
// the input has no base id.

// credentialFrame extracts the signature block from a credential.
func credentialFrame() map[string]interface{} {
	return map[string]interface{}{
		"@context":  SecurityContextURL,
		"signature": map[string]interface{}{},
	}
}

// publicKeyFrame exposes a cryptographic key with its owner as a reference.
func publicKeyFrame() map[string]interface{} {
	return map[string]interface{}{
		"@context":     SecurityContextURL,
		"type":         "CryptographicKey",
		"owner":        map[string]interface{}{"@embed": "@never"},
		"publicKeyPem": map[string]interface{}{},
	}
}

// identityFrameCandidate is one shape an identity document may match.
type identityFrameCandidate struct {
	name  string
	frame func() map[string]interface{}
}

// identityFrames returns the ordered identity shapes: the generic identity
// shape first, the legacy badge issuer shape second.
func identityFrames() []identityFrameCandidate {
	return []identityFrameCandidate{
		{
			name: "identity",
			frame: func() map[string]interface{} {
				return map[string]interface{}{
					"@context":  IdentityContextURL,
					"type":      "Identity",
					"publicKey": map[string]interface{}{"@embed": "@never"},
				}
			},
		},
		{
			name: "badge issuer",
			frame: func() map[string]interface{} {
				return map[string]interface{}{
					"@context":  BadgeContextURL,
					"type":      "Issuer",
					"publicKey": map[string]interface{}{"@embed": "@never"},
				}
			},
		},
	}
}
