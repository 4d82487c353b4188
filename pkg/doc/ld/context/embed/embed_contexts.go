/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package embed

import (
	_ "embed" //nolint:gci // required for go:embed

	ldcontext "github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/context"
)

// nolint:gochecknoglobals // required for go:embed
var (
	//go:embed contexts/security_v1.jsonld
	securityV1 []byte
	//go:embed contexts/identity_v1.jsonld
	identityV1 []byte
	//go:embed contexts/openbadges_v1.jsonld
	openbadgesV1 []byte
)

// Contexts contains JSON-LD contexts embedded into a Go binary.
var Contexts = []ldcontext.Document{ //nolint:gochecknoglobals
	{
		URL:         "https://w3id.org/security/v1",
		DocumentURL: "https://w3c-ccg.github.io/security-vocab/contexts/security-v1.jsonld",
		Content:     securityV1,
	},
	{
		URL:         "https://w3id.org/identity/v1",
		DocumentURL: "https://w3id.org/identity/v1",
		Content:     identityV1,
	},
	{
		URL:         "https://w3id.org/openbadges/v1",
		DocumentURL: "https://w3id.org/openbadges/v1",
		Content:     openbadgesV1,
	},
}
