/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resolver turns document references (inline documents or URLs) into
// parsed JSON-LD objects.
package resolver

import (
	"encoding/json"
	"fmt"

	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// ResolutionError indicates a transport or parse failure while fetching a
// referenced document. There are no retries; the caller decides whether the
// failure is fatal.
type ResolutionError struct {
	Ref string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve document %q: %s", e.Ref, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// DocumentResolver resolves document references through a JSON-LD document loader.
type DocumentResolver struct {
	loader ld.DocumentLoader
}

// New returns a new document resolver backed by the given loader.
func New(loader ld.DocumentLoader) *DocumentResolver {
	return &DocumentResolver{loader: loader}
}

// Resolve returns the document behind ref. An inline document (a JSON object)
// is returned as is; a string ref is treated as a URL and fetched through the
// document loader, with string bodies parsed as JSON.
func (r *DocumentResolver) Resolve(ref interface{}) (map[string]interface{}, error) {
	switch v := ref.(type) {
	case map[string]interface{}:
		return v, nil
	case string:
		return r.fetch(v)
	default:
		return nil, &ResolutionError{
			Ref: fmt.Sprintf("%v", ref),
			Err: errors.Errorf("unsupported reference type %T", ref),
		}
	}
}

func (r *DocumentResolver) fetch(url string) (map[string]interface{}, error) {
	if r.loader == nil {
		return nil, &ResolutionError{Ref: url, Err: errors.New("no document loader configured")}
	}

	remote, err := r.loader.LoadDocument(url)
	if err != nil {
		return nil, &ResolutionError{Ref: url, Err: err}
	}

	switch body := remote.Document.(type) {
	case map[string]interface{}:
		return body, nil
	case string:
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, &ResolutionError{Ref: url, Err: errors.Wrap(err, "parse document body")}
		}

		return doc, nil
	default:
		return nil, &ResolutionError{Ref: url, Err: errors.Errorf("unsupported document body type %T", body)}
	}
}
