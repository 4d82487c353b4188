/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package documentloader provides a JSON-LD document loader backed by context
// documents embedded into the binary, with an optional remote fallback.
package documentloader

import (
	"encoding/json"

	"github.com/bluele/gcache"
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"

	ldcontext "github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/context"
	"github.com/digitalbazaar/opencred-verifier/pkg/doc/ld/context/embed"
)

const defaultCacheSize = 256

// ErrDocumentNotFound is returned when a document is neither preloaded nor
// fetchable through the remote fallback loader.
var ErrDocumentNotFound = errors.New("document not found")

// Loader is an implementation of ld.DocumentLoader. Embedded context documents
// are served from memory; everything else goes through the remote fallback
// loader, if one is configured. Remote documents are cached, and the cache
// guarantees at most one concurrent fetch per URL.
type Loader struct {
	preloaded map[string]*ld.RemoteDocument
	remote    ld.DocumentLoader
	cache     gcache.Cache
}

// Opts configures the document loader.
type Opts func(loader *Loader)

// WithRemoteLoader sets a fallback loader used for documents that are not
// preloaded. Timeout and cancellation policy belong to the fallback loader.
func WithRemoteLoader(remote ld.DocumentLoader) Opts {
	return func(loader *Loader) {
		loader.remote = remote
	}
}

// WithExtraDocuments preloads additional documents (e.g. application-specific
// contexts, or fixed copies of credentials/keys for tests).
func WithExtraDocuments(docs ...ldcontext.Document) Opts {
	return func(loader *Loader) {
		for i := range docs {
			addPreloaded(loader.preloaded, docs[i])
		}
	}
}

// WithCacheSize sets the size of the remote document cache.
func WithCacheSize(size int) Opts {
	return func(loader *Loader) {
		loader.cache = newCache(loader, size)
	}
}

// New returns a new loader with the embedded contexts preloaded.
func New(opts ...Opts) *Loader {
	loader := &Loader{preloaded: make(map[string]*ld.RemoteDocument)}

	for i := range embed.Contexts {
		addPreloaded(loader.preloaded, embed.Contexts[i])
	}

	for _, opt := range opts {
		opt(loader)
	}

	if loader.cache == nil {
		loader.cache = newCache(loader, defaultCacheSize)
	}

	return loader
}

// LoadDocument resolves the document at the given URL.
func (l *Loader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	if doc, ok := l.preloaded[u]; ok {
		return doc, nil
	}

	if l.remote == nil {
		return nil, errors.Wrap(ErrDocumentNotFound, u)
	}

	v, err := l.cache.Get(u)
	if err != nil {
		return nil, errors.Wrapf(err, "load remote document %q", u)
	}

	doc, ok := v.(*ld.RemoteDocument)
	if !ok {
		return nil, errors.Errorf("unexpected cache entry for %q", u)
	}

	return doc, nil
}

func newCache(l *Loader, size int) gcache.Cache {
	// gcache serializes loads per key, so concurrent verifications fetching
	// the same URL result in a single remote call.
	return gcache.New(size).ARC().LoaderFunc(func(key interface{}) (interface{}, error) {
		return l.remote.LoadDocument(key.(string))
	}).Build()
}

func addPreloaded(preloaded map[string]*ld.RemoteDocument, doc ldcontext.Document) {
	var content interface{}

	if err := json.Unmarshal(doc.Content, &content); err != nil {
		// skip malformed content
		return
	}

	documentURL := doc.DocumentURL
	if documentURL == "" {
		documentURL = doc.URL
	}

	preloaded[doc.URL] = &ld.RemoteDocument{
		DocumentURL: documentURL,
		Document:    content,
	}
}
