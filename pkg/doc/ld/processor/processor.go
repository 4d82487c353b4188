/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package processor wraps JSON-LD operations (canonicalization, framing,
// compaction) used by the credential verification pipeline.
package processor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/piprate/json-gold/ld"
)

const (
	format = "application/n-quads"

	// AlgorithmURDNA2015 is the RDF dataset canonicalization algorithm used by
	// LinkedDataSignature2015.
	AlgorithmURDNA2015 = "URDNA2015"

	// AlgorithmURGNA2012 is the legacy RDF graph canonicalization algorithm
	// used by GraphSignature2012.
	AlgorithmURGNA2012 = "URGNA2012"

	defaultAlgorithm = AlgorithmURDNA2015
)

// processorOpts holds options for JSON-LD operations on docs.
type processorOpts struct {
	documentLoader   ld.DocumentLoader
	externalContexts []string
}

// Opts are the options for JSON-LD operations on docs (like canonicalization or compacting).
type Opts func(opts *processorOpts)

// WithDocumentLoader option is for passing custom JSON-LD document loader.
func WithDocumentLoader(loader ld.DocumentLoader) Opts {
	return func(opts *processorOpts) {
		opts.documentLoader = loader
	}
}

// WithExternalContext option is for definition of external context when doing JSON-LD operations.
func WithExternalContext(context ...string) Opts {
	return func(opts *processorOpts) {
		opts.externalContexts = context
	}
}

// Processor is a JSON-LD processor with a fixed RDF dataset canonicalization algorithm.
type Processor struct {
	algorithm string
}

// NewProcessor returns a new JSON-LD processor. An empty algorithm selects the default.
func NewProcessor(algorithm string) *Processor {
	if algorithm == "" {
		return Default()
	}

	return &Processor{algorithm}
}

// Default returns a new JSON-LD processor with the default canonicalization algorithm.
func Default() *Processor {
	return &Processor{defaultAlgorithm}
}

// GetCanonicalDocument returns canonized document of given json ld.
func (p *Processor) GetCanonicalDocument(doc map[string]interface{}, opts ...Opts) ([]byte, error) {
	procOptions := prepareOpts(opts)

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Algorithm = p.algorithm
	ldOptions.Format = format
	ldOptions.ProduceGeneralizedRdf = true
	ldOptions.DocumentLoader = procOptions.documentLoader

	if len(procOptions.externalContexts) > 0 {
		doc["@context"] = AppendExternalContexts(doc["@context"], procOptions.externalContexts...)
	}

	view, err := ld.NewJsonLdProcessor().Normalize(doc, ldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize JSON-LD document: %w", err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, fmt.Errorf("failed to normalize JSON-LD document, invalid view")
	}

	return []byte(result), nil
}

// AppendExternalContexts appends external context(s) to the JSON-LD context which can have one
// or several contexts already.
func AppendExternalContexts(context interface{}, extraContexts ...string) []interface{} {
	var contexts []interface{}

	switch c := context.(type) {
	case string:
		contexts = append(contexts, c)
	case []interface{}:
		contexts = append(contexts, c...)
	}

	for i := range extraContexts {
		contexts = append(contexts, extraContexts[i])
	}

	return contexts
}

// Compact compacts given json ld object. A nil context compacts the document
// against its own "@context".
func (p *Processor) Compact(input, context map[string]interface{},
	opts ...Opts) (map[string]interface{}, error) {
	procOptions := prepareOpts(opts)

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Format = format
	ldOptions.ProduceGeneralizedRdf = true
	ldOptions.DocumentLoader = procOptions.documentLoader

	if context == nil {
		inputContext := input["@context"]

		if len(procOptions.externalContexts) > 0 {
			inputContext = AppendExternalContexts(inputContext, procOptions.externalContexts...)
			input["@context"] = inputContext
		}

		context = map[string]interface{}{"@context": inputContext}
	}

	return ld.NewJsonLdProcessor().Compact(input, context, ldOptions)
}

// Frame makes a frame from the inputDoc using frameDoc. Framing is done with an
// empty base IRI, so the result does not depend on the document's location.
func (p *Processor) Frame(inputDoc map[string]interface{}, frameDoc map[string]interface{},
	opts ...Opts) (map[string]interface{}, error) {
	procOptions := prepareOpts(opts)

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Format = format
	ldOptions.ProduceGeneralizedRdf = true
	ldOptions.OmitGraph = true
	ldOptions.DocumentLoader = procOptions.documentLoader

	proc := ld.NewJsonLdProcessor()

	// json-gold can merge distinct top-level nodes when the input has no base
	// id; pin a synthetic one for the duration of the operation.
	hasBlankBaseID := false
	if checkID, ok := inputDoc["id"]; !ok || checkID == "" {
		hasBlankBaseID = true
		inputDoc["id"] = fmt.Sprintf("urn:uuid:%s", uuid.New().String())
		frameDoc["id"] = inputDoc["id"]
	}

	framedInputDoc, err := proc.Frame(inputDoc, frameDoc, ldOptions)
	if err != nil {
		return nil, fmt.Errorf("framing failed: %w", err)
	}

	framedInputDoc["@context"] = frameDoc["@context"]

	if hasBlankBaseID {
		delete(framedInputDoc, "id")
		delete(frameDoc, "id")
		delete(inputDoc, "id")
	}

	return framedInputDoc, nil
}

// prepareOpts prepare processorOpts from given Opts arguments.
func prepareOpts(opts []Opts) *processorOpts {
	procOpts := &processorOpts{}

	for _, opt := range opts {
		opt(procOpts)
	}

	return procOpts
}
