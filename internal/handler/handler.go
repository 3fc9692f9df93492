// Package handler defines the capability contract every document-family
// plugin satisfies: a detection function that scores how confident the
// plugin is that it owns a document, and an extraction function that
// maps the document to a normalized summary.
package handler

import (
	"errors"
	"fmt"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// Detection is a handler's self-reported match signal for a document.
// Score must be in [0,1]; Evidence lists the signals behind the score.
type Detection struct {
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence,omitempty"`
}

// DetectFunc scores a parsed document. It must be a pure function of
// the document: no side effects, same score for the same input.
type DetectFunc func(doc *xmldoc.Document) Detection

// ExtractFunc maps a parsed document to a summary record. On failure it
// may return a partial record alongside the error; the partial record's
// structural hints remain usable for chunking.
type ExtractFunc func(doc *xmldoc.Document) (*SummaryRecord, error)

// Descriptor is one registered format handler.
type Descriptor struct {
	ID       string // document-type name, unique within a registry
	Priority int    // tie-break weight, higher wins on equal scores
	Detect   DetectFunc
	Extract  ExtractFunc
}

// SummaryRecord is the normalized output of a handler's extraction.
type SummaryRecord struct {
	Fields map[string]any   `json:"fields"`
	Hints  *StructuralHints `json:"hints,omitempty"`
}

// StructuralHints tell the chunking engine where a format's natural
// boundaries and cross-reference relations are.
type StructuralHints struct {
	// ChunkPaths lists element paths whose elements become chunk
	// boundaries: each boundary element and its full subtree is one chunk.
	ChunkPaths []string `json:"chunk_paths"`

	// Kinds maps a boundary path to the chunk kind tag emitted for it
	// ("record", "section", "annotation"). Unlisted paths default to
	// "record".
	Kinds map[string]string `json:"kinds,omitempty"`

	// IDKeys maps a boundary path to the attribute or child-element
	// name holding that element's own identifier.
	IDKeys map[string]string `json:"id_keys,omitempty"`

	// RefKeys maps a boundary path to the attribute or child-element
	// name holding the identifier of the record the element belongs
	// to. Chunks with a resolvable reference are regrouped to follow
	// their referenced chunk and linked to it.
	RefKeys map[string]string `json:"ref_keys,omitempty"`
}

// ErrDuplicateHandler is returned by Registry.Register when the
// descriptor's identifier is already taken.
var ErrDuplicateHandler = errors.New("handler already registered")

// ExtractionError reports a failed extraction. Partial carries whatever
// fields the handler extracted before failing, possibly nil.
type ExtractionError struct {
	HandlerID string
	Partial   *SummaryRecord
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for handler %q: %v", e.HandlerID, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
