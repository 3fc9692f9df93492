// Package pipeline wires the analysis stages together: parse, classify,
// extract, chunk. The Analyzer runs them synchronously for one document;
// the Orchestrator (orchestrator.go) runs Analyzers on a worker pool for
// asynchronous ingestion jobs.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/chunk"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/classify"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// Analyzer runs the classification-and-chunking pipeline over one
// registry. It is safe for concurrent use: the registry is read-only
// after construction and every call owns its parsed document.
type Analyzer struct {
	reg *handler.Registry
	log *slog.Logger
}

// NewAnalyzer builds an Analyzer. The registry must be fully populated:
// no registration may happen after classification begins.
func NewAnalyzer(reg *handler.Registry, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{reg: reg, log: log}
}

// Classify parses data and returns the classification result. On
// ErrUnclassified the result still carries the full ranked list.
func (a *Analyzer) Classify(data []byte) (*classify.Result, error) {
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, err
	}
	return classify.Classify(a.reg, doc, a.log)
}

// Analyze classifies data and runs the winning handler's extraction.
// An *handler.ExtractionError carries any partial summary record.
func (a *Analyzer) Analyze(data []byte) (*classify.Result, *handler.SummaryRecord, error) {
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	res, err := classify.Classify(a.reg, doc, a.log)
	if err != nil {
		return res, nil, err
	}
	rec, err := a.extract(doc, res.DocType)
	return res, rec, err
}

// Chunk parses data and produces the ordered chunk sequence. The
// classification and extraction stages run best-effort to obtain
// structural hints; their failures degrade to structural fallback
// chunking and are reported in the diagnostics, never as an error.
// Only malformed input fails.
func (a *Analyzer) Chunk(data []byte, opts chunk.Options) ([]chunk.Chunk, []string, error) {
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	var diags []string
	var hints *handler.StructuralHints

	res, err := classify.Classify(a.reg, doc, a.log)
	diags = append(diags, res.Diagnostics...)
	switch {
	case errors.Is(err, classify.ErrUnclassified):
		diags = append(diags, "document unclassified, using depth-based chunking")
	case err != nil:
		return nil, nil, err
	default:
		rec, extractErr := a.extract(doc, res.DocType)
		if extractErr != nil {
			diags = append(diags, fmt.Sprintf("extraction degraded: %v", extractErr))
		}
		if rec != nil {
			hints = rec.Hints
		}
	}

	chunks, chunkDiags := chunk.Build(doc, hints, opts)
	return chunks, append(diags, chunkDiags...), nil
}

// Analysis is the combined output of a full pipeline run.
type Analysis struct {
	Classification *classify.Result       `json:"classification"`
	Summary        *handler.SummaryRecord `json:"summary,omitempty"`
	Chunks         []chunk.Chunk          `json:"chunks"`
	Diagnostics    []string               `json:"diagnostics,omitempty"`
}

// Run executes the whole pipeline on one document. Unclassified
// documents and failed extractions degrade (recorded in Diagnostics);
// only malformed input returns an error.
func (a *Analyzer) Run(data []byte, opts chunk.Options) (*Analysis, error) {
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, err
	}

	out := &Analysis{}

	res, err := classify.Classify(a.reg, doc, a.log)
	out.Classification = res
	out.Diagnostics = append(out.Diagnostics, res.Diagnostics...)

	var hints *handler.StructuralHints
	if errors.Is(err, classify.ErrUnclassified) {
		out.Diagnostics = append(out.Diagnostics, "document unclassified, using depth-based chunking")
	} else {
		rec, extractErr := a.extract(doc, res.DocType)
		if extractErr != nil {
			out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("extraction degraded: %v", extractErr))
		}
		if rec != nil {
			out.Summary = rec
			hints = rec.Hints
		}
	}

	chunks, chunkDiags := chunk.Build(doc, hints, opts)
	out.Chunks = chunks
	out.Diagnostics = append(out.Diagnostics, chunkDiags...)
	return out, nil
}

// extract is the adapter around the winning handler's extraction
// function. It never re-parses: extraction operates on the parsed
// document the dispatcher already scored. Panics and errors come back
// as *handler.ExtractionError with any partial record attached.
func (a *Analyzer) extract(doc *xmldoc.Document, docType string) (*handler.SummaryRecord, error) {
	d, ok := a.reg.Get(docType)
	if !ok {
		// Classification only yields registered IDs; reaching this
		// means the registry mutated after init.
		return nil, &handler.ExtractionError{
			HandlerID: docType,
			Err:       fmt.Errorf("handler %q not registered", docType),
		}
	}

	rec, err := safeExtract(d, doc)
	if err != nil {
		a.log.Warn("extraction failed", "handler", d.ID, "error", err)
		return rec, &handler.ExtractionError{HandlerID: d.ID, Partial: rec, Err: err}
	}
	return rec, nil
}

func safeExtract(d handler.Descriptor, doc *xmldoc.Document) (rec *handler.SummaryRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("extract panic: %v", r)
		}
	}()
	return d.Extract(doc)
}
