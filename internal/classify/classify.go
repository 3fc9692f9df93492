// Package classify implements the confidence scorer and dispatcher: it
// runs every registered handler's detection function against a parsed
// document, ranks the results, and resolves exactly one winner.
package classify

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// ErrUnclassified indicates well-formed XML that no registered handler
// scored above zero. Callers may recover, e.g. by retrying against a
// registry that includes a generic catch-all handler.
var ErrUnclassified = errors.New("no handler recognized the document")

// scoreDecimals bounds score comparison precision so floating-point
// noise cannot flip a tie-break.
const scoreDecimals = 6

// Score is one handler's ranked detection outcome.
type Score struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Priority int      `json:"priority"`
	Evidence []string `json:"evidence,omitempty"`
}

// Result is the classification outcome for one document. For identical
// input bytes and an identical registry, the result is identical across
// invocations and process restarts.
type Result struct {
	DocType    string  `json:"doc_type"`
	Confidence float64 `json:"confidence"`

	// Ranked lists every handler's score, best first, for diagnostics.
	Ranked []Score `json:"ranked"`

	// Diagnostics records non-fatal degradations (detection failures).
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Classify scores doc against every handler in reg and picks a winner.
//
// A detection function that panics is isolated: the failure is logged,
// recorded in Diagnostics, and that handler is scored 0. Ties at the
// maximum score break on higher priority, then earlier registration.
// When no handler scores above zero, the ranked result is still
// returned alongside ErrUnclassified.
func Classify(reg *handler.Registry, doc *xmldoc.Document, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	descs := reg.All()
	res := &Result{Ranked: make([]Score, 0, len(descs))}

	type candidate struct {
		regIndex int
		score    Score
	}
	cands := make([]candidate, 0, len(descs))

	for i, d := range descs {
		det, err := safeDetect(d, doc)
		if err != nil {
			log.Warn("detection failed", "handler", d.ID, "error", err)
			res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("detect %s: %v", d.ID, err))
			det = handler.Detection{}
		}
		cands = append(cands, candidate{
			regIndex: i,
			score: Score{
				ID:       d.ID,
				Score:    roundScore(det.Score),
				Priority: d.Priority,
				Evidence: det.Evidence,
			},
		})
	}

	// Deterministic ranking: score desc, priority desc, registration
	// order asc. Never depends on map iteration order.
	sort.Slice(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.score.Score != cb.score.Score {
			return ca.score.Score > cb.score.Score
		}
		if ca.score.Priority != cb.score.Priority {
			return ca.score.Priority > cb.score.Priority
		}
		return ca.regIndex < cb.regIndex
	})

	for _, c := range cands {
		res.Ranked = append(res.Ranked, c.score)
	}

	if len(res.Ranked) == 0 || res.Ranked[0].Score <= 0 {
		return res, ErrUnclassified
	}

	res.DocType = res.Ranked[0].ID
	res.Confidence = res.Ranked[0].Score
	return res, nil
}

// safeDetect runs a detection function with panic isolation so one
// misbehaving handler cannot abort the whole dispatch.
func safeDetect(d handler.Descriptor, doc *xmldoc.Document) (det handler.Detection, err error) {
	defer func() {
		if r := recover(); r != nil {
			det = handler.Detection{}
			err = fmt.Errorf("detect panic: %v", r)
		}
	}()
	return d.Detect(doc), nil
}

// roundScore clamps to [0,1] and rounds to a fixed precision so tied
// scores compare with exact equality.
func roundScore(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 1 {
		s = 1
	}
	shift := math.Pow(10, scoreDecimals)
	return math.Round(s*shift) / shift
}
