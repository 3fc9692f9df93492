package classify

import (
	"errors"
	"reflect"
	"testing"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

func testDoc(t *testing.T) *xmldoc.Document {
	t.Helper()
	doc, err := xmldoc.Parse([]byte(`<root><child>content</child></root>`))
	if err != nil {
		t.Fatalf("parse test doc: %v", err)
	}
	return doc
}

func scoringHandler(id string, score float64, priority int) handler.Descriptor {
	return handler.Descriptor{
		ID:       id,
		Priority: priority,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			return handler.Detection{Score: score, Evidence: []string{"synthetic"}}
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			return &handler.SummaryRecord{Fields: map[string]any{"id": id}}, nil
		},
	}
}

func buildRegistry(t *testing.T, descs ...handler.Descriptor) *handler.Registry {
	t.Helper()
	reg := handler.NewRegistry()
	for _, d := range descs {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.ID, err)
		}
	}
	return reg
}

func TestClassify_SingleWinner(t *testing.T) {
	reg := buildRegistry(t,
		scoringHandler("low", 0.2, 0),
		scoringHandler("high", 0.9, 0),
		scoringHandler("zero", 0, 0),
	)

	res, err := Classify(reg, testDoc(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DocType != "high" {
		t.Errorf("expected winner high, got %q", res.DocType)
	}
	if res.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", res.Confidence)
	}
	// Full ranked list, best first, includes zero scorers.
	if len(res.Ranked) != 3 {
		t.Fatalf("expected 3 ranked entries, got %d", len(res.Ranked))
	}
	if res.Ranked[0].ID != "high" || res.Ranked[1].ID != "low" || res.Ranked[2].ID != "zero" {
		t.Errorf("unexpected ranking: %+v", res.Ranked)
	}
}

func TestClassify_TieBreakByPriority(t *testing.T) {
	// Same score, different priorities: higher priority must win even
	// though it registered later.
	reg := buildRegistry(t,
		scoringHandler("first-low-priority", 0.7, 1),
		scoringHandler("second-high-priority", 0.7, 9),
	)

	res, err := Classify(reg, testDoc(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DocType != "second-high-priority" {
		t.Errorf("expected priority to break the tie, got %q", res.DocType)
	}
}

func TestClassify_TieBreakByRegistrationOrder(t *testing.T) {
	reg := buildRegistry(t,
		scoringHandler("registered-first", 0.7, 3),
		scoringHandler("registered-second", 0.7, 3),
	)

	res, err := Classify(reg, testDoc(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DocType != "registered-first" {
		t.Errorf("expected earliest registration to win, got %q", res.DocType)
	}
}

func TestClassify_RoundingMakesNearTiesExact(t *testing.T) {
	// A score difference below the rounding precision must not defeat
	// the priority tie-break.
	reg := buildRegistry(t,
		scoringHandler("noisy", 0.5000000001, 0),
		scoringHandler("priority", 0.5, 10),
	)

	res, err := Classify(reg, testDoc(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DocType != "priority" {
		t.Errorf("expected rounded tie + priority win, got %q", res.DocType)
	}
}

func TestClassify_FaultIsolation(t *testing.T) {
	panicking := handler.Descriptor{
		ID: "panics",
		Detect: func(doc *xmldoc.Document) handler.Detection {
			panic("detector exploded")
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			return nil, nil
		},
	}
	reg := buildRegistry(t, panicking, scoringHandler("healthy", 0.6, 0))

	res, err := Classify(reg, testDoc(t), nil)
	if err != nil {
		t.Fatalf("panicking detector must not abort dispatch: %v", err)
	}
	if res.DocType != "healthy" {
		t.Errorf("expected healthy handler to win, got %q", res.DocType)
	}
	if len(res.Diagnostics) == 0 {
		t.Error("expected the detection failure to be recorded in diagnostics")
	}
	// The failed handler is ranked with score 0, not dropped.
	found := false
	for _, s := range res.Ranked {
		if s.ID == "panics" {
			found = true
			if s.Score != 0 {
				t.Errorf("expected panicking handler scored 0, got %v", s.Score)
			}
		}
	}
	if !found {
		t.Error("expected panicking handler in ranked list")
	}
}

func TestClassify_Unclassified(t *testing.T) {
	reg := buildRegistry(t,
		scoringHandler("a", 0, 0),
		scoringHandler("b", 0, 0),
	)

	res, err := Classify(reg, testDoc(t), nil)
	if !errors.Is(err, ErrUnclassified) {
		t.Fatalf("expected ErrUnclassified, got %v", err)
	}
	if res == nil {
		t.Fatal("result must still carry the ranked list")
	}
	if len(res.Ranked) != 2 {
		t.Errorf("expected 2 ranked entries, got %d", len(res.Ranked))
	}
	if res.DocType != "" {
		t.Errorf("expected empty doc type, got %q", res.DocType)
	}
}

func TestClassify_ScoreClamping(t *testing.T) {
	reg := buildRegistry(t,
		scoringHandler("over", 3.5, 0),
		scoringHandler("negative", -1, 0),
	)

	res, err := Classify(reg, testDoc(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ranked[0].Score != 1 {
		t.Errorf("expected over-range score clamped to 1, got %v", res.Ranked[0].Score)
	}
	if res.Ranked[1].Score != 0 {
		t.Errorf("expected negative score clamped to 0, got %v", res.Ranked[1].Score)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	reg := buildRegistry(t,
		scoringHandler("x", 0.5, 2),
		scoringHandler("y", 0.5, 2),
		scoringHandler("z", 0.8, 0),
		scoringHandler("w", 0.8, 1),
	)
	doc := testDoc(t)

	first, err := Classify(reg, doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Classify(reg, doc, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("classification not deterministic:\nfirst: %+v\nagain: %+v", first, again)
		}
	}
	if first.DocType != "w" {
		t.Errorf("expected w (0.8, priority 1) to win, got %q", first.DocType)
	}
}
