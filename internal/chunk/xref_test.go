package chunk

import (
	"strings"
	"testing"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
)

func nodeHints() *handler.StructuralHints {
	return &handler.StructuralHints{
		ChunkPaths: []string{"g/node"},
		IDKeys:     map[string]string{"g/node": "id"},
		RefKeys:    map[string]string{"g/node": "ref"},
	}
}

func TestResolveRefs_Bidirectional(t *testing.T) {
	input := `<g>
		<node><id>parent</id><body>the parent record body</body></node>
		<node><id>child</id><ref>parent</ref><body>the child record body</body></node>
	</g>`

	chunks, diags := Build(mustParse(t, input), nodeHints(), Options{})
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := chunks[1].Refs["parent"]; got != 0 {
		t.Errorf("expected forward ref to chunk 0, got %d", got)
	}
	if len(chunks[0].BackRefs) != 1 || chunks[0].BackRefs[0] != 1 {
		t.Errorf("expected back ref [1], got %v", chunks[0].BackRefs)
	}
}

func TestResolveRefs_ExternalTarget(t *testing.T) {
	input := `<g>
		<node><id>a</id><ref>nowhere</ref><body>references a record in another export</body></node>
	</g>`

	chunks, diags := Build(mustParse(t, input), nodeHints(), Options{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if len(chunks[0].ExternalRefs) != 1 || chunks[0].ExternalRefs[0] != "nowhere" {
		t.Errorf("expected external ref nowhere, got %v", chunks[0].ExternalRefs)
	}
	if len(chunks[0].Refs) != 0 {
		t.Errorf("external target must not produce a forward ref: %v", chunks[0].Refs)
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d, "nowhere") && strings.Contains(d, "external") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an external-reference diagnostic, got %v", diags)
	}
}

func TestGroupWithParents_CycleStaysInDocumentOrder(t *testing.T) {
	input := `<g>
		<node><id>a</id><ref>b</ref><body>first of a mutually referencing pair</body></node>
		<node><id>b</id><ref>a</ref><body>second of a mutually referencing pair</body></node>
	</g>`

	chunks, _ := Build(mustParse(t, input), nodeHints(), Options{})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ID != "a" || chunks[1].ID != "b" {
		t.Fatalf("cycle must keep document order, got %q then %q", chunks[0].ID, chunks[1].ID)
	}
	// Links still resolve in both directions.
	if chunks[0].Refs["b"] != 1 || chunks[1].Refs["a"] != 0 {
		t.Errorf("cycle refs wrong: %v / %v", chunks[0].Refs, chunks[1].Refs)
	}
	if len(chunks[0].BackRefs) != 1 || len(chunks[1].BackRefs) != 1 {
		t.Errorf("cycle back refs wrong: %v / %v", chunks[0].BackRefs, chunks[1].BackRefs)
	}
}

func TestGroupWithParents_SelfReferenceIgnored(t *testing.T) {
	input := `<g>
		<node><id>solo</id><ref>solo</ref><body>points at itself</body></node>
	</g>`

	chunks, diags := Build(mustParse(t, input), nodeHints(), Options{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	// A self reference resolves to no other chunk; it is recorded as
	// external rather than linking a chunk to itself.
	if len(chunks[0].ExternalRefs) != 1 {
		t.Errorf("expected self reference recorded external, got %+v diags=%v", chunks[0], diags)
	}
	if len(chunks[0].BackRefs) != 0 {
		t.Errorf("self reference must not create a back ref: %v", chunks[0].BackRefs)
	}
}

func TestGroupWithParents_ChildrenKeepRelativeOrder(t *testing.T) {
	input := `<g>
		<node><id>p</id><body>parent body</body></node>
		<node><id>x</id><body>unrelated record between parent and children</body></node>
		<node><ref>p</ref><body>first note</body></node>
		<node><ref>p</ref><body>second note</body></node>
	</g>`

	chunks, _ := Build(mustParse(t, input), nodeHints(), Options{})
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if chunks[0].ID != "p" {
		t.Fatalf("expected parent first, got %q", chunks[0].ID)
	}
	if !strings.Contains(chunks[1].Text, "first note") || !strings.Contains(chunks[2].Text, "second note") {
		t.Errorf("children not grouped behind parent in order: %q, %q", chunks[1].Text, chunks[2].Text)
	}
	if chunks[3].ID != "x" {
		t.Errorf("expected unrelated record moved after the group, got %q", chunks[3].ID)
	}
}
