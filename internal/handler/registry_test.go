package handler

import (
	"errors"
	"testing"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

func stubDescriptor(id string) Descriptor {
	return Descriptor{
		ID: id,
		Detect: func(doc *xmldoc.Document) Detection {
			return Detection{Score: 1}
		},
		Extract: func(doc *xmldoc.Document) (*SummaryRecord, error) {
			return &SummaryRecord{}, nil
		},
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(stubDescriptor("dup")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := reg.Register(stubDescriptor("dup"))
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if !errors.Is(err, ErrDuplicateHandler) {
		t.Errorf("expected ErrDuplicateHandler, got %v", err)
	}
}

func TestRegistry_PreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	ids := []string{"zeta", "alpha", "mid"}
	for _, id := range ids {
		if err := reg.Register(stubDescriptor(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	all := reg.All()
	if len(all) != len(ids) {
		t.Fatalf("expected %d descriptors, got %d", len(ids), len(all))
	}
	for i, id := range ids {
		if all[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, all[i].ID)
		}
	}
}

func TestRegistry_RejectsIncompleteDescriptors(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(Descriptor{}); err == nil {
		t.Error("expected empty id to be rejected")
	}

	d := stubDescriptor("no-detect")
	d.Detect = nil
	if err := reg.Register(d); err == nil {
		t.Error("expected missing detect function to be rejected")
	}

	d = stubDescriptor("no-extract")
	d.Extract = nil
	if err := reg.Register(d); err == nil {
		t.Error("expected missing extract function to be rejected")
	}
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(stubDescriptor("known")); err != nil {
		t.Fatalf("register: %v", err)
	}

	if d, ok := reg.Get("known"); !ok || d.ID != "known" {
		t.Errorf("expected to find known handler, got ok=%v id=%q", ok, d.ID)
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Error("expected unknown handler to be absent")
	}
	if reg.Len() != 1 {
		t.Errorf("expected len 1, got %d", reg.Len())
	}
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(stubDescriptor("a")); err != nil {
		t.Fatalf("register: %v", err)
	}
	all := reg.All()
	all[0].ID = "mutated"
	if d, _ := reg.Get("a"); d.ID != "a" {
		t.Error("mutating All() result must not affect the registry")
	}
}
