package formats

import (
	"errors"
	"testing"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/classify"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

func classifySample(t *testing.T, overrides []Override, input string) (*classify.Result, error) {
	t.Helper()
	reg, err := Registry(overrides)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	doc, err := xmldoc.Parse([]byte(input))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return classify.Classify(reg, doc, nil)
}

func TestDetection_Winners(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		docType string
	}{
		{
			"servicenow export",
			`<unload unload_date="2024-01-15 10:30:00">
				<incident><sys_id>abc123</sys_id><short_description>printer down</short_description></incident>
			</unload>`,
			"servicenow-export",
		},
		{
			"maven pom",
			`<project xmlns="http://maven.apache.org/POM/4.0.0">
				<modelVersion>4.0.0</modelVersion>
				<groupId>com.example</groupId>
				<artifactId>demo</artifactId>
				<version>1.0.0</version>
			</project>`,
			"maven-pom",
		},
		{
			"svg",
			`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect width="10" height="10"/></svg>`,
			"svg",
		},
		{
			"rss feed",
			`<rss version="2.0"><channel><title>News</title><item><guid>1</guid><title>one</title></item></channel></rss>`,
			"rss-feed",
		},
		{
			"spring beans",
			`<beans xmlns="http://www.springframework.org/schema/beans">
				<bean id="svc" class="com.example.Service"/>
			</beans>`,
			"spring-beans",
		},
		{
			"atom feed",
			`<feed xmlns="http://www.w3.org/2005/Atom"><title>Blog</title><entry><id>e1</id></entry></feed>`,
			"atom-feed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := classifySample(t, nil, tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.DocType != tc.docType {
				t.Errorf("expected %s, got %s (confidence %v)", tc.docType, res.DocType, res.Confidence)
				for _, s := range res.Ranked[:min(3, len(res.Ranked))] {
					t.Logf("  ranked: %s score=%v priority=%d", s.ID, s.Score, s.Priority)
				}
			}
		})
	}
}

func TestDetection_UnknownDocumentIsUnclassified(t *testing.T) {
	// Generic() is deliberately not registered by default, so a shape no
	// handler recognizes surfaces as unclassified.
	res, err := classifySample(t, nil, `<totally><unknown>shape</unknown></totally>`)
	if !errors.Is(err, classify.ErrUnclassified) {
		t.Fatalf("expected ErrUnclassified, got %v", err)
	}
	if res == nil || len(res.Ranked) == 0 {
		t.Fatal("expected the ranked list even when unclassified")
	}
}

func TestGenericHandler_AcceptsAnything(t *testing.T) {
	reg, err := Registry(nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if _, ok := reg.Get("generic-xml"); ok {
		t.Fatal("generic handler must not be in the default registry")
	}
	if err := reg.Register(Generic()); err != nil {
		t.Fatalf("register generic: %v", err)
	}

	doc, err := xmldoc.Parse([]byte(`<totally><unknown>shape</unknown></totally>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := classify.Classify(reg, doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DocType != "generic-xml" {
		t.Errorf("expected generic fallback to win, got %s", res.DocType)
	}
	if res.Confidence != 0.1 {
		t.Errorf("expected confidence 0.1, got %v", res.Confidence)
	}
}

func TestRegistry_Overrides(t *testing.T) {
	boosted := 99
	overrides := []Override{
		{ID: "svg", Disabled: true},
		{ID: "rss-feed", Priority: &boosted},
	}
	reg, err := Registry(overrides)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	if _, ok := reg.Get("svg"); ok {
		t.Error("disabled handler must not register")
	}
	d, ok := reg.Get("rss-feed")
	if !ok {
		t.Fatal("rss-feed missing")
	}
	if d.Priority != boosted {
		t.Errorf("expected priority %d, got %d", boosted, d.Priority)
	}
	if reg.Len() != len(All())-1 {
		t.Errorf("expected %d handlers, got %d", len(All())-1, reg.Len())
	}
}

func TestServiceNow_ExtractHints(t *testing.T) {
	input := `<unload unload_date="2024-01-15 10:30:00">
		<incident><sys_id>R1</sys_id><short_description>desc</short_description></incident>
		<sys_journal_field><element_id>R1</element_id><value>note</value></sys_journal_field>
	</unload>`
	doc, err := xmldoc.Parse([]byte(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rec, err := ServiceNow().Extract(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.Fields["export_date"] != "2024-01-15 10:30:00" {
		t.Errorf("export_date wrong: %v", rec.Fields["export_date"])
	}
	if rec.Fields["record_count"] != 2 {
		t.Errorf("record_count wrong: %v", rec.Fields["record_count"])
	}
	h := rec.Hints
	if h == nil {
		t.Fatal("expected structural hints")
	}
	if h.Kinds["unload/incident"] != "record" {
		t.Errorf("incident kind wrong: %q", h.Kinds["unload/incident"])
	}
	if h.IDKeys["unload/incident"] != "sys_id" {
		t.Errorf("incident id key wrong: %q", h.IDKeys["unload/incident"])
	}
	if h.Kinds["unload/sys_journal_field"] != "annotation" {
		t.Errorf("journal kind wrong: %q", h.Kinds["unload/sys_journal_field"])
	}
	if h.RefKeys["unload/sys_journal_field"] != "element_id" {
		t.Errorf("journal ref key wrong: %q", h.RefKeys["unload/sys_journal_field"])
	}
}

func TestAll_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range All() {
		if seen[d.ID] {
			t.Errorf("duplicate handler id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Detect == nil || d.Extract == nil {
			t.Errorf("handler %q incomplete", d.ID)
		}
	}
}
