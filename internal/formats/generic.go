package formats

import (
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// Generic is a catch-all handler that accepts any well-formed document
// at a low score and deep-negative priority. It is NOT part of the
// default registry: without it, unrecognizable documents classify as
// unclassified, which callers can treat as a signal. Callers that
// prefer best-effort analysis register it explicitly.
func Generic() handler.Descriptor {
	return handler.Descriptor{
		ID:       "generic-xml",
		Priority: priorityFallback,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			return detection(
				signal{true, 0.1, "well-formed xml"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			childTags := make(map[string]int)
			for _, c := range root.Children {
				childTags[c.Name]++
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"root_element":   root.Name,
					"root_namespace": root.Space,
					"element_count":  doc.ElementCount(),
					"child_tags":     childTags,
				},
			}, nil
		},
	}
}
