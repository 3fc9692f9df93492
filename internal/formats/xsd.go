package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// XSD handles W3C XML Schema definitions.
func XSD() handler.Descriptor {
	return handler.Descriptor{
		ID:       "xml-schema",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "schema" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.4, "root <schema>"},
				signal{strings.Contains(root.Space, "XMLSchema"), 0.4, "xml schema namespace"},
				signal{root.Attr("targetNamespace") != "", 0.2, "targetNamespace attribute"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			var elements, complexTypes, simpleTypes []string
			for _, e := range doc.ByPath("schema/element") {
				elements = append(elements, e.Attr("name"))
			}
			for _, t := range doc.ByPath("schema/complexType") {
				complexTypes = append(complexTypes, t.Attr("name"))
			}
			for _, t := range doc.ByPath("schema/simpleType") {
				simpleTypes = append(simpleTypes, t.Attr("name"))
			}

			hints := &handler.StructuralHints{
				Kinds:  make(map[string]string),
				IDKeys: make(map[string]string),
			}
			for _, section := range []string{"element", "complexType", "simpleType", "group", "attributeGroup"} {
				path := "schema/" + section
				if doc.HasPath(path) {
					hints.ChunkPaths = append(hints.ChunkPaths, path)
					hints.Kinds[path] = "record"
					hints.IDKeys[path] = "name"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"target_namespace":     root.Attr("targetNamespace"),
					"element_form_default": root.Attr("elementFormDefault"),
					"elements":             elements,
					"complex_types":        complexTypes,
					"simple_types":         simpleTypes,
				},
				Hints: hints,
			}, nil
		},
	}
}
