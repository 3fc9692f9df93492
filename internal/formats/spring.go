package formats

import (
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

const springBeansNamespace = "http://www.springframework.org/schema/beans"

// SpringBeans handles Spring framework XML application contexts. Bean
// definitions are natural record chunks; a bean's parent attribute
// references the definition it inherits from, which the chunker uses
// for grouping and cross-links.
func SpringBeans() handler.Descriptor {
	return handler.Descriptor{
		ID:       "spring-beans",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "beans" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.4, "root <beans>"},
				signal{root.Space == springBeansNamespace, 0.4, "spring beans namespace"},
				signal{root.Child("bean") != nil, 0.2, "<bean> definitions present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			beans := doc.ByPath("beans/bean")

			var defs []map[string]string
			for _, b := range beans {
				defs = append(defs, map[string]string{
					"id":    b.Attr("id"),
					"class": b.Attr("class"),
					"scope": b.Attr("scope"),
				})
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"bean_count":   len(beans),
					"beans":        defs,
					"profile":      doc.Root.Attr("profile"),
					"import_count": len(doc.ByPath("beans/import")),
				},
				Hints: &handler.StructuralHints{
					ChunkPaths: []string{"beans/bean"},
					Kinds:      map[string]string{"beans/bean": "record"},
					IDKeys:     map[string]string{"beans/bean": "id"},
					RefKeys:    map[string]string{"beans/bean": "parent"},
				},
			}, nil
		},
	}
}
