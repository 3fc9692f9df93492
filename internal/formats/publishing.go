package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

var ditaRoots = map[string]string{
	"concept":   "conbody",
	"task":      "taskbody",
	"reference": "refbody",
	"topic":     "body",
}

// DITA handles DITA technical-publication topic modules.
func DITA() handler.Descriptor {
	return handler.Descriptor{
		ID:       "dita-topic",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			body, known := ditaRoots[root.Name]
			if !known {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.4, "dita topic root <" + root.Name + ">"},
				signal{root.Attr("id") != "", 0.2, "topic id attribute"},
				signal{root.Child("title") != nil, 0.2, "<title> present"},
				signal{root.Child(body) != nil, 0.2, "<" + body + "> present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			hints := &handler.StructuralHints{
				Kinds:  make(map[string]string),
				IDKeys: make(map[string]string),
			}
			// Sections and task steps are the natural chunk boundaries;
			// the paths vary with the topic type, so derive them from
			// the document's own (sorted) path index.
			for _, p := range doc.Paths() {
				if strings.HasSuffix(p, "/section") || strings.HasSuffix(p, "/step") {
					hints.ChunkPaths = append(hints.ChunkPaths, p)
					hints.Kinds[p] = "section"
					hints.IDKeys[p] = "id"
				}
			}

			var related []string
			doc.Walk(func(e *xmldoc.Element) {
				if e.Name == "xref" || e.Name == "link" {
					if href := e.Attr("href"); href != "" {
						related = append(related, href)
					}
				}
			})

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"topic_type":    root.Name,
					"topic_id":      root.Attr("id"),
					"title":         root.ChildText("title"),
					"short_desc":    root.ChildText("shortdesc"),
					"section_count": len(hints.ChunkPaths),
					"related_links": related,
				},
				Hints: hints,
			}, nil
		},
	}
}

const docbookNamespace = "http://docbook.org/ns/docbook"

// DocBook handles DocBook 4/5 books, articles, and chapters.
func DocBook() handler.Descriptor {
	return handler.Descriptor{
		ID:       "docbook",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			switch root.Name {
			case "book", "article", "chapter":
			default:
				return handler.Detection{}
			}
			structured := root.Child("chapter") != nil || root.Child("section") != nil ||
				root.Child("sect1") != nil || root.Child("info") != nil
			return detection(
				signal{true, 0.3, "docbook root <" + root.Name + ">"},
				signal{root.Space == docbookNamespace, 0.4, "docbook 5 namespace"},
				signal{root.Child("title") != nil, 0.1, "<title> present"},
				signal{structured, 0.2, "chapter/section structure"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			title := root.ChildText("title")
			if title == "" {
				if info := root.Child("info"); info != nil {
					title = info.ChildText("title")
				}
			}

			hints := &handler.StructuralHints{
				Kinds:  make(map[string]string),
				IDKeys: make(map[string]string),
			}
			counts := make(map[string]int)
			for _, p := range doc.Paths() {
				base := p[strings.LastIndex(p, "/")+1:]
				switch base {
				case "chapter", "section", "sect1", "appendix", "preface":
					counts[base] += len(doc.ByPath(p))
					hints.ChunkPaths = append(hints.ChunkPaths, p)
					hints.Kinds[p] = "section"
					hints.IDKeys[p] = "id"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"document_type":   root.Name,
					"title":           title,
					"division_counts": counts,
				},
				Hints: hints,
			}, nil
		},
	}
}
