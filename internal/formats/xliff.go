package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// XLIFF handles OASIS XLIFF translation interchange files.
func XLIFF() handler.Descriptor {
	return handler.Descriptor{
		ID:       "xliff",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "xliff" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.5, "root <xliff>"},
				signal{strings.Contains(root.Space, "xliff"), 0.3, "xliff namespace"},
				signal{root.Attr("version") != "", 0.2, "version attribute"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			fields := map[string]any{
				"xliff_version": root.Attr("version"),
				"file_count":    len(doc.ByPath("xliff/file")),
			}
			if f := root.Child("file"); f != nil {
				fields["source_language"] = f.Attr("source-language")
				fields["target_language"] = f.Attr("target-language")
				fields["original"] = f.Attr("original")
			}

			// XLIFF 1.2 nests units under body; 2.x puts them directly
			// under file.
			unitPath := "xliff/file/body/trans-unit"
			if !doc.HasPath(unitPath) {
				unitPath = "xliff/file/unit"
			}
			fields["unit_count"] = len(doc.ByPath(unitPath))

			hints := &handler.StructuralHints{}
			if doc.HasPath(unitPath) {
				hints.ChunkPaths = []string{unitPath}
				hints.Kinds = map[string]string{unitPath: "record"}
				hints.IDKeys = map[string]string{unitPath: "id"}
			}

			return &handler.SummaryRecord{Fields: fields, Hints: hints}, nil
		},
	}
}
