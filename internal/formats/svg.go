package formats

import (
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// SVG handles Scalable Vector Graphics documents.
func SVG() handler.Descriptor {
	return handler.Descriptor{
		ID:       "svg",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "svg" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.5, "root <svg>"},
				signal{root.Space == svgNamespace, 0.3, "svg namespace"},
				signal{root.Attr("viewBox") != "" || root.Attr("width") != "", 0.2, "canvas dimensions"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			shapes := make(map[string]int)
			doc.Walk(func(e *xmldoc.Element) {
				switch e.Name {
				case "path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text", "g", "use", "image":
					shapes[e.Name]++
				}
			})

			var title string
			if t := root.Child("title"); t != nil {
				title = t.Text
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"title":         title,
					"width":         root.Attr("width"),
					"height":        root.Attr("height"),
					"view_box":      root.Attr("viewBox"),
					"shape_counts":  shapes,
					"element_count": doc.ElementCount(),
				},
			}, nil
		},
	}
}
