package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// KML handles OGC Keyhole Markup Language documents.
func KML() handler.Descriptor {
	return handler.Descriptor{
		ID:       "kml",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "kml" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.5, "root <kml>"},
				signal{strings.Contains(root.Space, "opengis") || strings.Contains(root.Space, "earth"), 0.3, "kml namespace"},
				signal{root.Child("Document") != nil || root.Child("Placemark") != nil, 0.2, "Document/Placemark present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			var name string
			if d := doc.Root.Child("Document"); d != nil {
				name = d.ChildText("name")
			}

			placemarks := 0
			folders := 0
			doc.Walk(func(e *xmldoc.Element) {
				switch e.Name {
				case "Placemark":
					placemarks++
				case "Folder":
					folders++
				}
			})

			hints := &handler.StructuralHints{
				Kinds:  make(map[string]string),
				IDKeys: make(map[string]string),
			}
			for _, p := range doc.Paths() {
				if strings.HasSuffix(p, "/Placemark") {
					hints.ChunkPaths = append(hints.ChunkPaths, p)
					hints.Kinds[p] = "record"
					hints.IDKeys[p] = "id"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"document_name":   name,
					"placemark_count": placemarks,
					"folder_count":    folders,
				},
				Hints: hints,
			}, nil
		},
	}
}

// GPX handles GPS exchange files.
func GPX() handler.Descriptor {
	return handler.Descriptor{
		ID:       "gpx",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "gpx" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.5, "root <gpx>"},
				signal{root.Attr("version") != "", 0.2, "version attribute"},
				signal{root.Attr("creator") != "", 0.1, "creator attribute"},
				signal{root.Child("trk") != nil || root.Child("wpt") != nil || root.Child("rte") != nil, 0.2, "tracks/waypoints present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			hints := &handler.StructuralHints{
				Kinds:  make(map[string]string),
				IDKeys: make(map[string]string),
			}
			for _, section := range []string{"wpt", "rte", "trk"} {
				path := "gpx/" + section
				if doc.HasPath(path) {
					hints.ChunkPaths = append(hints.ChunkPaths, path)
					hints.Kinds[path] = "record"
					hints.IDKeys[path] = "name"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"creator":          root.Attr("creator"),
					"gpx_version":      root.Attr("version"),
					"waypoint_count":   len(doc.ByPath("gpx/wpt")),
					"route_count":      len(doc.ByPath("gpx/rte")),
					"track_count":      len(doc.ByPath("gpx/trk")),
					"trackpoint_count": len(doc.ByPath("gpx/trk/trkseg/trkpt")),
				},
				Hints: hints,
			}, nil
		},
	}
}
