package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// Log4j handles Log4j 2 configuration files (<Configuration> with
// Appenders/Loggers blocks). The legacy 1.x <log4j:configuration> root
// is accepted at a lower score.
func Log4j() handler.Descriptor {
	return handler.Descriptor{
		ID:       "log4j-config",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if !strings.EqualFold(root.Name, "configuration") {
				return handler.Detection{}
			}
			legacy := strings.Contains(root.Space, "log4j")
			return detection(
				signal{true, 0.3, "root <Configuration>"},
				signal{root.Child("Appenders") != nil, 0.3, "<Appenders> block"},
				signal{root.Child("Loggers") != nil, 0.3, "<Loggers> block"},
				signal{root.Attr("status") != "", 0.1, "status attribute"},
				signal{legacy, 0.4, "log4j 1.x namespace"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			var appenders []map[string]string
			if a := root.Child("Appenders"); a != nil {
				for _, app := range a.Children {
					appenders = append(appenders, map[string]string{
						"type": app.Name,
						"name": app.Attr("name"),
					})
				}
			}

			var loggers []map[string]string
			if l := root.Child("Loggers"); l != nil {
				for _, lg := range l.Children {
					loggers = append(loggers, map[string]string{
						"type":  lg.Name,
						"name":  lg.Attr("name"),
						"level": lg.Attr("level"),
					})
				}
			}

			hints := &handler.StructuralHints{
				Kinds: make(map[string]string),
			}
			for _, block := range []string{"Properties", "Appenders", "Loggers"} {
				path := root.Name + "/" + block
				if doc.HasPath(path) {
					hints.ChunkPaths = append(hints.ChunkPaths, path)
					hints.Kinds[path] = "section"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"status":           root.Attr("status"),
					"monitor_interval": root.Attr("monitorInterval"),
					"appenders":        appenders,
					"loggers":          loggers,
				},
				Hints: hints,
			}, nil
		},
	}
}
