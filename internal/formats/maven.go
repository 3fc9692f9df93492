package formats

import (
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

const pomNamespace = "http://maven.apache.org/POM/4.0.0"

// MavenPOM handles Maven project descriptors (pom.xml).
func MavenPOM() handler.Descriptor {
	return handler.Descriptor{
		ID:       "maven-pom",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "project" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.4, "root <project>"},
				signal{root.Space == pomNamespace, 0.3, "maven pom namespace"},
				signal{root.Child("artifactId") != nil, 0.2, "<artifactId> present"},
				signal{root.Child("modelVersion") != nil, 0.1, "<modelVersion> present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			groupID := root.ChildText("groupId")
			if groupID == "" {
				// Inherited coordinates live on the parent block.
				if p := root.Child("parent"); p != nil {
					groupID = p.ChildText("groupId")
				}
			}

			var deps []map[string]string
			for _, d := range doc.ByPath("project/dependencies/dependency") {
				deps = append(deps, map[string]string{
					"groupId":    d.ChildText("groupId"),
					"artifactId": d.ChildText("artifactId"),
					"version":    d.ChildText("version"),
					"scope":      d.ChildText("scope"),
				})
			}

			var modules []string
			for _, m := range doc.ByPath("project/modules/module") {
				modules = append(modules, m.Text)
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"group_id":         groupID,
					"artifact_id":      root.ChildText("artifactId"),
					"version":          root.ChildText("version"),
					"packaging":        root.ChildText("packaging"),
					"name":             root.ChildText("name"),
					"dependency_count": len(deps),
					"dependencies":     deps,
					"modules":          modules,
				},
			}, nil
		},
	}
}

// Ivy handles Apache Ivy module descriptors (ivy.xml).
func Ivy() handler.Descriptor {
	return handler.Descriptor{
		ID:       "ivy-module",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "ivy-module" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.6, "root <ivy-module>"},
				signal{root.Attr("version") != "", 0.2, "version attribute"},
				signal{root.Child("info") != nil, 0.2, "<info> present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root
			fields := map[string]any{
				"ivy_version": root.Attr("version"),
			}
			if info := root.Child("info"); info != nil {
				fields["organisation"] = info.Attr("organisation")
				fields["module"] = info.Attr("module")
				fields["revision"] = info.Attr("revision")
			}

			var deps []map[string]string
			for _, d := range doc.ByPath("ivy-module/dependencies/dependency") {
				deps = append(deps, map[string]string{
					"org":  d.Attr("org"),
					"name": d.Attr("name"),
					"rev":  d.Attr("rev"),
					"conf": d.Attr("conf"),
				})
			}
			fields["dependency_count"] = len(deps)
			fields["dependencies"] = deps

			return &handler.SummaryRecord{Fields: fields}, nil
		},
	}
}
