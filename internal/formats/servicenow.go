package formats

import (
	"sort"
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// Tables whose rows annotate another record instead of standing alone,
// keyed by the field naming the record they belong to.
var servicenowJournalTables = map[string]string{
	"sys_journal_field": "element_id",
	"sys_audit":         "documentkey",
	"sys_history_line":  "set",
}

// ServiceNow handles ServiceNow table export XML: an <unload> root with
// one child element per exported row. Journal and audit rows reference
// their parent record's sys_id, so the hints group them behind it.
func ServiceNow() handler.Descriptor {
	return handler.Descriptor{
		ID:       "servicenow-export",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "unload" {
				return handler.Detection{}
			}
			hasSysID := false
			for _, p := range doc.Paths() {
				if strings.HasSuffix(p, "/sys_id") {
					hasSysID = true
					break
				}
			}
			return detection(
				signal{true, 0.6, "root <unload>"},
				signal{root.Attr("unload_date") != "", 0.2, "unload_date attribute"},
				signal{hasSysID, 0.2, "sys_id fields present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			tables := make(map[string]int)
			for _, row := range root.Children {
				tables[row.Name]++
			}
			names := make([]string, 0, len(tables))
			for n := range tables {
				names = append(names, n)
			}
			sort.Strings(names)

			hints := &handler.StructuralHints{
				Kinds:   make(map[string]string),
				IDKeys:  make(map[string]string),
				RefKeys: make(map[string]string),
			}
			for _, n := range names {
				path := "unload/" + n
				hints.ChunkPaths = append(hints.ChunkPaths, path)
				if refKey, journal := servicenowJournalTables[n]; journal {
					hints.Kinds[path] = "annotation"
					hints.RefKeys[path] = refKey
				} else {
					hints.Kinds[path] = "record"
					hints.IDKeys[path] = "sys_id"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"export_date":  root.Attr("unload_date"),
					"tables":       tables,
					"record_count": len(root.Children),
				},
				Hints: hints,
			}, nil
		},
	}
}
